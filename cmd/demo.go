package main

import (
	"github.com/pterm/pterm"

	"github.com/DanielDiaz18/hashdb/ledger"
)

const demoFile = "demo_blockchain.json"

var demoRecords = []string{
	"Transfer #1: alice -> bob $100",
	"Transfer #2: carol -> dave $50",
	"Transfer #3: bob -> erin $75",
	"Event: new user registered - ID 12345",
	"Log: system upgraded to version 2.0",
}

// runDemo walks through every operation on a fresh chain: append, show,
// verify, save, tamper and verify again.
func runDemo(s *session) error {
	chain, err := ledger.New(ledger.WithHasher(s.hasher))
	if err != nil {
		return err
	}
	s.chain = chain

	pterm.DefaultSection.Println("[1] Adding sample blocks")
	for _, record := range demoRecords {
		b, err := s.chain.Append([]byte(record))
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Block #%d created - digest %s...", b.Index, b.Digest.String()[:16])
	}

	pterm.DefaultSection.Println("[2] The whole chain")
	printChain(s.chain)

	pterm.DefaultSection.Println("[3] Verifying the chain")
	printResult(s.chain.Verify(), s.chain.Len())

	pterm.DefaultSection.Println("[4] Saving the chain")
	if err := s.openFile(demoFile).Save(s.chain); err != nil {
		return err
	}
	pterm.Success.Printfln("Chain saved to %s", demoFile)

	pterm.DefaultSection.Println("[5] Simulating an attack on block #2")
	if err := ledger.Tamper(s.chain, 2, []byte("CORRUPTED - fraudulent transfer: mallory -> mallory $999999")); err != nil {
		return err
	}
	pterm.Warning.Println("Block #2 payload rewritten, digests not recomputed")

	pterm.DefaultSection.Println("[6] Verifying after the attack")
	r := s.chain.Verify()
	printResult(r, s.chain.Len())

	pterm.DefaultSection.Println("[7] The corrupted block")
	b, err := s.chain.BlockAt(r.Index)
	if err != nil {
		return err
	}
	pterm.Println(renderBlock(b))
	return nil
}
