package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/DanielDiaz18/hashdb/ledger"
	"github.com/DanielDiaz18/hashdb/seal"
	"github.com/DanielDiaz18/hashdb/storage"
)

var (
	errExit         = errors.New("exit requested")
	errEmptyPayload = errors.New("the payload can not be empty")
	errTooShort     = errors.New("the chain needs at least 2 blocks to simulate an attack")
)

// session is the state of one run: the chain being worked on and where it
// lives.
type session struct {
	chain    *ledger.Chain
	file     *storage.File
	hasher   ledger.Hasher
	keys     seal.KeyPair
	sealPath string
	logger   *slog.Logger
}

func (s *session) openFile(path string) *storage.File {
	return storage.NewFile(path,
		storage.WithLogger(s.logger),
		storage.WithChainOptions(ledger.WithHasher(s.hasher)),
	)
}

type command struct {
	name  string
	label string
	run   func(s *session, p prompter) error
}

var commands = []command{
	{"append", "Add a new record", appendRecord},
	{"show", "Show the whole chain", showChain},
	{"verify", "Verify the chain integrity", verifyChain},
	{"save", "Save the chain to a file", saveChain},
	{"load", "Load a chain from a file", loadChain},
	{"tamper", "Simulate an attack: tamper with a block", tamperBlock},
	{"stats", "Show chain statistics", showStats},
	{"seal", "Seal the chain head", sealHead},
	{"check-seal", "Check the last seal", checkSeal},
	{"exit", "Save and exit", exit},
}

func findCommand(nameOrLabel string) (command, bool) {
	for _, c := range commands {
		if c.name == nameOrLabel || c.label == nameOrLabel {
			return c, true
		}
	}
	return command{}, false
}

// dispatch runs the named command.
func dispatch(s *session, name string, p prompter) error {
	c, ok := findCommand(name)
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	s.logger.Debug("running command", "command", c.name)
	return c.run(s, p)
}

func appendRecord(s *session, p prompter) error {
	payload, err := p.Text("Record payload (e.g. 'alice pays bob 10')", "")
	if err != nil {
		return err
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return errEmptyPayload
	}
	b, err := s.chain.Append([]byte(payload))
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Block #%d added", b.Index)
	pterm.Println(renderBlock(b))
	return nil
}

func showChain(s *session, _ prompter) error {
	printChain(s.chain)
	return nil
}

func verifyChain(s *session, _ prompter) error {
	r := s.chain.Verify()
	printResult(r, s.chain.Len())
	s.logger.Info("chain verified", "result", r.String(), "blocks", s.chain.Len())
	return nil
}

func askPath(p prompter, current string) (string, error) {
	path, err := p.Text("File name", current)
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = current
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	return path, nil
}

func saveChain(s *session, p prompter) error {
	path, err := askPath(p, s.file.Path)
	if err != nil {
		return err
	}
	if err := s.openFile(path).Save(s.chain); err != nil {
		return err
	}
	pterm.Success.Printfln("Chain saved to %s", path)
	return nil
}

func loadChain(s *session, p prompter) error {
	path, err := askPath(p, s.file.Path)
	if err != nil {
		return err
	}
	chain, err := s.openFile(path).Load()
	if err != nil {
		pterm.Warning.Println("Keeping the current chain.")
		return err
	}
	s.chain = chain
	pterm.Success.Printfln("Chain loaded from %s (%d blocks)", path, chain.Len())
	return nil
}

func tamperBlock(s *session, p prompter) error {
	n := s.chain.Len()
	if n < 2 {
		return errTooShort
	}
	answer, err := p.Text(fmt.Sprintf("Block to tamper with (1 - %d)", n-1), "")
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return fmt.Errorf("invalid block number %q", answer)
	}
	if index < 1 || index >= n {
		return fmt.Errorf("%w: block %d, choose between 1 and %d", ledger.ErrNotFound, index, n-1)
	}
	payload, err := p.Text("New payload", "")
	if err != nil {
		return err
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return errEmptyPayload
	}

	original, err := s.chain.BlockAt(index)
	if err != nil {
		return err
	}
	if err := ledger.Tamper(s.chain, index, []byte(payload)); err != nil {
		return err
	}
	pterm.Warning.Printfln("Block #%d payload changed from %q to %q", index, original.Payload, payload)

	rehash, err := p.Confirm("Also recompute the digest of this block?", false)
	if err != nil {
		return err
	}
	if rehash {
		if err := ledger.Rehash(s.chain, index); err != nil {
			return err
		}
		pterm.Warning.Printfln("Block #%d digest recomputed, following blocks left untouched", index)
	} else {
		pterm.Warning.Println("Digests were not recomputed")
	}
	s.logger.Warn("block tampered", "index", index, "rehash", rehash)
	return nil
}

func showStats(s *session, _ prompter) error {
	return printStats(s.chain.Stats())
}

func sealHead(s *session, _ prompter) error {
	sl, err := seal.Sign(s.chain, s.keys)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sl, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.sealPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write seal: %w", err)
	}
	pterm.Success.Printfln("Block #%d sealed, seal written to %s", sl.Index, s.sealPath)
	return nil
}

func checkSeal(s *session, _ prompter) error {
	data, err := os.ReadFile(s.sealPath)
	if err != nil {
		return fmt.Errorf("read seal: %w", err)
	}
	var sl seal.Seal
	if err := json.Unmarshal(data, &sl); err != nil {
		return fmt.Errorf("decode seal %s: %w", s.sealPath, err)
	}
	if err := seal.Check(s.chain, sl, s.keys.Public); err != nil {
		return fmt.Errorf("seal over block #%d does not hold: %w", sl.Index, err)
	}
	pterm.Success.Printfln("Seal over block #%d holds", sl.Index)
	return nil
}

func exit(s *session, _ prompter) error {
	if err := s.file.Save(s.chain); err != nil {
		return err
	}
	pterm.Success.Printfln("Chain saved to %s", s.file.Path)
	return errExit
}
