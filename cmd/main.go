package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/DanielDiaz18/hashdb/ledger"
	"github.com/DanielDiaz18/hashdb/seal"
	"github.com/DanielDiaz18/hashdb/storage"
)

const defaultFile = "blockchain.json"

func main() {
	fileFlag := flag.String("file", defaultFile, "chain file, .msgpack or .mp for the binary format")
	hashFlag := flag.String("hash", "sha256", "hash function: sha256 or blake2b")
	keyFlag := flag.String("key", "ledger.key", "seal signing key file, created if missing")
	sealFlag := flag.String("seal", "ledger.seal.json", "seal file")
	demoFlag := flag.Bool("demo", false, "run the scripted demo and exit")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *debugFlag {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	}
	// Create a new slog handler with the default PTerm logger
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hash", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("DB", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		logger.Error(err.Error())
	}
	pterm.Print(title)

	hasher, err := ledger.HasherByName(*hashFlag)
	if err != nil {
		logger.Error("invalid hash function", "hash", *hashFlag, "error", err)
		os.Exit(1)
	}
	keys, err := loadOrCreateKey(*keyFlag, logger)
	if err != nil {
		logger.Error("could not prepare the seal key", "path", *keyFlag, "error", err)
		os.Exit(1)
	}

	s := &session{
		hasher:   hasher,
		keys:     keys,
		sealPath: *sealFlag,
		logger:   logger,
	}
	s.file = s.openFile(*fileFlag)

	if *demoFlag {
		if err := runDemo(s); err != nil {
			logger.Error("demo failed", "error", err)
			os.Exit(1)
		}
		return
	}

	s.chain, err = startChain(s)
	if err != nil {
		logger.Error("could not create the chain", "error", err)
		os.Exit(1)
	}

	if err := loop(s, ptermPrompter{}); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// startChain loads the chain file, falling back to a fresh chain when the file
// is missing or can not be read.
func startChain(s *session) (*ledger.Chain, error) {
	chain, err := s.file.Load()
	switch {
	case err == nil:
		pterm.Info.Printfln("Chain loaded from %s (%d blocks)", s.file.Path, chain.Len())
		return chain, nil
	case errors.Is(err, storage.ErrNotExist):
		pterm.Info.Printfln("%s not found, starting a new chain", s.file.Path)
	default:
		s.logger.Error("could not load the chain, starting a new one", "path", s.file.Path, "error", err)
	}
	return ledger.New(ledger.WithHasher(s.hasher))
}

// loop runs commands until exit is selected. Command errors are reported and
// the loop goes on.
func loop(s *session, p prompter) error {
	labels := make([]string, len(commands))
	for i, c := range commands {
		labels[i] = c.label
	}
	for {
		pterm.Println()
		selected, err := p.Select("Select an option", labels)
		if err != nil {
			return err
		}
		err = dispatch(s, selected, p)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			pterm.Error.Println(err.Error())
		}
	}
}

func loadOrCreateKey(path string, logger *slog.Logger) (seal.KeyPair, error) {
	var kp seal.KeyPair
	data, err := os.ReadFile(path)
	if err == nil {
		if err := kp.UnmarshalText([]byte(strings.TrimSpace(string(data)))); err != nil {
			return kp, err
		}
		logger.Debug("seal key loaded", "path", path)
		return kp, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return kp, err
	}

	kp = seal.NewKeyPair()
	text, err := kp.MarshalText()
	if err != nil {
		return kp, err
	}
	if err := os.WriteFile(path, append(text, '\n'), 0o600); err != nil {
		return kp, err
	}
	logger.Info("new seal key created", "path", path)
	return kp, nil
}
