// Package storage persists ledger chains to files.
//
// A file holds the serialized records of a chain, encoded with a Codec. Loads
// read the whole file at once and saves replace it atomically, so a reader
// never observes a partially written chain.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DanielDiaz18/hashdb/ledger"
)

// ErrNotExist is returned by Load when the file does not exist yet.
var ErrNotExist = fmt.Errorf("storage: chain file does not exist: %w", fs.ErrNotExist)

// File is a chain stored in a single file.
type File struct {
	Path string

	codec        Codec
	logger       *slog.Logger
	perm         fs.FileMode
	chainOptions []ledger.Option
}

type option func(File) File

// NewFile returns a File for path. The codec is derived from the extension
// unless WithCodec overrides it.
func NewFile(path string, opts ...option) *File {
	f := File{
		Path:   path,
		codec:  CodecFor(path),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		perm:   0o644,
	}
	for _, opt := range opts {
		f = opt(f)
	}
	return &f
}

// WithCodec overrides the codec picked from the file extension.
func WithCodec(codec Codec) option {
	return func(f File) File {
		f.codec = codec
		return f
	}
}

// WithLogger sets the logger used for load and save events.
func WithLogger(logger *slog.Logger) option {
	return func(f File) File {
		f.logger = logger
		return f
	}
}

// WithPermissions sets the mode of saved files.
func WithPermissions(perm fs.FileMode) option {
	return func(f File) File {
		f.perm = perm
		return f
	}
}

// WithChainOptions sets the options used to rebuild loaded chains, typically
// ledger.WithHasher.
func WithChainOptions(opts ...ledger.Option) option {
	return func(f File) File {
		f.chainOptions = append(f.chainOptions, opts...)
		return f
	}
}

// Codec returns the codec used by f.
func (f *File) Codec() Codec {
	return f.codec
}

// Load reads and decodes the chain. It checks structure only; the returned
// chain may still fail Verify.
func (f *File) Load() (*ledger.Chain, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, f.Path)
		}
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}

	records, err := f.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	chain, err := ledger.FromRecords(records, f.chainOptions...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.Path, err)
	}

	f.logger.Debug("chain loaded", "path", f.Path, "codec", f.codec.Name(), "blocks", chain.Len())
	return chain, nil
}

// Save encodes the chain and replaces the file content. The data is written
// to a temporary file in the same directory, synced and renamed over Path.
func (f *File) Save(chain *ledger.Chain) error {
	data, err := f.codec.Encode(chain.Records())
	if err != nil {
		return fmt.Errorf("encode chain: %w", err)
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), f.perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp.Name(), err)
	}

	f.logger.Debug("chain saved", "path", f.Path, "codec", f.codec.Name(), "blocks", chain.Len(), "bytes", len(data))
	return nil
}
