package ledger

import (
	"encoding/hex"
	"fmt"
)

// DigestSize is the length in bytes of every block digest.
const DigestSize = 32

// Digest is the fixed-length fingerprint of a block.
type Digest [DigestSize]byte

// GenesisDigest is the previous digest of the genesis block.
var GenesisDigest Digest

// ParseDigest decodes a digest from its 64 characters hex form.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != 2*DigestSize {
		return d, fmt.Errorf("digest must be %d hex characters, got %d", 2*DigestSize, len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	return d, nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d is the all-zero sentinel.
func (d Digest) IsZero() bool {
	return d == GenesisDigest
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Block is a single ledger entry.
type Block struct {
	Index          int
	Timestamp      int64 // Unix seconds
	Payload        []byte
	PreviousDigest Digest
	Digest         Digest
}

// Recompute returns the digest h produces for the block's own fields. It does
// not modify the block.
func (b Block) Recompute(h Hasher) (Digest, error) {
	return h.Digest(b.Index, b.Timestamp, b.Payload, b.PreviousDigest)
}

func (b Block) clone() Block {
	b.Payload = cloneBytes(b.Payload)
	return b
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
