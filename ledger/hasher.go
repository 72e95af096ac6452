package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"math"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// MaxPayloadSize is the largest payload the canonical encoding can carry.
const MaxPayloadSize = math.MaxUint32

// Hasher computes block digests.
//
// The canonical encoding fed to the hash function is, in order:
//
//	index           8 bytes, big-endian unsigned
//	timestamp       8 bytes, big-endian signed Unix seconds
//	payload length  4 bytes, big-endian unsigned
//	payload         raw UTF-8 bytes
//	previous digest 32 bytes
//
// The length prefix keeps the encoding unambiguous for any payload content.
type Hasher struct {
	name    string
	newHash func() hash.Hash
}

var (
	// SHA256 is the default hasher.
	SHA256 = Hasher{name: "sha256", newHash: sha256.New}
	// BLAKE2b uses the 256-bit BLAKE2b variant.
	BLAKE2b = Hasher{name: "blake2b", newHash: newBlake2b256}
)

func newBlake2b256() hash.Hash {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	return h
}

// HasherByName returns the hasher registered under name.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case SHA256.name, "":
		return SHA256, nil
	case BLAKE2b.name:
		return BLAKE2b, nil
	default:
		return Hasher{}, fmt.Errorf("unknown hash function %q", name)
	}
}

// Name returns the name of the hash function.
func (h Hasher) Name() string {
	if h.newHash == nil {
		return SHA256.name
	}
	return h.name
}

// Digest computes the digest of the given block fields.
func (h Hasher) Digest(index int, timestamp int64, payload []byte, previous Digest) (Digest, error) {
	var d Digest
	data, err := canonicalEncoding(index, timestamp, payload, previous)
	if err != nil {
		return d, err
	}
	newHash := h.newHash
	if newHash == nil {
		newHash = sha256.New
	}
	hasher := newHash()
	hasher.Write(data)
	copy(d[:], hasher.Sum(nil))
	return d, nil
}

func canonicalEncoding(index int, timestamp int64, payload []byte, previous Digest) ([]byte, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrEncoding, index)
	}
	if uint64(len(payload)) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrEncoding, len(payload), uint64(MaxPayloadSize))
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrEncoding)
	}

	data := make([]byte, 0, 8+8+4+len(payload)+DigestSize)
	data = binary.BigEndian.AppendUint64(data, uint64(index))
	data = binary.BigEndian.AppendUint64(data, uint64(timestamp))
	data = binary.BigEndian.AppendUint32(data, uint32(len(payload)))
	data = append(data, payload...)
	data = append(data, previous[:]...)
	return data, nil
}
