// Package seal signs checkpoints of a ledger chain.
//
// A Seal commits to the digest of one block with a Schnorr signature over the
// Ed25519 group. Since every digest commits to all the blocks before it, a
// seal over the tail vouches for the whole history up to that point: if any
// earlier block is rewritten, either the chain stops verifying or the sealed
// digest changes.
package seal

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/kyber/v4/util/key"

	"github.com/DanielDiaz18/hashdb/ledger"
)

var suite suites.Suite = suites.MustFind("Ed25519")

const domain = "hashdb-seal-v1"

var (
	// ErrBadSignature is returned when a seal signature does not verify.
	ErrBadSignature = errors.New("seal: bad signature")

	// ErrSealMismatch is returned when the sealed block now carries another digest.
	ErrSealMismatch = errors.New("seal: sealed digest no longer in chain")

	// ErrBadKey is returned for keys that can not be decoded.
	ErrBadKey = errors.New("seal: bad key")

	// ErrUntrustedKey is returned when a seal was made by a key other than the trusted one.
	ErrUntrustedKey = errors.New("seal: untrusted key")
)

// KeyPair is a Schnorr signing key.
type KeyPair struct {
	Public  kyber.Point
	Private kyber.Scalar
}

// NewKeyPair generates a random key pair.
func NewKeyPair() KeyPair {
	p := key.NewKeyPair(suite)
	return KeyPair{Public: p.Public, Private: p.Private}
}

// MarshalText encodes the private scalar as hex. The public point is derived
// from it again on decode.
func (kp KeyPair) MarshalText() ([]byte, error) {
	b, err := kp.Private.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(b)), nil
}

func (kp *KeyPair) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	private := suite.Scalar()
	if err := private.UnmarshalBinary(b); err != nil {
		return fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	kp.Private = private
	kp.Public = suite.Point().Mul(private, nil)
	return nil
}

type hexBytes []byte

func (h hexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

func (h *hexBytes) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*h = b
	return nil
}

// Seal is a signed statement that the block at Index carries Digest.
type Seal struct {
	Index     int           `json:"index"`
	Digest    ledger.Digest `json:"digest"`
	PublicKey hexBytes      `json:"public_key"`
	Signature hexBytes      `json:"signature"`
}

func message(index int, digest ledger.Digest) []byte {
	msg := make([]byte, 0, len(domain)+8+ledger.DigestSize)
	msg = append(msg, domain...)
	msg = binary.BigEndian.AppendUint64(msg, uint64(index))
	msg = append(msg, digest[:]...)
	return msg
}

// Sign seals the current tail of c.
func Sign(c *ledger.Chain, kp KeyPair) (Seal, error) {
	tail, err := c.Tail()
	if err != nil {
		return Seal{}, err
	}
	sig, err := schnorr.Sign(suite, kp.Private, message(tail.Index, tail.Digest))
	if err != nil {
		return Seal{}, fmt.Errorf("sign block %d: %w", tail.Index, err)
	}
	pub, err := kp.Public.MarshalBinary()
	if err != nil {
		return Seal{}, fmt.Errorf("encode public key: %w", err)
	}
	return Seal{
		Index:     tail.Index,
		Digest:    tail.Digest,
		PublicKey: pub,
		Signature: sig,
	}, nil
}

// SignedBy reports whether s carries the given public key.
func (s Seal) SignedBy(public kyber.Point) bool {
	pub, err := public.MarshalBinary()
	if err != nil {
		return false
	}
	return bytes.Equal(pub, s.PublicKey)
}

// Check verifies that the seal was made by trusted, that its signature holds,
// that the chain verifies up to the sealed block and that the sealed block
// still carries the sealed digest. Breaks after the sealed block are not its
// concern.
func Check(c *ledger.Chain, s Seal, trusted kyber.Point) error {
	if trusted == nil || !s.SignedBy(trusted) {
		return ErrUntrustedKey
	}
	if err := schnorr.Verify(suite, trusted, message(s.Index, s.Digest), s.Signature); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	b, err := c.BlockAt(s.Index)
	if err != nil {
		return err
	}
	if r := c.Verify(); !r.Valid && r.Index <= s.Index {
		return r.Err()
	}
	if b.Digest != s.Digest {
		return fmt.Errorf("%w: block %d has digest %s, sealed %s", ErrSealMismatch, s.Index, b.Digest, s.Digest)
	}
	return nil
}
