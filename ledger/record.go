package ledger

import (
	"fmt"
	"unicode/utf8"
)

// Record is the serialized form of a block exchanged with persistence. Every
// field is required; pointers let decoders tell a missing field from a zero
// value. Timestamps are Unix seconds and digests are lowercase hex.
type Record struct {
	Index          *int    `json:"index" msgpack:"index"`
	Timestamp      *int64  `json:"timestamp" msgpack:"timestamp"`
	Payload        *string `json:"payload" msgpack:"payload"`
	PreviousDigest *string `json:"previous_digest" msgpack:"previous_digest"`
	Digest         *string `json:"digest" msgpack:"digest"`
}

// NewRecord builds the serialized form of b.
func NewRecord(b Block) Record {
	index := b.Index
	timestamp := b.Timestamp
	payload := string(b.Payload)
	previous := b.PreviousDigest.String()
	digest := b.Digest.String()
	return Record{
		Index:          &index,
		Timestamp:      &timestamp,
		Payload:        &payload,
		PreviousDigest: &previous,
		Digest:         &digest,
	}
}

// Block converts a record back into a block, checking only that every field
// is present and well typed.
func (r Record) Block() (Block, error) {
	switch {
	case r.Index == nil:
		return Block{}, fmt.Errorf("missing field %q", "index")
	case r.Timestamp == nil:
		return Block{}, fmt.Errorf("missing field %q", "timestamp")
	case r.Payload == nil:
		return Block{}, fmt.Errorf("missing field %q", "payload")
	case r.PreviousDigest == nil:
		return Block{}, fmt.Errorf("missing field %q", "previous_digest")
	case r.Digest == nil:
		return Block{}, fmt.Errorf("missing field %q", "digest")
	}
	if *r.Index < 0 {
		return Block{}, fmt.Errorf("negative index %d", *r.Index)
	}
	if !utf8.ValidString(*r.Payload) {
		return Block{}, fmt.Errorf("payload is not valid UTF-8")
	}
	previous, err := ParseDigest(*r.PreviousDigest)
	if err != nil {
		return Block{}, fmt.Errorf("previous_digest: %w", err)
	}
	digest, err := ParseDigest(*r.Digest)
	if err != nil {
		return Block{}, fmt.Errorf("digest: %w", err)
	}
	return Block{
		Index:          *r.Index,
		Timestamp:      *r.Timestamp,
		Payload:        []byte(*r.Payload),
		PreviousDigest: previous,
		Digest:         digest,
	}, nil
}

// Records returns the serialized form of every block in chain order.
func (c *Chain) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]Record, len(c.blocks))
	for i, b := range c.blocks {
		records[i] = NewRecord(b)
	}
	return records
}

// FromRecords rebuilds a chain from its serialized form. It enforces
// structural well-formedness only and wraps every failure in
// ErrMalformedChain; integrity is left to Verify. An empty list yields a fresh
// chain with a genesis block.
func FromRecords(records []Record, opts ...Option) (*Chain, error) {
	if len(records) == 0 {
		return New(opts...)
	}

	c := &Chain{
		cfg:    newConfig(opts),
		blocks: make([]Block, 0, len(records)),
	}
	for i, r := range records {
		b, err := r.Block()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedChain, i, err)
		}
		c.blocks = append(c.blocks, b)
	}
	return c, nil
}
