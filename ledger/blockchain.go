package ledger

import (
	"fmt"
	"sync"
	"time"
)

// DefaultGenesisPayload is stored in the genesis block unless WithGenesisPayload
// says otherwise.
const DefaultGenesisPayload = "genesis"

// Chain is an ordered sequence of blocks starting from the genesis block.
// It is meant to be owned by a single writer.
type Chain struct {
	mu     sync.RWMutex
	cfg    config
	blocks []Block
}

type config struct {
	hasher  Hasher
	now     func() time.Time
	genesis []byte
}

// Option configures a Chain.
type Option func(config) config

func defaultConfig() config {
	return config{
		hasher:  SHA256,
		now:     time.Now,
		genesis: []byte(DefaultGenesisPayload),
	}
}

// WithHasher selects the hash function used for new and verified digests.
func WithHasher(h Hasher) Option {
	return func(c config) config {
		c.hasher = h
		return c
	}
}

// WithClock replaces time.Now as the source of block timestamps.
func WithClock(now func() time.Time) Option {
	return func(c config) config {
		c.now = now
		return c
	}
}

// WithGenesisPayload sets the payload of the genesis block. An empty payload
// is allowed.
func WithGenesisPayload(payload []byte) Option {
	return func(c config) config {
		c.genesis = cloneBytes(payload)
		if c.genesis == nil {
			c.genesis = []byte{}
		}
		return c
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return cfg
}

// New creates a chain holding only the genesis block. The genesis block has
// index 0 and the all-zero previous digest.
func New(opts ...Option) (*Chain, error) {
	c := &Chain{cfg: newConfig(opts)}

	genesis := Block{
		Index:          0,
		Timestamp:      c.cfg.now().Unix(),
		Payload:        cloneBytes(c.cfg.genesis),
		PreviousDigest: GenesisDigest,
	}
	digest, err := genesis.Recompute(c.cfg.hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate genesis block digest: %w", err)
	}
	genesis.Digest = digest
	c.blocks = []Block{genesis}

	return c, nil
}

// Append adds a new block carrying payload after the current tail and returns
// a copy of it. The timestamp never goes backwards, even if the clock does.
func (c *Chain) Append(payload []byte) (Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}
	tail := c.blocks[len(c.blocks)-1]

	ts := c.cfg.now().Unix()
	if ts < tail.Timestamp {
		ts = tail.Timestamp
	}
	b := Block{
		Index:          tail.Index + 1,
		Timestamp:      ts,
		Payload:        cloneBytes(payload),
		PreviousDigest: tail.Digest,
	}
	if b.Payload == nil {
		b.Payload = []byte{}
	}
	digest, err := b.Recompute(c.cfg.hasher)
	if err != nil {
		return Block{}, fmt.Errorf("block %d: %w", b.Index, err)
	}
	b.Digest = digest

	c.blocks = append(c.blocks, b)

	return b.clone(), nil
}

// BlockAt returns a copy of the block at position index.
func (c *Chain) BlockAt(index int) (Block, error) {
	b, ok := c.Find(index)
	if !ok {
		return Block{}, fmt.Errorf("%w: index %d, chain length %d", ErrNotFound, index, c.Len())
	}
	return b, nil
}

// Find is like BlockAt but reports a missing block with false.
func (c *Chain) Find(index int) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.blocks) {
		return Block{}, false
	}
	return c.blocks[index].clone(), true
}

// Tail returns the most recently appended block.
func (c *Chain) Tail() (Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}
	return c.blocks[len(c.blocks)-1].clone(), nil
}

// Len returns the number of blocks, genesis included.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// Blocks returns a copy of every block in chain order.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Block, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = b.clone()
	}
	return out
}

// Hasher returns the hasher the chain was built with.
func (c *Chain) Hasher() Hasher {
	return c.cfg.hasher
}

// Stats summarizes a chain.
type Stats struct {
	Blocks         int
	FirstTimestamp int64
	LastTimestamp  int64
	PayloadBytes   int
	Tail           Digest
	HashFunction   string
}

// Stats returns a summary of the chain.
func (c *Chain) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Blocks:       len(c.blocks),
		HashFunction: c.cfg.hasher.Name(),
	}
	if len(c.blocks) == 0 {
		return s
	}
	s.FirstTimestamp = c.blocks[0].Timestamp
	s.LastTimestamp = c.blocks[len(c.blocks)-1].Timestamp
	s.Tail = c.blocks[len(c.blocks)-1].Digest
	for _, b := range c.blocks {
		s.PayloadBytes += len(b.Payload)
	}
	return s
}
