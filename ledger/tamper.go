package ledger

import (
	"fmt"
	"unicode/utf8"
)

// Tamper overwrites the payload of the block at index and nothing else: the
// block digest and every downstream link keep their old values, the way an
// attacker editing the stored data would leave them. It exists to exercise
// Verify and is never part of the append flow. The payload must be UTF-8 like
// any appended one, so a tampered chain still saves and loads unchanged.
func Tamper(c *Chain, index int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.blocks) {
		return fmt.Errorf("%w: index %d, chain length %d", ErrNotFound, index, len(c.blocks))
	}
	if !utf8.Valid(payload) {
		return fmt.Errorf("%w: payload is not valid UTF-8", ErrEncoding)
	}
	c.blocks[index].Payload = cloneBytes(payload)
	return nil
}

// Rehash recomputes the digest of the block at index from its current fields
// without touching the following blocks. After a Tamper it turns the digest
// mismatch at index into a broken link at index+1.
func Rehash(c *Chain, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.blocks) {
		return fmt.Errorf("%w: index %d, chain length %d", ErrNotFound, index, len(c.blocks))
	}
	digest, err := c.blocks[index].Recompute(c.cfg.hasher)
	if err != nil {
		return fmt.Errorf("block %d: %w", index, err)
	}
	c.blocks[index].Digest = digest
	return nil
}
