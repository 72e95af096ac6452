package ledger

import "fmt"

// Reason explains why verification stopped.
type Reason string

const (
	// ReasonDigestMismatch means a block's content was altered after creation.
	ReasonDigestMismatch Reason = "digest mismatch"
	// ReasonBrokenLink means the chain was spliced, reordered or a block removed.
	ReasonBrokenLink Reason = "broken link"
	// ReasonIndexMismatch means a block does not sit at the position its index claims.
	ReasonIndexMismatch Reason = "index mismatch"
	// ReasonEncoding means a stored block can not be canonically encoded anymore.
	ReasonEncoding Reason = "encoding error"
)

// Result is the outcome of Verify. The zero value is not meaningful; use
// Valid to tell the two cases apart.
type Result struct {
	Valid bool
	// Index is the position of the first broken block.
	Index  int
	Reason Reason
	// Expected and Actual hold the digests that disagree: the recomputed
	// and stored digest for a digest mismatch, the predecessor digest and the
	// recorded previous digest for a broken link.
	Expected Digest
	Actual   Digest
}

func (r Result) String() string {
	if r.Valid {
		return "Valid"
	}
	return fmt.Sprintf("Invalid(%d, %s)", r.Index, r.Reason)
}

// Err returns nil for a valid result and an *IntegrityError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &IntegrityError{Result: r}
}

// IntegrityError carries an invalid Result through error returns.
type IntegrityError struct {
	Result Result
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("block %d: %s", e.Result.Index, e.Result.Reason)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

// Verify walks the chain from the genesis block to the tail and stops at the
// first block that is not consistent. For each block it checks, in order,
// that the stored digest matches the recomputed one, that the previous digest
// matches the digest stored in the predecessor (the zero sentinel for the
// genesis block) and that the index matches the block position.
//
// A broken chain is reported in the Result, never as an error. The chain is
// not modified.
func (c *Chain) Verify() Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	previous := GenesisDigest
	for i, b := range c.blocks {
		computed, err := b.Recompute(c.cfg.hasher)
		if err != nil {
			return Result{Index: i, Reason: ReasonEncoding, Actual: b.Digest}
		}
		if computed != b.Digest {
			return Result{Index: i, Reason: ReasonDigestMismatch, Expected: computed, Actual: b.Digest}
		}
		if b.PreviousDigest != previous {
			return Result{Index: i, Reason: ReasonBrokenLink, Expected: previous, Actual: b.PreviousDigest}
		}
		if b.Index != i {
			return Result{Index: i, Reason: ReasonIndexMismatch}
		}
		previous = b.Digest
	}

	return Result{Valid: true}
}
