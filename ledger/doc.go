// Package ledger implements an append-only ledger whose blocks are linked
// together through a cryptographic hash chain.
//
// # Core Components
//
// Hasher: Computes the digest of a block over a fixed canonical encoding of
// its index, timestamp, payload and previous digest.
//
// Block: A single ledger entry holding its payload and the digests that link
// it to its predecessor.
//
// Chain: The ordered sequence of blocks, seeded with a genesis block and
// extended only at the tail.
//
// # Security Properties
//
// The chain provides:
//   - Tamper detection: editing a stored payload breaks the block digest
//   - Link detection: splicing, reordering or removing blocks breaks the
//     previous digest of the following block
//   - Reproducibility: the canonical encoding is documented on Hasher, so any
//     implementation can recompute every digest
//
// # Usage
//
// Create a chain with New, or rebuild one from its serialized records with
// FromRecords, then Append payloads. Verify can be called at any time and
// reports the first block where the chain breaks. Tamper and Rehash modify
// stored blocks behind the chain's back and exist only to exercise Verify.
package ledger
