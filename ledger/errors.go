package ledger

import "errors"

var (
	// ErrEncoding is returned when block fields can not be canonically encoded.
	ErrEncoding = errors.New("ledger: encoding error")
	// ErrNotFound is returned when an index is outside the chain bounds.
	ErrNotFound = errors.New("ledger: block not found")
	// ErrMalformedChain is returned when serialized records are not well formed.
	ErrMalformedChain = errors.New("ledger: malformed chain")
	// ErrEmptyChain means the chain holds no block, not even the genesis one.
	ErrEmptyChain = errors.New("ledger: empty chain")
	// ErrIntegrity is wrapped by IntegrityError.
	ErrIntegrity = errors.New("ledger: integrity check failed")
)
