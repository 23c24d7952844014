package swap

import "errors"

var (
	// ErrInvalidDuration rejects pool creation with a zero duration.
	ErrInvalidDuration = errors.New("pool duration must be positive")
	// ErrPoolNotFound rejects operations on an unknown pool id.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolExpired rejects swaps at or after the pool's end block.
	ErrPoolExpired = errors.New("pool expired")
	// ErrZeroRate rejects swaps against a pool whose target amount is zero,
	// which leaves the fixed rate undefined.
	ErrZeroRate = errors.New("pool target amount is zero")
	// ErrPoolSoldOut rejects swaps that would push the pool past its declared
	// totals.
	ErrPoolSoldOut = errors.New("swap exceeds pool remainder")
)
