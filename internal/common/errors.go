package common

import "errors"

// Sentinel error kinds for the stock ledger and everything built on it.
// Callers classify with errors.Is; wrap with fmt.Errorf("...: %w", Err...).
var (
	// ErrValidation marks malformed or out-of-range input, rejected before any
	// lock is taken.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced product, sale, purchase order or return
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a decrement that would drive a location
	// negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict marks a state-machine violation: resolving an already
	// resolved request, approving against a stale snapshot, or exceeding the
	// remaining returnable quantity.
	ErrConflict = errors.New("conflict")

	// ErrConcurrency marks a lock-acquisition timeout. The whole operation may
	// be retried from scratch; partial operations are never resumed.
	ErrConcurrency = errors.New("concurrent operation, retry")

	// ErrPersistence marks an underlying store failure.
	ErrPersistence = errors.New("persistence failure")
)

// Retryable reports whether the caller may retry the whole operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}
