package orders

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrFinalized: the order already reached a terminal status; callers
	// treat it as an idempotency signal, not a hard failure.
	ErrFinalized     = errors.New("order already finalized")
	ErrInvalidStatus = errors.New("invalid target status")
)

// ValidationError carries the offending field so the API can answer with
// field-level detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}
