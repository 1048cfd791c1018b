package stock

import "errors"

var (
	ErrUnknownAction   = errors.New("unknown stock action")
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrConflict: the snapshot changed under us and the bounded
	// compare-and-swap retries ran out.
	ErrConflict = errors.New("concurrent stock update conflict")
)
