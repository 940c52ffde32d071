package advance

import "errors"

var (
	ErrAdvanceNotFound        = errors.New("advance record not found")
	ErrInvalidAmount          = errors.New("advance amount must be greater than zero")
	ErrConcurrentModification = errors.New("advance records changed while being consumed")
)
