package resilience

import "errors"

var (
	// ErrTimeout is returned when an operation outlives its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)
