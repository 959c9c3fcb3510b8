package check

import "errors"

var (
	// ErrPanic indicates a check function panicked.
	ErrPanic = errors.New("check: panicked")

	// ErrNoPinger indicates the persistence check was built without a pinger.
	ErrNoPinger = errors.New("check: no pinger configured")

	// ErrNoSummary indicates the breaker check was built without a summary source.
	ErrNoSummary = errors.New("check: no breaker summary configured")
)
