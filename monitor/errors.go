package monitor

import "errors"

var (
	// ErrMissingDispatcher indicates Options.Dispatcher was nil.
	ErrMissingDispatcher = errors.New("monitor: alert dispatcher is required")

	// ErrMissingCoordinator indicates Options.Coordinator was nil.
	ErrMissingCoordinator = errors.New("monitor: emergency coordinator is required")
)
