package emergency

import "errors"

var (
	// ErrInvalidProtocol indicates a protocol with no name.
	ErrInvalidProtocol = errors.New("emergency: protocol requires a name")

	// ErrNoController indicates an action whose controller is not configured.
	ErrNoController = errors.New("emergency: controller not configured")

	// ErrUnknownAction indicates an action type the executor cannot dispatch.
	ErrUnknownAction = errors.New("emergency: unknown action type")
)
