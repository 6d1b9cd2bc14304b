package capability

import "errors"

// Pipeline errors.
var (
	// ErrCapabilityNotFound is returned when a capability name is not registered.
	ErrCapabilityNotFound = errors.New("capability not found")

	// ErrActionNotSupported is returned when a capability exists but does
	// not support the requested action.
	ErrActionNotSupported = errors.New("action not supported")

	// ErrMissingRequiredParam is returned when a declared required
	// parameter is absent from both params and content.
	ErrMissingRequiredParam = errors.New("missing required parameter")
)
