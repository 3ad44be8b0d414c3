package gate

import "errors"

var (
	// ErrUnknownOperation is returned when an operation name is not one of
	// the six canonical operations.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidContext is returned when a registration's context is missing
	// or not one of "application" / "provider".
	ErrInvalidContext = errors.New("invalid gate context")

	// ErrNilGate is returned when a registration is constructed without a
	// gate implementation.
	ErrNilGate = errors.New("gate must not be nil")

	// ErrNoValueVariant is returned when a value-level decision is requested
	// for an operation that has no canXxxValue form.
	ErrNoValueVariant = errors.New("operation has no value-level variant")
)
