package nn

import "errors"

// Common errors.
var (
	ErrInvalidSizes      = errors.New("layer sizes must contain at least two positive values")
	ErrEmptyNetwork      = errors.New("network has no layers")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrClassOutOfRange   = errors.New("class index out of range")
	ErrUnknownActivation = errors.New("unknown activation")
)
