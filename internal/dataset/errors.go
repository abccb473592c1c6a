package dataset

import "errors"

// Format errors reported while parsing IDX data.
var (
	// ErrShortHeader is returned when the data ends before the IDX header does.
	ErrShortHeader = errors.New("could not read header")

	// ErrInvalidMagic is returned when the IDX magic number does not match
	// the expected file kind.
	ErrInvalidMagic = errors.New("invalid magic")

	// ErrInvalidSizes is returned when the header counts disagree with the
	// payload length.
	ErrInvalidSizes = errors.New("invalid sizes")
)

var (
	// ErrOutOfRange is returned when an example or image index is past the end.
	ErrOutOfRange = errors.New("index out of range")

	// ErrCountMismatch is returned when labels and images disagree on the
	// number of examples.
	ErrCountMismatch = errors.New("label and image counts differ")

	// ErrEmptyStore is returned when a store has no examples bucket.
	ErrEmptyStore = errors.New("store holds no examples")
)
