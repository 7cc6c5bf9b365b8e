package vectorize

import "errors"

var (
	// ErrInvalidShape is returned when a network is built with unusable layer widths.
	ErrInvalidShape = errors.New("invalid network shape")

	// ErrWidthMismatch is returned when a transform does not accept the vectorizer width.
	ErrWidthMismatch = errors.New("transform input width does not match vectorizer width")
)
