package buffer

import "errors"

var (
	// ErrTooManyQuads is returned when a frame exceeds the 16-bit
	// index budget of a single draw range.
	ErrTooManyQuads = errors.New("buffer: frame exceeds uint16 index capacity")

	// ErrNotStaged is returned when Upload is called with a frame that
	// did not come from Stage.
	ErrNotStaged = errors.New("buffer: frame was not staged")
)
