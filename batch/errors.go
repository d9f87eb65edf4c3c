package batch

import "errors"

var (
	// ErrStaleHandle is returned when a tile or sprite references an
	// atlas handle the allocator no longer knows.
	ErrStaleHandle = errors.New("batch: renderable references unknown atlas region")

	// ErrNilCamera is returned when Build is called without a camera.
	ErrNilCamera = errors.New("batch: nil camera")
)
