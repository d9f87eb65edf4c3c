package atlas

import "errors"

// Atlas allocation errors.
var (
	// ErrExhausted is returned when no page can fit the request and the
	// page-count cap has been reached. The caller may free unused regions
	// and retry; the allocator never retries internally.
	ErrExhausted = errors.New("atlas: page limit reached, atlas exhausted")

	// ErrInvalidImage is returned for zero-size images and for images
	// larger than a single page.
	ErrInvalidImage = errors.New("atlas: image is empty or exceeds page size")

	// ErrInvalidHandle is returned when operating on a released or
	// never-allocated handle.
	ErrInvalidHandle = errors.New("atlas: invalid region handle")
)
