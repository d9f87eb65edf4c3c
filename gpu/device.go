package gpu

// Device is the GPU surface the buffer manager and frame renderer draw
// through. Implementations are used from the single render goroutine and
// need no internal locking for the frame path.
//
// Texture pixels are premultiplied RGBA8, tightly packed at width*4 bytes
// per row. Index buffers hold uint16 indices.
type Device interface {
	// CreateBuffer creates a buffer of the given kind and byte size.
	CreateBuffer(kind BufferKind, size int) (BufferID, error)

	// WriteBuffer replaces the buffer contents starting at offset zero.
	// len(data) must not exceed the created size.
	WriteBuffer(id BufferID, data []byte) error

	// DestroyBuffer releases a buffer. Destroying an unknown ID is a
	// no-op; the deferred-release path may destroy after a device loss.
	DestroyBuffer(id BufferID)

	// CreateTexture creates a width x height RGBA8 sampled texture.
	CreateTexture(width, height int) (TextureID, error)

	// WriteTexture uploads pixels into a region of a texture.
	WriteTexture(id TextureID, region TextureRegion, pixels []byte) error

	// DestroyTexture releases a texture. Unknown IDs are a no-op.
	DestroyTexture(id TextureID)

	// BeginFrame acquires the swap target and opens the frame's render
	// pass. ErrSwapUnavailable means this frame is dropped; the caller
	// must not call Draw or EndFrame for it.
	BeginFrame(desc FrameDesc) error

	// Draw records one draw call into the open frame.
	Draw(call DrawCall) error

	// EndFrame submits the recorded frame and presents it.
	EndFrame() error

	// AbortFrame discards the open frame without submitting or
	// presenting anything. No-op when no frame is open.
	AbortFrame()

	// Frame returns the index of the most recently begun frame.
	// Frames are numbered from 1; 0 means no frame was begun yet.
	Frame() uint64

	// CompletedFrame returns the highest frame index the GPU has
	// finished executing. Resources retired in frame N may be
	// destroyed once CompletedFrame() >= N.
	CompletedFrame() uint64
}
