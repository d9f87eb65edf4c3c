package gpu

// NullDevice implements Device without touching any GPU. It records every
// operation so tests can assert on buffer sizes, texture uploads and the
// draw calls a frame produced.
//
// Failure injection: set FailNextBegin to make the next BeginFrame fail
// with that error, or Lost to make every operation fail with
// ErrDeviceLost. CompletionLag simulates a GPU running behind the CPU.
type NullDevice struct {
	// FailNextBegin, when non-nil, is returned by the next BeginFrame
	// call and then cleared. The frame does not start.
	FailNextBegin error

	// Lost makes every operation return ErrDeviceLost.
	Lost bool

	// CompletionLag is how many frames the simulated GPU runs behind
	// submission. Zero means a frame completes as soon as it is ended.
	CompletionLag uint64

	nextID    uint64
	frame     uint64
	submitted uint64
	inFrame   bool

	buffers  map[BufferID]*NullBuffer
	textures map[TextureID]*NullTexture

	draws []DrawCall

	// LastFrame holds the draw calls of the most recently ended frame.
	LastFrame []DrawCall

	// LastDesc is the descriptor of the most recently begun frame.
	LastDesc FrameDesc

	// Presented counts successfully ended frames.
	Presented int

	// Aborted counts frames discarded by AbortFrame.
	Aborted int

	// DestroyedBuffers and DestroyedTextures record released IDs in
	// destruction order.
	DestroyedBuffers  []BufferID
	DestroyedTextures []TextureID
}

// NullBuffer is the recorded state of a NullDevice buffer.
type NullBuffer struct {
	Kind   BufferKind
	Size   int
	Data   []byte
	Writes int
}

// NullTexture is the recorded state of a NullDevice texture.
type NullTexture struct {
	Width, Height int
	Writes        int
	LastWrite     TextureRegion
}

// NewNullDevice creates an empty recording device.
func NewNullDevice() *NullDevice {
	return &NullDevice{
		nextID:   1,
		buffers:  make(map[BufferID]*NullBuffer),
		textures: make(map[TextureID]*NullTexture),
	}
}

// CreateBuffer implements Device.
func (d *NullDevice) CreateBuffer(kind BufferKind, size int) (BufferID, error) {
	if d.Lost {
		return InvalidID, ErrDeviceLost
	}
	id := BufferID(d.nextID)
	d.nextID++
	d.buffers[id] = &NullBuffer{Kind: kind, Size: size}
	return id, nil
}

// WriteBuffer implements Device.
func (d *NullDevice) WriteBuffer(id BufferID, data []byte) error {
	if d.Lost {
		return ErrDeviceLost
	}
	b, ok := d.buffers[id]
	if !ok {
		return ErrUnknownBuffer
	}
	b.Data = append(b.Data[:0], data...)
	b.Writes++
	return nil
}

// DestroyBuffer implements Device.
func (d *NullDevice) DestroyBuffer(id BufferID) {
	if _, ok := d.buffers[id]; !ok {
		return
	}
	delete(d.buffers, id)
	d.DestroyedBuffers = append(d.DestroyedBuffers, id)
}

// CreateTexture implements Device.
func (d *NullDevice) CreateTexture(width, height int) (TextureID, error) {
	if d.Lost {
		return InvalidID, ErrDeviceLost
	}
	id := TextureID(d.nextID)
	d.nextID++
	d.textures[id] = &NullTexture{Width: width, Height: height}
	return id, nil
}

// WriteTexture implements Device.
func (d *NullDevice) WriteTexture(id TextureID, region TextureRegion, pixels []byte) error {
	if d.Lost {
		return ErrDeviceLost
	}
	t, ok := d.textures[id]
	if !ok {
		return ErrUnknownTexture
	}
	t.Writes++
	t.LastWrite = region
	return nil
}

// DestroyTexture implements Device.
func (d *NullDevice) DestroyTexture(id TextureID) {
	if _, ok := d.textures[id]; !ok {
		return
	}
	delete(d.textures, id)
	d.DestroyedTextures = append(d.DestroyedTextures, id)
}

// BeginFrame implements Device.
func (d *NullDevice) BeginFrame(desc FrameDesc) error {
	if d.Lost {
		return ErrDeviceLost
	}
	if d.inFrame {
		return ErrFrameInProgress
	}
	if err := d.FailNextBegin; err != nil {
		d.FailNextBegin = nil
		return err
	}
	d.frame++
	d.inFrame = true
	d.LastDesc = desc
	d.draws = d.draws[:0]
	return nil
}

// Draw implements Device.
func (d *NullDevice) Draw(call DrawCall) error {
	if d.Lost {
		return ErrDeviceLost
	}
	if !d.inFrame {
		return ErrFrameNotStarted
	}
	d.draws = append(d.draws, call)
	return nil
}

// EndFrame implements Device.
func (d *NullDevice) EndFrame() error {
	if d.Lost {
		return ErrDeviceLost
	}
	if !d.inFrame {
		return ErrFrameNotStarted
	}
	d.inFrame = false
	d.submitted = d.frame
	d.LastFrame = append(d.LastFrame[:0], d.draws...)
	d.Presented++
	return nil
}

// AbortFrame implements Device. The aborted frame's draws are discarded
// and it never counts as submitted or presented.
func (d *NullDevice) AbortFrame() {
	if !d.inFrame {
		return
	}
	d.inFrame = false
	d.draws = d.draws[:0]
	d.Aborted++
}

// Frame implements Device.
func (d *NullDevice) Frame() uint64 { return d.frame }

// CompletedFrame implements Device.
func (d *NullDevice) CompletedFrame() uint64 {
	if d.submitted <= d.CompletionLag {
		return 0
	}
	return d.submitted - d.CompletionLag
}

// Buffer returns the recorded state of a live buffer.
func (d *NullDevice) Buffer(id BufferID) (*NullBuffer, bool) {
	b, ok := d.buffers[id]
	return b, ok
}

// Texture returns the recorded state of a live texture.
func (d *NullDevice) Texture(id TextureID) (*NullTexture, bool) {
	t, ok := d.textures[id]
	return t, ok
}

// BufferCount returns the number of live buffers.
func (d *NullDevice) BufferCount() int { return len(d.buffers) }

// TextureCount returns the number of live textures.
func (d *NullDevice) TextureCount() int { return len(d.textures) }

var _ Device = (*NullDevice)(nil)
