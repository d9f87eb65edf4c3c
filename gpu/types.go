package gpu

// Resource IDs
//
// These opaque IDs represent GPU resources. Each Device implementation
// maintains the mapping between IDs and actual backend handles.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// InvalidID is the zero value, representing an invalid resource.
const InvalidID = 0

// BufferKind selects the usage a buffer is created for.
type BufferKind uint8

const (
	// BufferVertex holds interleaved vertex data.
	BufferVertex BufferKind = iota

	// BufferIndex holds 16-bit triangle indices.
	BufferIndex

	// BufferUniform holds shader uniform data.
	BufferUniform
)

// String returns the string representation of a BufferKind.
func (k BufferKind) String() string {
	switch k {
	case BufferVertex:
		return "vertex"
	case BufferIndex:
		return "index"
	case BufferUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// BlendMode selects the pipeline a draw call renders with.
type BlendMode uint8

const (
	// BlendPremultiplied is standard premultiplied-alpha source-over
	// blending. The default for tiles, sprites, glyphs and paths.
	BlendPremultiplied BlendMode = iota

	// BlendAdditive adds source color to the destination, used for
	// highlight and selection overlays.
	BlendAdditive
)

// String returns the string representation of a BlendMode.
func (m BlendMode) String() string {
	switch m {
	case BlendPremultiplied:
		return "premultiplied"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// TextureRegion identifies a sub-rectangle of a texture for WriteTexture.
type TextureRegion struct {
	X, Y          int
	Width, Height int
}

// FrameDesc describes one frame: the swap target extent, the clear color
// and the world-to-clip transform shared by every draw in the frame.
type FrameDesc struct {
	Width, Height  int
	ClearColor     [4]float32
	ViewProjection [16]float32
}

// DrawCall is one batched draw: an index range over bound vertex and
// index buffers, sampled from one texture through one blend pipeline.
type DrawCall struct {
	Blend      BlendMode
	Texture    TextureID
	Vertices   BufferID
	Indices    BufferID
	IndexCount uint32
	FirstIndex uint32
}
