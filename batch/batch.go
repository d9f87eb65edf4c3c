package batch

import (
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/gpu"
)

// Vertex is one corner of a resolved quad, laid out exactly as the
// sprite pipeline's vertex input: position, texture coordinate, color.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// VertexStride is the byte size of one Vertex.
const VertexStride = 32

// QuadVertices and QuadIndices are the per-quad element counts: four
// corners drawn as two triangles.
const (
	QuadVertices = 4
	QuadIndices  = 6
)

// Batch is one draw group: a contiguous quad range sharing an atlas
// page and blend mode. It owns no GPU memory; First and Count index
// into the frame's quad list.
type Batch struct {
	Page  atlas.PageID
	Blend gpu.BlendMode
	First int
	Count int
}

// Frame is the output of one Build call: resolved quad vertices in
// batch order plus the batch ranges over them. The builder reuses the
// backing arrays between frames; callers must consume a Frame before
// the next Build.
type Frame struct {
	Vertices []Vertex
	Batches  []Batch
}

// QuadCount returns the number of resolved quads in the frame.
func (f *Frame) QuadCount() int {
	return len(f.Vertices) / QuadVertices
}

func (f *Frame) reset() {
	f.Vertices = f.Vertices[:0]
	f.Batches = f.Batches[:0]
}
