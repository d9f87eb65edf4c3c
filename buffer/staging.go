package buffer

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/mapgfx/batch"
)

// maxQuads is the largest quad count addressable with uint16 indices
// (the last quad's vertices are 65532..65535).
const maxQuads = math.MaxUint16 / batch.QuadVertices

// StagedFrame is the serialized CPU copy of one built frame: vertex
// bytes in batch order and the matching quad index pattern. It views
// the manager's staging arrays and is valid until the next Stage call.
type StagedFrame struct {
	VertexData []byte
	IndexData  []byte
	Batches    []batch.Batch

	staged bool
}

// encodeVertices serializes frame vertices into dst, little-endian
// float32, in the sprite pipeline's vertex layout.
func encodeVertices(dst []byte, verts []batch.Vertex) {
	off := 0
	for i := range verts {
		v := &verts[i]
		for _, f := range [8]float32{v.X, v.Y, v.U, v.V, v.R, v.G, v.B, v.A} {
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(f))
			off += 4
		}
	}
}

// encodeQuadIndices writes the 0,1,2, 2,3,0 index pattern for n quads
// as little-endian uint16.
func encodeQuadIndices(dst []byte, n int) {
	off := 0
	for i := 0; i < n; i++ {
		base := uint16(i * batch.QuadVertices)
		for _, idx := range [batch.QuadIndices]uint16{
			base, base + 1, base + 2,
			base + 2, base + 3, base,
		} {
			binary.LittleEndian.PutUint16(dst[off:], idx)
			off += 2
		}
	}
}

// growSlice returns a slice of exactly need bytes, reusing buf's
// backing array when it is large enough. New capacity grows by 3/2
// from the old so oscillating frame sizes do not reallocate each
// frame; capacity never shrinks.
func growSlice(buf []byte, need int) []byte {
	if cap(buf) >= need {
		return buf[:need]
	}
	newCap := cap(buf)
	if newCap == 0 {
		newCap = 1024
	}
	for newCap < need {
		newCap = newCap * 3 / 2
	}
	return make([]byte, need, newCap)
}
