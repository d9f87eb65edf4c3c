package buffer

import (
	"fmt"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/batch"
	"github.com/gogpu/mapgfx/gpu"
)

// Config sizes the manager's initial GPU buffers.
type Config struct {
	// InitialQuads is the quad capacity both GPU buffers start with.
	InitialQuads int
}

// DefaultConfig returns the buffer manager defaults.
func DefaultConfig() Config {
	return Config{InitialQuads: 256}
}

// pendingRelease is a GPU buffer retired in some frame, destroyable
// once the device reports that frame complete.
type pendingRelease struct {
	buf   gpu.BufferID
	frame uint64
}

// Manager stages built frames into CPU arrays and mirrors them into
// GPU vertex and index buffers. Used from the single render goroutine.
type Manager struct {
	dev gpu.Device
	cfg Config

	vertexData []byte
	indexData  []byte
	frame      StagedFrame

	vertexBuf gpu.BufferID
	indexBuf  gpu.BufferID
	vertexCap int
	indexCap  int

	pending []pendingRelease
}

// NewManager creates a manager. GPU buffers are created lazily on the
// first Upload.
func NewManager(dev gpu.Device, cfg Config) *Manager {
	if cfg.InitialQuads <= 0 {
		cfg = DefaultConfig()
	}
	return &Manager{dev: dev, cfg: cfg}
}

// Stage serializes a built frame into the CPU staging arrays. The
// arrays are rebuilt from scratch; previous staged contents are gone.
// The returned frame views the manager's arrays and is valid until the
// next Stage call.
func (m *Manager) Stage(f *batch.Frame) (*StagedFrame, error) {
	quads := f.QuadCount()
	if quads > maxQuads {
		return nil, fmt.Errorf("%w: %d quads, limit %d", ErrTooManyQuads, quads, maxQuads)
	}

	m.vertexData = growSlice(m.vertexData, len(f.Vertices)*batch.VertexStride)
	encodeVertices(m.vertexData, f.Vertices)

	m.indexData = growSlice(m.indexData, quads*batch.QuadIndices*2)
	encodeQuadIndices(m.indexData, quads)

	m.frame = StagedFrame{
		VertexData: m.vertexData,
		IndexData:  m.indexData,
		Batches:    f.Batches,
		staged:     true,
	}
	return &m.frame, nil
}

// Upload copies the staged arrays into the GPU buffers, recreating a
// buffer that is too small. The old buffer is not destroyed until the
// in-flight frame that referenced it completes.
func (m *Manager) Upload(f *StagedFrame) (vertices, indices gpu.BufferID, err error) {
	if f == nil || !f.staged {
		return gpu.InvalidID, gpu.InvalidID, ErrNotStaged
	}

	initialV := m.cfg.InitialQuads * batch.QuadVertices * batch.VertexStride
	m.vertexBuf, m.vertexCap, err = m.ensure(gpu.BufferVertex, m.vertexBuf, m.vertexCap, len(f.VertexData), initialV)
	if err != nil {
		return gpu.InvalidID, gpu.InvalidID, err
	}

	initialI := m.cfg.InitialQuads * batch.QuadIndices * 2
	m.indexBuf, m.indexCap, err = m.ensure(gpu.BufferIndex, m.indexBuf, m.indexCap, len(f.IndexData), initialI)
	if err != nil {
		return gpu.InvalidID, gpu.InvalidID, err
	}

	if len(f.VertexData) > 0 {
		if err := m.dev.WriteBuffer(m.vertexBuf, f.VertexData); err != nil {
			return gpu.InvalidID, gpu.InvalidID, fmt.Errorf("upload vertices: %w", err)
		}
		if err := m.dev.WriteBuffer(m.indexBuf, f.IndexData); err != nil {
			return gpu.InvalidID, gpu.InvalidID, fmt.Errorf("upload indices: %w", err)
		}
	}
	return m.vertexBuf, m.indexBuf, nil
}

// ensure returns a buffer at least need bytes large, recreating and
// retiring the old one when it is too small. Capacity grows by 3/2
// steps and never shrinks.
func (m *Manager) ensure(kind gpu.BufferKind, buf gpu.BufferID, capBytes, need, initial int) (gpu.BufferID, int, error) {
	if buf != gpu.InvalidID && capBytes >= need {
		return buf, capBytes, nil
	}

	newCap := capBytes
	if newCap == 0 {
		newCap = initial
	}
	for newCap < need {
		newCap = newCap * 3 / 2
	}

	newBuf, err := m.dev.CreateBuffer(kind, newCap)
	if err != nil {
		return buf, capBytes, fmt.Errorf("create %s buffer (%d bytes): %w", kind, newCap, err)
	}
	if buf != gpu.InvalidID {
		// The GPU may still be consuming the old buffer; destroy it
		// only after the frame in flight completes.
		m.pending = append(m.pending, pendingRelease{buf: buf, frame: m.dev.Frame()})
		mapgfx.Logger().Warn("gpu buffer recreated",
			"kind", kind.String(), "old_bytes", capBytes, "new_bytes", newCap)
	}
	return newBuf, newCap, nil
}

// ReleaseCompleted destroys retired buffers whose last referencing
// frame the device reports complete. Call once per frame, after
// EndFrame.
func (m *Manager) ReleaseCompleted() {
	completed := m.dev.CompletedFrame()
	kept := m.pending[:0]
	for _, p := range m.pending {
		if p.frame <= completed {
			m.dev.DestroyBuffer(p.buf)
		} else {
			kept = append(kept, p)
		}
	}
	m.pending = kept
}

// PendingReleases returns the number of buffers awaiting destruction.
func (m *Manager) PendingReleases() int { return len(m.pending) }

// Close destroys the live GPU buffers and everything still pending,
// regardless of frame completion. Only call after the device is idle.
func (m *Manager) Close() {
	for _, p := range m.pending {
		m.dev.DestroyBuffer(p.buf)
	}
	m.pending = nil
	if m.vertexBuf != gpu.InvalidID {
		m.dev.DestroyBuffer(m.vertexBuf)
		m.vertexBuf = gpu.InvalidID
	}
	if m.indexBuf != gpu.InvalidID {
		m.dev.DestroyBuffer(m.indexBuf)
		m.indexBuf = gpu.InvalidID
	}
	m.vertexCap, m.indexCap = 0, 0
}
