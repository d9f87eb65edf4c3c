package buffer

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/mapgfx/batch"
	"github.com/gogpu/mapgfx/gpu"
)

// quadFrame builds a frame of n unit quads in one batch.
func quadFrame(n int) *batch.Frame {
	f := &batch.Frame{}
	for i := 0; i < n; i++ {
		x := float32(i)
		f.Vertices = append(f.Vertices,
			batch.Vertex{X: x, Y: 0, A: 1},
			batch.Vertex{X: x + 1, Y: 0, A: 1},
			batch.Vertex{X: x + 1, Y: 1, A: 1},
			batch.Vertex{X: x, Y: 1, A: 1},
		)
	}
	if n > 0 {
		f.Batches = append(f.Batches, batch.Batch{Count: n})
	}
	return f
}

func TestManager_StageSerializesQuads(t *testing.T) {
	m := NewManager(gpu.NewNullDevice(), DefaultConfig())

	sf, err := m.Stage(quadFrame(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.VertexData) != 2*batch.QuadVertices*batch.VertexStride {
		t.Errorf("vertex bytes = %d, want %d", len(sf.VertexData), 2*batch.QuadVertices*batch.VertexStride)
	}
	if len(sf.IndexData) != 2*batch.QuadIndices*2 {
		t.Errorf("index bytes = %d, want %d", len(sf.IndexData), 2*batch.QuadIndices*2)
	}

	// Second quad's indices start at vertex 4.
	idx := binary.LittleEndian.Uint16(sf.IndexData[batch.QuadIndices*2:])
	if idx != 4 {
		t.Errorf("second quad first index = %d, want 4", idx)
	}
}

func TestManager_StagingCapacityNeverShrinks(t *testing.T) {
	m := NewManager(gpu.NewNullDevice(), DefaultConfig())

	if _, err := m.Stage(quadFrame(500)); err != nil {
		t.Fatal(err)
	}
	grownCap := cap(m.vertexData)

	// A small frame reuses the grown array.
	if _, err := m.Stage(quadFrame(1)); err != nil {
		t.Fatal(err)
	}
	if cap(m.vertexData) != grownCap {
		t.Errorf("staging capacity shrank from %d to %d", grownCap, cap(m.vertexData))
	}
}

func TestManager_StageRejectsOversizedFrame(t *testing.T) {
	m := NewManager(gpu.NewNullDevice(), DefaultConfig())

	if _, err := m.Stage(quadFrame(maxQuads + 1)); !errors.Is(err, ErrTooManyQuads) {
		t.Errorf("Stage(oversized) = %v, want ErrTooManyQuads", err)
	}
}

func TestManager_UploadCreatesAndReusesBuffers(t *testing.T) {
	dev := gpu.NewNullDevice()
	m := NewManager(dev, Config{InitialQuads: 4})

	sf, err := m.Stage(quadFrame(2))
	if err != nil {
		t.Fatal(err)
	}
	vb1, ib1, err := m.Upload(sf)
	if err != nil {
		t.Fatal(err)
	}
	if vb1 == gpu.InvalidID || ib1 == gpu.InvalidID {
		t.Fatal("upload returned invalid buffer IDs")
	}

	// A frame within capacity reuses the same GPU buffers.
	sf, err = m.Stage(quadFrame(4))
	if err != nil {
		t.Fatal(err)
	}
	vb2, ib2, err := m.Upload(sf)
	if err != nil {
		t.Fatal(err)
	}
	if vb2 != vb1 || ib2 != ib1 {
		t.Errorf("buffers recreated within capacity: (%v,%v) then (%v,%v)", vb1, ib1, vb2, ib2)
	}

	b, ok := dev.Buffer(vb2)
	if !ok {
		t.Fatal("vertex buffer missing from device")
	}
	if len(b.Data) != 4*batch.QuadVertices*batch.VertexStride {
		t.Errorf("uploaded vertex bytes = %d, want %d", len(b.Data), 4*batch.QuadVertices*batch.VertexStride)
	}
}

func TestManager_RecreateDefersRelease(t *testing.T) {
	dev := gpu.NewNullDevice()
	dev.CompletionLag = 1
	m := NewManager(dev, Config{InitialQuads: 1})

	// Frame 1 uses the initial small buffers.
	sf, err := m.Stage(quadFrame(1))
	if err != nil {
		t.Fatal(err)
	}
	vb1, _, err := m.Upload(sf)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.BeginFrame(gpu.FrameDesc{}); err != nil {
		t.Fatal(err)
	}
	if err := dev.EndFrame(); err != nil {
		t.Fatal(err)
	}

	// Frame 2 outgrows them; the old vertex buffer is retired, not
	// destroyed, because frame 1 has not completed under lag 1.
	sf, err = m.Stage(quadFrame(64))
	if err != nil {
		t.Fatal(err)
	}
	vb2, _, err := m.Upload(sf)
	if err != nil {
		t.Fatal(err)
	}
	if vb2 == vb1 {
		t.Fatal("vertex buffer not recreated on growth")
	}
	m.ReleaseCompleted()
	if m.PendingReleases() == 0 {
		t.Fatal("old buffers destroyed before their frame completed")
	}
	if _, ok := dev.Buffer(vb1); !ok {
		t.Fatal("old vertex buffer destroyed while potentially in flight")
	}

	// After two more frames the lagging GPU has completed frame 1.
	for i := 0; i < 2; i++ {
		if err := dev.BeginFrame(gpu.FrameDesc{}); err != nil {
			t.Fatal(err)
		}
		if err := dev.EndFrame(); err != nil {
			t.Fatal(err)
		}
	}
	m.ReleaseCompleted()
	if m.PendingReleases() != 0 {
		t.Errorf("pending releases = %d, want 0", m.PendingReleases())
	}
	if _, ok := dev.Buffer(vb1); ok {
		t.Error("old vertex buffer still live after its frame completed")
	}
}

func TestManager_UploadRequiresStagedFrame(t *testing.T) {
	m := NewManager(gpu.NewNullDevice(), DefaultConfig())

	if _, _, err := m.Upload(&StagedFrame{}); !errors.Is(err, ErrNotStaged) {
		t.Errorf("Upload(unstaged) = %v, want ErrNotStaged", err)
	}
	if _, _, err := m.Upload(nil); !errors.Is(err, ErrNotStaged) {
		t.Errorf("Upload(nil) = %v, want ErrNotStaged", err)
	}
}

func TestManager_CloseDestroysEverything(t *testing.T) {
	dev := gpu.NewNullDevice()
	m := NewManager(dev, Config{InitialQuads: 1})

	sf, err := m.Stage(quadFrame(8))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Upload(sf); err != nil {
		t.Fatal(err)
	}

	m.Close()
	if dev.BufferCount() != 0 {
		t.Errorf("live buffers after Close = %d, want 0", dev.BufferCount())
	}
}
