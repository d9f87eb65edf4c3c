package engine

import (
	"errors"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/batch"
	"github.com/gogpu/mapgfx/buffer"
	"github.com/gogpu/mapgfx/camera"
	"github.com/gogpu/mapgfx/gpu"
	"github.com/gogpu/mapgfx/render"
	"github.com/gogpu/mapgfx/text"
	"github.com/gogpu/mapgfx/vector"
)

// ErrNoFrame is returned by Submit and EndFrame outside a
// BeginFrame/EndFrame pair.
var ErrNoFrame = errors.New("engine: no frame begun")

// ErrFrameOpen is returned by BeginFrame when the previous frame was
// never ended.
var ErrFrameOpen = errors.New("engine: previous frame still open")

// Engine is the top-level rendering core. It is driven from a single
// goroutine:
//
//	eng.BeginFrame()
//	eng.Submit(world...)
//	err := eng.EndFrame()
//
// Editing code mutates the camera and submits renderables between
// BeginFrame and EndFrame; EndFrame culls, batches, uploads and draws.
type Engine struct {
	dev      gpu.Device
	alloc    *atlas.Allocator
	glyphs   *text.GlyphCache
	shapes   *vector.ShapeCache
	cam      *camera.Camera
	builder  *batch.Builder
	buffers  *buffer.Manager
	renderer *render.Renderer

	trimAge uint64
	world   []batch.Renderable
	inFrame bool
}

// New creates an engine over the device. The device outlives the
// engine; Close releases the engine's GPU resources but not the device.
func New(dev gpu.Device, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	alloc := atlas.NewAllocator(o.atlasCfg)
	glyphs := text.NewGlyphCache(alloc, o.glyphCfg)
	shapes := vector.NewShapeCache(alloc, o.shapeCfg)
	buffers := buffer.NewManager(dev, o.bufferCfg)
	return &Engine{
		dev:      dev,
		alloc:    alloc,
		glyphs:   glyphs,
		shapes:   shapes,
		cam:      camera.New(o.cameraCfg),
		builder:  batch.NewBuilder(alloc, glyphs, shapes),
		buffers:  buffers,
		renderer: render.New(dev, alloc, buffers, o.renderCfg),
		trimAge:  o.trimAge,
	}
}

// Camera returns the engine's camera for panning, zooming and viewport
// updates.
func (e *Engine) Camera() *camera.Camera { return e.cam }

// Atlas returns the shared atlas allocator. Use it to upload sprite and
// tile pixmaps before submitting renderables that reference them.
func (e *Engine) Atlas() *atlas.Allocator { return e.alloc }

// Glyphs returns the glyph cache.
func (e *Engine) Glyphs() *text.GlyphCache { return e.glyphs }

// Shapes returns the shape cache.
func (e *Engine) Shapes() *vector.ShapeCache { return e.shapes }

// Allocate uploads a pixmap into the atlas and returns its handle.
func (e *Engine) Allocate(pix *mapgfx.Pixmap) (atlas.Handle, error) {
	return e.alloc.Allocate(pix)
}

// BeginFrame opens a frame: it advances the atlas frame counter and
// clears the submission list.
func (e *Engine) BeginFrame() error {
	if e.inFrame {
		return ErrFrameOpen
	}
	e.alloc.BeginFrame()
	e.world = e.world[:0]
	e.inFrame = true
	return nil
}

// Submit queues renderables for the open frame. Order among equal sort
// keys is preserved.
func (e *Engine) Submit(rs ...batch.Renderable) error {
	if !e.inFrame {
		return ErrNoFrame
	}
	e.world = append(e.world, rs...)
	return nil
}

// SubmitGrid expands the grid's visible tiles into the open frame.
func (e *Engine) SubmitGrid(g *batch.TileGrid) error {
	if !e.inFrame {
		return ErrNoFrame
	}
	e.world = g.Renderables(e.world, e.cam.VisibleBounds())
	return nil
}

// EndFrame closes the frame: it culls and batches the submitted
// renderables, uploads dirty atlas pages and geometry, and draws. A
// swap-target failure drops the frame and is reported; the next
// BeginFrame starts fresh. gpu.ErrDeviceLost means the engine and
// device must be torn down.
func (e *Engine) EndFrame() error {
	if !e.inFrame {
		return ErrNoFrame
	}
	e.inFrame = false

	frame, err := e.builder.Build(e.world, e.cam)
	if err != nil {
		return err
	}
	if err := e.renderer.Render(frame, e.cam); err != nil {
		return err
	}
	if e.trimAge > 0 {
		if n := e.alloc.Trim(e.trimAge); n > 0 {
			mapgfx.Logger().Debug("atlas trimmed", "regions", n)
		}
	}
	return nil
}

// Close releases the engine's GPU buffers and page textures. Only call
// after the device is idle.
func (e *Engine) Close() {
	e.renderer.Close()
	e.buffers.Close()
}
