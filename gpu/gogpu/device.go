package gogpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/gpu"
)

// frameUniformSize is the byte size of FrameUniforms in sprite.wgsl.
const frameUniformSize = 64

// Target supplies the swap texture view for each frame. A windowing
// integration implements it on top of its surface; Acquire failing means
// the frame is dropped.
type Target interface {
	Acquire() (hal.TextureView, error)
	Present() error
}

// pendingFrame tracks a submitted frame whose fence has not signaled yet.
type pendingFrame struct {
	fence hal.Fence
	frame uint64
}

// Device implements gpu.Device on a hal device and queue.
//
// Device is used from the single render goroutine; only resource creation
// outside the frame path may come from other goroutines, and the engine
// does not do that.
type Device struct {
	device hal.Device
	queue  hal.Queue
	target Target

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	pipelines  map[gpu.BlendMode]hal.RenderPipeline

	uniformBuf hal.Buffer

	nextID   uint64
	buffers  map[gpu.BufferID]bufferEntry
	textures map[gpu.TextureID]*textureEntry

	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	inFrame bool

	frame     uint64
	completed uint64
	pending   []pendingFrame
}

type bufferEntry struct {
	buf  hal.Buffer
	kind gpu.BufferKind
	size int
}

type textureEntry struct {
	tex           hal.Texture
	view          hal.TextureView
	bind          hal.BindGroup
	width, height int
}

// New creates a Device on the hal handles exposed by the provider. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue, as gogpu's window context does.
func New(provider gpucontext.DeviceProvider, target Target) (*Device, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALDevice)
	}

	d := &Device{
		device:    device,
		queue:     queue,
		target:    target,
		pipelines: make(map[gpu.BlendMode]hal.RenderPipeline),
		nextID:    1,
		buffers:   make(map[gpu.BufferID]bufferEntry),
		textures:  make(map[gpu.TextureID]*textureEntry),
	}
	if err := d.createPipelines(); err != nil {
		d.Close()
		return nil, err
	}

	uniformBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_uniforms",
		Size:  frameUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	d.uniformBuf = uniformBuf

	mapgfx.Logger().Debug("gpu device ready", "backend", "gogpu/hal")
	return d, nil
}

// Close releases every GPU resource the device created.
func (d *Device) Close() {
	for id := range d.textures {
		d.DestroyTexture(id)
	}
	for id := range d.buffers {
		d.DestroyBuffer(id)
	}
	for _, p := range d.pending {
		d.device.DestroyFence(p.fence)
	}
	d.pending = nil
	if d.uniformBuf != nil {
		d.device.DestroyBuffer(d.uniformBuf)
		d.uniformBuf = nil
	}
	d.destroyPipelines()
}

// CreateBuffer implements gpu.Device.
func (d *Device) CreateBuffer(kind gpu.BufferKind, size int) (gpu.BufferID, error) {
	var usage gputypes.BufferUsage
	switch kind {
	case gpu.BufferIndex:
		usage = gputypes.BufferUsageIndex
	case gpu.BufferUniform:
		usage = gputypes.BufferUsageUniform
	default:
		usage = gputypes.BufferUsageVertex
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("mapgfx_%s", kind),
		Size:  uint64(size),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("create %s buffer: %w", kind, err)
	}
	id := gpu.BufferID(d.nextID)
	d.nextID++
	d.buffers[id] = bufferEntry{buf: buf, kind: kind, size: size}
	return id, nil
}

// WriteBuffer implements gpu.Device.
func (d *Device) WriteBuffer(id gpu.BufferID, data []byte) error {
	entry, ok := d.buffers[id]
	if !ok {
		return gpu.ErrUnknownBuffer
	}
	if err := d.queue.WriteBuffer(entry.buf, 0, data); err != nil {
		return fmt.Errorf("write %s buffer: %w", entry.kind, err)
	}
	return nil
}

// DestroyBuffer implements gpu.Device.
func (d *Device) DestroyBuffer(id gpu.BufferID) {
	entry, ok := d.buffers[id]
	if !ok {
		return
	}
	delete(d.buffers, id)
	d.device.DestroyBuffer(entry.buf)
}

// CreateTexture implements gpu.Device. Each texture gets its own bind
// group so a batch switch is a single SetBindGroup.
func (d *Device) CreateTexture(width, height int) (gpu.TextureID, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "atlas_page",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("create texture: %w", err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "atlas_page_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return gpu.InvalidID, fmt.Errorf("create texture view: %w", err)
	}

	bind, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "atlas_page_bind",
		Layout: d.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.uniformBuf.NativeHandle(), Offset: 0, Size: frameUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: d.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return gpu.InvalidID, fmt.Errorf("create texture bind group: %w", err)
	}

	id := gpu.TextureID(d.nextID)
	d.nextID++
	d.textures[id] = &textureEntry{tex: tex, view: view, bind: bind, width: width, height: height}
	return id, nil
}

// WriteTexture implements gpu.Device. Pixels are tightly packed RGBA8
// rows covering exactly the region.
func (d *Device) WriteTexture(id gpu.TextureID, region gpu.TextureRegion, pixels []byte) error {
	entry, ok := d.textures[id]
	if !ok {
		return gpu.ErrUnknownTexture
	}
	w, h := uint32(region.Width), uint32(region.Height)
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  entry.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(region.X), Y: uint32(region.Y), Z: 0},
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}

// DestroyTexture implements gpu.Device.
func (d *Device) DestroyTexture(id gpu.TextureID) {
	entry, ok := d.textures[id]
	if !ok {
		return
	}
	delete(d.textures, id)
	d.device.DestroyBindGroup(entry.bind)
	d.device.DestroyTextureView(entry.view)
	d.device.DestroyTexture(entry.tex)
}

// BeginFrame implements gpu.Device.
func (d *Device) BeginFrame(desc gpu.FrameDesc) error {
	if d.inFrame {
		return gpu.ErrFrameInProgress
	}

	view, err := d.target.Acquire()
	if err != nil {
		return fmt.Errorf("%w: %v", gpu.ErrSwapUnavailable, err)
	}

	if err := d.queue.WriteBuffer(d.uniformBuf, 0, encodeFrameUniforms(desc.ViewProjection)); err != nil {
		return fmt.Errorf("write frame uniforms: %w", err)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "mapgfx_frame",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mapgfx_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	clear := desc.ClearColor
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "mapgfx_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(clear[0]), G: float64(clear[1]),
				B: float64(clear[2]), A: float64(clear[3]),
			},
		}},
	})

	d.encoder = encoder
	d.pass = pass
	d.inFrame = true
	d.frame++
	return nil
}

// Draw implements gpu.Device.
func (d *Device) Draw(call gpu.DrawCall) error {
	if !d.inFrame {
		return gpu.ErrFrameNotStarted
	}
	tex, ok := d.textures[call.Texture]
	if !ok {
		return gpu.ErrUnknownTexture
	}
	vb, ok := d.buffers[call.Vertices]
	if !ok {
		return gpu.ErrUnknownBuffer
	}
	ib, ok := d.buffers[call.Indices]
	if !ok {
		return gpu.ErrUnknownBuffer
	}

	d.pass.SetPipeline(d.pipelines[call.Blend])
	d.pass.SetBindGroup(0, tex.bind, nil)
	d.pass.SetVertexBuffer(0, vb.buf, 0)
	d.pass.SetIndexBuffer(ib.buf, gputypes.IndexFormatUint16, 0)
	d.pass.DrawIndexed(call.IndexCount, 1, call.FirstIndex, 0, 0)
	return nil
}

// EndFrame implements gpu.Device.
func (d *Device) EndFrame() error {
	if !d.inFrame {
		return gpu.ErrFrameNotStarted
	}
	d.inFrame = false

	d.pass.End()
	d.pass = nil

	cmdBuf, err := d.encoder.EndEncoding()
	d.encoder = nil
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		d.device.DestroyFence(fence)
		return fmt.Errorf("submit: %w", err)
	}
	d.pending = append(d.pending, pendingFrame{fence: fence, frame: d.frame})

	if err := d.target.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// AbortFrame implements gpu.Device. The pass is ended and the command
// buffer freed without submitting; the swap target is not presented, so
// the aborted frame never reaches the screen.
func (d *Device) AbortFrame() {
	if !d.inFrame {
		return
	}
	d.inFrame = false

	d.pass.End()
	d.pass = nil

	cmdBuf, err := d.encoder.EndEncoding()
	d.encoder = nil
	if err != nil {
		mapgfx.Logger().Warn("end encoding on aborted frame", "err", err)
		return
	}
	d.device.FreeCommandBuffer(cmdBuf)
}

// Frame implements gpu.Device.
func (d *Device) Frame() uint64 { return d.frame }

// CompletedFrame implements gpu.Device. Pending fences are polled in
// submission order with a zero timeout.
func (d *Device) CompletedFrame() uint64 {
	for len(d.pending) > 0 {
		p := d.pending[0]
		ok, err := d.device.Wait(p.fence, 1, 0)
		if err != nil || !ok {
			break
		}
		d.device.DestroyFence(p.fence)
		d.completed = p.frame
		d.pending = d.pending[1:]
	}
	return d.completed
}

// WaitIdle blocks until every submitted frame has completed, bounded by
// the timeout. Used on shutdown and device reinitialization.
func (d *Device) WaitIdle(timeout time.Duration) error {
	for _, p := range d.pending {
		ok, err := d.device.Wait(p.fence, 1, timeout)
		if err != nil {
			return fmt.Errorf("wait for frame %d: %w", p.frame, err)
		}
		if !ok {
			return fmt.Errorf("wait for frame %d: timeout", p.frame)
		}
		d.device.DestroyFence(p.fence)
		d.completed = p.frame
	}
	d.pending = d.pending[:0]
	return nil
}

// encodeFrameUniforms serializes the view-projection matrix into the
// FrameUniforms layout (column-major, little-endian float32).
func encodeFrameUniforms(vp [16]float32) []byte {
	data := make([]byte, frameUniformSize)
	for i, v := range vp {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

var _ gpu.Device = (*Device)(nil)
