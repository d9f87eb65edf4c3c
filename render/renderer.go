// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/batch"
	"github.com/gogpu/mapgfx/buffer"
	"github.com/gogpu/mapgfx/camera"
	"github.com/gogpu/mapgfx/gpu"
)

// Config holds frame presentation settings.
type Config struct {
	// ClearColor fills the swap target before the frame's draws.
	ClearColor mapgfx.RGBA
}

// DefaultConfig returns the editor's dark canvas background.
func DefaultConfig() Config {
	return Config{ClearColor: mapgfx.RGBA{R: 0.12, G: 0.12, B: 0.12, A: 1}}
}

// pendingTexture is a page texture retired in some frame, destroyable
// once the device reports that frame complete.
type pendingTexture struct {
	tex   gpu.TextureID
	frame uint64
}

// Renderer draws built frames. It owns the GPU-side mirror of the
// atlas pages and the draw submission loop; one draw call per batch.
//
// Renderer is used from the single render goroutine. A frame either
// completes or is abandoned wholesale; the renderer is the only
// component that drops frames.
type Renderer struct {
	dev     gpu.Device
	alloc   *atlas.Allocator
	buffers *buffer.Manager
	cfg     Config

	pages      map[atlas.PageID]gpu.TextureID
	generation uint32
	pending    []pendingTexture
	scratch    []byte
}

// New creates a renderer over the shared device, atlas and buffer
// manager.
func New(dev gpu.Device, alloc *atlas.Allocator, buffers *buffer.Manager, cfg Config) *Renderer {
	return &Renderer{
		dev:        dev,
		alloc:      alloc,
		buffers:    buffers,
		cfg:        cfg,
		pages:      make(map[atlas.PageID]gpu.TextureID),
		generation: alloc.Generation(),
	}
}

// Render stages, uploads and draws one built frame.
//
// A swap-target failure drops the frame and is returned to the caller;
// it is never retried here. gpu.ErrDeviceLost propagates unwrapped so
// the caller can tear down and reinitialize the device.
func (r *Renderer) Render(frame *batch.Frame, cam *camera.Camera) error {
	staged, err := r.buffers.Stage(frame)
	if err != nil {
		return err
	}
	if err := r.syncAtlas(); err != nil {
		return err
	}
	vertices, indices, err := r.buffers.Upload(staged)
	if err != nil {
		return err
	}

	w, h := cam.Viewport()
	clear := r.cfg.ClearColor.Premultiply()
	desc := gpu.FrameDesc{
		Width:  w,
		Height: h,
		ClearColor: [4]float32{
			float32(clear.R), float32(clear.G), float32(clear.B), float32(clear.A),
		},
		ViewProjection: [16]float32(cam.ViewProjection()),
	}
	if err := r.dev.BeginFrame(desc); err != nil {
		if errors.Is(err, gpu.ErrSwapUnavailable) {
			mapgfx.Logger().Warn("frame dropped, swap target unavailable", "frame", r.dev.Frame()+1)
		}
		return err
	}

	for _, b := range staged.Batches {
		tex, ok := r.pages[b.Page]
		if !ok {
			// No partial submission: a frame that cannot draw every
			// batch is abandoned wholesale.
			r.dev.AbortFrame()
			return fmt.Errorf("%w: page %d", ErrUnknownPage, b.Page)
		}
		if err := r.dev.Draw(gpu.DrawCall{
			Blend:      b.Blend,
			Texture:    tex,
			Vertices:   vertices,
			Indices:    indices,
			IndexCount: uint32(b.Count * batch.QuadIndices),
			FirstIndex: uint32(b.First * batch.QuadIndices),
		}); err != nil {
			r.dev.AbortFrame()
			return err
		}
	}

	if err := r.dev.EndFrame(); err != nil {
		return err
	}

	r.buffers.ReleaseCompleted()
	r.releaseCompleted()
	return nil
}

// syncAtlas mirrors the atlas pages into GPU textures: creates
// textures for new pages, uploads dirty regions and, after a repack,
// retires every texture of the previous generation.
func (r *Renderer) syncAtlas() error {
	if gen := r.alloc.Generation(); gen != r.generation {
		// Repack: every page ID changed. Old textures may still be
		// referenced by the frame in flight.
		for _, tex := range r.pages {
			r.pending = append(r.pending, pendingTexture{tex: tex, frame: r.dev.Frame()})
		}
		clearPages(r.pages)
		r.generation = gen
		mapgfx.Logger().Info("atlas repacked, page textures retired", "generation", gen)
	}

	pageW, pageH := r.alloc.PageSize()
	for _, page := range r.alloc.Pages() {
		if _, ok := r.pages[page.ID]; ok {
			continue
		}
		tex, err := r.dev.CreateTexture(pageW, pageH)
		if err != nil {
			return fmt.Errorf("create page texture: %w", err)
		}
		r.pages[page.ID] = tex
	}

	for _, id := range r.alloc.DirtyPages() {
		page, ok := r.alloc.Page(id)
		if !ok {
			continue
		}
		rect, dirty := page.Dirty()
		if !dirty {
			continue
		}
		if err := r.uploadRect(r.pages[id], page, rect); err != nil {
			return err
		}
		r.alloc.MarkClean(id)
	}
	return nil
}

// uploadRect copies the dirty rows out of the page pixmap into a tight
// buffer and writes them to the texture region.
func (r *Renderer) uploadRect(tex gpu.TextureID, page *atlas.Page, rect atlas.Rect) error {
	rowBytes := rect.W * 4
	need := rowBytes * rect.H
	if cap(r.scratch) < need {
		r.scratch = make([]byte, need)
	}
	r.scratch = r.scratch[:need]

	data := page.Pixels.Data()
	stride := page.Pixels.Width() * 4
	for y := 0; y < rect.H; y++ {
		src := (rect.Y+y)*stride + rect.X*4
		copy(r.scratch[y*rowBytes:(y+1)*rowBytes], data[src:src+rowBytes])
	}

	region := gpu.TextureRegion{X: rect.X, Y: rect.Y, Width: rect.W, Height: rect.H}
	if err := r.dev.WriteTexture(tex, region, r.scratch); err != nil {
		return fmt.Errorf("upload atlas page %d: %w", page.ID, err)
	}
	return nil
}

// releaseCompleted destroys retired page textures whose last
// referencing frame has completed.
func (r *Renderer) releaseCompleted() {
	completed := r.dev.CompletedFrame()
	kept := r.pending[:0]
	for _, p := range r.pending {
		if p.frame <= completed {
			r.dev.DestroyTexture(p.tex)
		} else {
			kept = append(kept, p)
		}
	}
	r.pending = kept
}

// PendingReleases returns the number of textures awaiting destruction.
func (r *Renderer) PendingReleases() int { return len(r.pending) }

// Close destroys all page textures regardless of frame completion.
// Only call after the device is idle.
func (r *Renderer) Close() {
	for _, p := range r.pending {
		r.dev.DestroyTexture(p.tex)
	}
	r.pending = nil
	for id, tex := range r.pages {
		r.dev.DestroyTexture(tex)
		delete(r.pages, id)
	}
}

func clearPages(m map[atlas.PageID]gpu.TextureID) {
	for k := range m {
		delete(m, k)
	}
}
