// Package mapgfx is the batched 2D rendering core used by the GoGPU
// map-editor tooling.
//
// # Overview
//
// mapgfx turns a per-frame set of renderables (tiles, sprites, glyphs, and
// vector paths) into a minimal sequence of GPU draw calls. Source images are
// packed into shared texture atlas pages, text is shaped and rasterized on
// demand, and everything visible is sorted into contiguous batches that share
// an atlas page and blend mode.
//
// # Quick Start
//
//	eng := engine.New(dev)
//	eng.Camera().SetViewport(1280, 720)
//
//	tiles, _ := eng.Allocate(tilesheet)
//
//	// per frame
//	eng.BeginFrame()
//	eng.Submit(batch.Sprite(x, y, 32, 32, tiles))
//	if err := eng.EndFrame(); err != nil {
//	    // frame dropped; device may need reinitialization
//	}
//
// # Architecture
//
// The library is organized into:
//   - Root: geometry, color, pixmap, and the shared logger
//   - engine: the facade owning all of the below
//   - atlas: page-based texture atlas with guillotine packing
//   - text: shaping (go-text/typesetting) and the glyph raster cache
//   - vector: path tessellation and the shape raster cache
//   - camera: view-projection transform and viewport culling bounds
//   - batch: per-frame culling, resolution, sorting, and grouping
//   - buffer: CPU staging arrays and GPU vertex/index/uniform buffers
//   - render: draw submission against the active batches
//   - gpu: the device abstraction the host supplies
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// # Threading
//
// One render thread owns the Engine and everything it reaches. Renderables
// handed to Submit must not be mutated until EndFrame returns.
package mapgfx
