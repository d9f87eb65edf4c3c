// Package batch turns a per-frame set of renderables into the minimum
// number of draw groups that preserves paint order. Build culls against
// the camera's visible bounds, resolves every renderable to an atlas
// region (rasterizing glyphs and paths on demand), stable-sorts by
// (z, page, blend) and emits contiguous runs as batches.
package batch
