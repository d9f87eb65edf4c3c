// Package engine ties the rendering core together: one Engine owns the
// atlas, the glyph and shape caches, the camera, the batch builder, the
// buffer manager and the frame renderer, and drives them through the
// per-frame BeginFrame / Submit / EndFrame cycle.
package engine
