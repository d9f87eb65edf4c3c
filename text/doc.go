// Package text shapes and rasterizes text for the renderer.
//
// A FontSource wraps a parsed TTF/OTF file and hands out lightweight Face
// values at concrete pixel sizes. Shaping goes through HarfBuzz via
// go-text/typesetting, with bidirectional runs resolved first so that
// mixed-direction strings come out in visual order. Rasterization uses
// golang.org/x/image and produces alpha masks that the GlyphCache packs
// into the texture atlas.
//
// The GlyphCache is the only stateful piece: it caches rasterized glyphs
// keyed by (font, glyph, size) with LRU eviction, releasing atlas regions
// as entries fall out. Missing glyphs render as a tofu box instead of
// failing the whole string.
package text
