package text

import (
	"log/slog"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/internal/cache"
)

// GlyphKey identifies a cached rasterized glyph. Size is quantized to
// quarter pixels so nearby float sizes share entries.
type GlyphKey struct {
	Font uint64
	GID  GlyphID
	Size int16
}

func glyphKey(face *Face, gid GlyphID) GlyphKey {
	return GlyphKey{
		Font: face.source.ID(),
		GID:  gid,
		Size: int16(face.size*4 + 0.5),
	}
}

// CachedGlyph is a rasterized glyph resident in the atlas. Inkless glyphs
// such as spaces have no Region and zero Width/Height.
type CachedGlyph struct {
	Region   atlas.Handle
	Width    int
	Height   int
	BearingX float64
	BearingY float64
}

// HasInk reports whether the glyph occupies atlas space.
func (g CachedGlyph) HasInk() bool { return g.Region != atlas.InvalidHandle }

// GlyphCacheConfig configures a GlyphCache.
type GlyphCacheConfig struct {
	// MaxEntries bounds the number of resident glyphs. Default 4096.
	MaxEntries int
}

// DefaultGlyphCacheConfig returns the configuration used by the engine.
func DefaultGlyphCacheConfig() GlyphCacheConfig {
	return GlyphCacheConfig{MaxEntries: 4096}
}

// GlyphCache rasterizes glyphs on demand, packs them into the atlas and
// keeps them under an LRU policy. Evicted entries release their atlas
// region; the atlas reclaims the texels on its next trim.
//
// GlyphCache is not safe for concurrent use. It belongs to the render
// thread, like the atlas it feeds.
type GlyphCache struct {
	alloc   *atlas.Allocator
	entries *cache.Cache[GlyphKey, CachedGlyph]
}

// NewGlyphCache creates a glyph cache backed by the given atlas allocator.
func NewGlyphCache(alloc *atlas.Allocator, cfg GlyphCacheConfig) *GlyphCache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultGlyphCacheConfig().MaxEntries
	}
	c := &GlyphCache{alloc: alloc}
	c.entries = cache.New(cfg.MaxEntries, func(_ GlyphKey, g CachedGlyph) {
		if g.HasInk() {
			if err := alloc.Release(g.Region); err != nil {
				mapgfx.Logger().Warn("text: release evicted glyph", slog.String("error", err.Error()))
			}
		}
	})
	return c
}

// Glyph returns the cached raster for a shaped glyph, rasterizing and
// packing it on first use. The rune is the cluster rune the glyph maps to;
// unmapped runes (GID 0) come back as a tofu box.
func (c *GlyphCache) Glyph(face *Face, gid GlyphID, r rune) (CachedGlyph, error) {
	key := glyphKey(face, gid)
	if g, ok := c.entries.Get(key); ok {
		return g, nil
	}

	var ras rasterized
	var ink bool
	if gid == 0 {
		mapgfx.Logger().Warn("text: missing glyph, tofu substituted",
			slog.String("font", face.source.Name()),
			slog.String("rune", string(r)))
		ras = rasterizeTofu(face)
		ink = true
	} else {
		ras, ink = rasterizeRune(face, r)
	}

	var g CachedGlyph
	if ink {
		handle, err := c.alloc.Allocate(ras.pixmap)
		if err != nil {
			return CachedGlyph{}, err
		}
		g = CachedGlyph{
			Region:   handle,
			Width:    ras.pixmap.Width(),
			Height:   ras.pixmap.Height(),
			BearingX: ras.bearingX,
			BearingY: ras.bearingY,
		}
	}
	c.entries.Set(key, g)
	return g, nil
}

// Len returns the number of resident glyphs.
func (c *GlyphCache) Len() int { return c.entries.Len() }

// Clear drops every cached glyph and releases their atlas regions.
func (c *GlyphCache) Clear() { c.entries.Clear() }
