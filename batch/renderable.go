package batch

import (
	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/gpu"
	"github.com/gogpu/mapgfx/text"
	"github.com/gogpu/mapgfx/vector"
)

// Kind discriminates the renderable variants.
type Kind uint8

const (
	// KindTile is an axis-aligned map tile backed by an atlas region.
	KindTile Kind = iota

	// KindSprite is a free-standing textured quad with transform.
	KindSprite

	// KindGlyph is one positioned glyph rasterized through the glyph
	// cache on demand.
	KindGlyph

	// KindPath is a vector path rasterized through the shape cache on
	// demand.
	KindPath
)

// Renderable is the closed variant type the builder consumes. The World
// produces a fresh snapshot of these each frame; the builder only reads.
//
// Common fields apply to every kind. The per-kind fields are only read
// for the matching Kind; constructors fill them in.
type Renderable struct {
	Kind  Kind
	Z     int32
	Blend gpu.BlendMode
	Tint  mapgfx.RGBA

	// Pos is the world-space anchor: the top-left corner for tiles and
	// sprites, the baseline origin for glyphs, the path-space origin
	// for paths. Scale and Rotation apply about the anchor.
	Pos      mapgfx.Point
	Scale    float64
	Rotation float64

	// Tile and Sprite.
	Texture       atlas.Handle
	Width, Height float64

	// Glyph.
	Face *text.Face
	GID  text.GlyphID
	Rune rune

	// Path.
	Path        *vector.Path
	FillRule    vector.FillRule
	StrokeWidth float64
}

// Tile creates a square tile renderable at a world position.
func Tile(x, y, size float64, tex atlas.Handle) Renderable {
	return Renderable{
		Kind:    KindTile,
		Tint:    mapgfx.White,
		Pos:     mapgfx.Pt(x, y),
		Scale:   1,
		Texture: tex,
		Width:   size,
		Height:  size,
	}
}

// Sprite creates a textured quad renderable.
func Sprite(x, y, w, h float64, tex atlas.Handle) Renderable {
	return Renderable{
		Kind:    KindSprite,
		Tint:    mapgfx.White,
		Pos:     mapgfx.Pt(x, y),
		Scale:   1,
		Texture: tex,
		Width:   w,
		Height:  h,
	}
}

// Glyph creates a single-glyph renderable with its baseline origin at
// the given world position.
func Glyph(x, y float64, face *text.Face, gid text.GlyphID, r rune) Renderable {
	return Renderable{
		Kind:  KindGlyph,
		Tint:  mapgfx.Black,
		Pos:   mapgfx.Pt(x, y),
		Scale: 1,
		Face:  face,
		GID:   gid,
		Rune:  r,
	}
}

// PathFill creates a filled vector path renderable.
func PathFill(x, y float64, p *vector.Path, rule vector.FillRule) Renderable {
	return Renderable{
		Kind:     KindPath,
		Tint:     mapgfx.White,
		Pos:      mapgfx.Pt(x, y),
		Scale:    1,
		Path:     p,
		FillRule: rule,
	}
}

// PathStroke creates a stroked vector path renderable.
func PathStroke(x, y float64, p *vector.Path, width float64) Renderable {
	return Renderable{
		Kind:        KindPath,
		Tint:        mapgfx.White,
		Pos:         mapgfx.Pt(x, y),
		Scale:       1,
		Path:        p,
		StrokeWidth: width,
	}
}

// WithZ returns the renderable with its z-order key replaced.
func (r Renderable) WithZ(z int32) Renderable {
	r.Z = z
	return r
}

// WithTint returns the renderable with its tint replaced.
func (r Renderable) WithTint(c mapgfx.RGBA) Renderable {
	r.Tint = c
	return r
}

// WithBlend returns the renderable with its blend mode replaced.
func (r Renderable) WithBlend(b gpu.BlendMode) Renderable {
	r.Blend = b
	return r
}

// transform returns the anchor-relative world transform.
func (r Renderable) transform() mapgfx.Matrix {
	return mapgfx.TRS(r.Pos.X, r.Pos.Y, r.Rotation, r.Scale, r.Scale)
}

// Bounds returns a world-space bounding box used for culling. It is
// exact for tiles, sprites and paths; for glyphs it is a conservative
// box derived from the face metrics, since the raster extents are not
// known before resolution.
func (r Renderable) Bounds() mapgfx.Rect {
	switch r.Kind {
	case KindGlyph:
		if r.Face == nil {
			return mapgfx.EmptyRect()
		}
		m := r.Face.Metrics()
		adv := r.Face.GlyphAdvance(r.GID)
		if adv <= 0 {
			adv = r.Face.Size()
		}
		// Bearing can push ink slightly past the advance box; pad by
		// half the face size on every side.
		pad := r.Face.Size() / 2
		local := mapgfx.NewRect(-pad, -m.Ascent-pad, adv+2*pad, m.Ascent+m.Descent+2*pad)
		return r.transform().TransformRect(local)
	case KindPath:
		if r.Path == nil {
			return mapgfx.EmptyRect()
		}
		b := r.Path.Bounds()
		if r.StrokeWidth > 0 {
			b = b.Expand(r.StrokeWidth / 2)
		}
		return r.transform().TransformRect(b)
	default:
		local := mapgfx.NewRect(0, 0, r.Width, r.Height)
		return r.transform().TransformRect(local)
	}
}
