package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphID is a glyph index within a font.
type GlyphID uint16

// Metrics holds font-wide vertical metrics at a face's size, in pixels.
// Descent is the absolute distance below the baseline.
type Metrics struct {
	Ascent    float64
	Descent   float64
	LineGap   float64
	XHeight   float64
	CapHeight float64
}

// LineHeight returns the default baseline-to-baseline distance.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Face is a FontSource at a concrete pixel size. Face is a small value
// object; creating one is free.
type Face struct {
	source *FontSource
	size   float64
}

// Source returns the FontSource this face was created from.
func (f *Face) Source() *FontSource { return f.source }

// Size returns the face size in pixels.
func (f *Face) Size() float64 { return f.size }

// Metrics returns the font metrics at this face's size.
func (f *Face) Metrics() Metrics {
	var buf sfnt.Buffer
	m, err := f.source.raster.Metrics(&buf, fixedSize(f.size), font.HintingFull)
	if err != nil {
		return Metrics{}
	}
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	return Metrics{
		Ascent:    ascent,
		Descent:   descent,
		LineGap:   fixedToFloat(m.Height) - ascent - descent,
		XHeight:   fixedToFloat(m.XHeight),
		CapHeight: fixedToFloat(m.CapHeight),
	}
}

// HasGlyph reports whether the font maps the rune to a real glyph.
func (f *Face) HasGlyph(r rune) bool {
	return f.GlyphIndex(r) != 0
}

// GlyphIndex returns the glyph index for a rune, 0 if unmapped.
func (f *Face) GlyphIndex(r rune) GlyphID {
	var buf sfnt.Buffer
	idx, err := f.source.raster.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return GlyphID(idx)
}

// GlyphAdvance returns the advance width of a glyph in pixels.
func (f *Face) GlyphAdvance(gid GlyphID) float64 {
	var buf sfnt.Buffer
	adv, err := f.source.raster.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), fixedSize(f.size), font.HintingFull)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

func fixedSize(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
