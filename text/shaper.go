package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// ShapedGlyph is one positioned glyph from shaping. X and Y are pen
// offsets in pixels from the string origin on the baseline; Cluster is
// the rune index in the original string the glyph maps back to.
type ShapedGlyph struct {
	GID      GlyphID
	Rune     rune
	Cluster  int
	X, Y     float64
	XAdvance float64
}

// Shaper turns strings into positioned glyph sequences using HarfBuzz.
//
// Shaper is safe for concurrent use. HarfbuzzShaper instances carry
// mutable buffers and are not, so they are pooled and each Shape call
// checks one out.
type Shaper struct {
	pool sync.Pool
}

// NewShaper creates a Shaper.
func NewShaper() *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape shapes text at the face's size. Bidirectional text is split into
// directional runs first; the returned glyphs are in visual order with a
// pen position accumulated across runs, so callers can place quads
// directly. Returns nil for empty input.
func (s *Shaper) Shape(face *Face, text string) []ShapedGlyph {
	if text == "" || face == nil {
		return nil
	}

	// font.Face is not safe for concurrent use; make one per call. It is
	// a cheap wrapper around the shared read-only *font.Font.
	gtFace := gtfont.NewFace(face.source.shaped)
	runes := []rune(text)

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	defer s.pool.Put(hb)

	var out []ShapedGlyph
	var penX float64
	for _, run := range splitRuns(text) {
		dir := di.DirectionLTR
		if run.RTL {
			dir = di.DirectionRTL
		}
		input := shaping.Input{
			Text:      runes,
			RunStart:  run.Start,
			RunEnd:    run.End,
			Direction: dir,
			Face:      gtFace,
			Size:      fixedSize(face.size),
			Script:    run.Script,
			Language:  language.NewLanguage("en"),
		}
		output := hb.Shape(input)

		for _, g := range output.Glyphs {
			cluster := g.TextIndex()
			var r rune
			if cluster >= 0 && cluster < len(runes) {
				r = runes[cluster]
			}
			adv := fixedToFloat(g.Advance)
			out = append(out, ShapedGlyph{
				GID:      GlyphID(g.GlyphID),
				Rune:     r,
				Cluster:  cluster,
				X:        penX + fixedToFloat(g.XOffset),
				Y:        -fixedToFloat(g.YOffset),
				XAdvance: adv,
			})
			penX += adv
		}
	}
	return out
}

// Advance returns the total advance width of text in pixels.
func (s *Shaper) Advance(face *Face, text string) float64 {
	total := 0.0
	for _, g := range s.Shape(face, text) {
		total += g.XAdvance
	}
	return total
}
