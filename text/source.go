package text

import (
	"bytes"
	"fmt"
	"os"
	"sync/atomic"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// sourceIDs mints unique font identifiers for cache keys.
var sourceIDs atomic.Uint64

// FontSource is a loaded font file. One FontSource creates any number of
// Face values at different sizes. The source is heavyweight and should be
// shared across the application.
//
// The font data is parsed twice on purpose: go-text/typesetting drives
// HarfBuzz shaping, golang.org/x/image drives metrics and rasterization.
// Both parsed forms are read-only after construction, so FontSource is
// safe for concurrent use.
type FontSource struct {
	id     uint64
	name   string
	shaped *gtfont.Font
	raster *opentype.Font
}

// NewFontSource parses TTF or OTF font data. The data slice is retained;
// callers must not modify it afterwards.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	shapedFace, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	rasterFont, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}

	s := &FontSource{
		id:     sourceIDs.Add(1),
		shaped: shapedFace.Font,
		raster: rasterFont,
	}
	if name, err := rasterFont.Name(nil, sfnt.NameIDFamily); err == nil {
		s.name = name
	}
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font file: %w", err)
	}
	return NewFontSource(data)
}

// ID returns the source's unique identifier, used in glyph cache keys.
func (s *FontSource) ID() uint64 { return s.id }

// Name returns the font family name, or "" if the font does not carry one.
func (s *FontSource) Name() string { return s.name }

// Face creates a Face at the given size in pixels.
func (s *FontSource) Face(size float64) *Face {
	return &Face{source: s, size: size}
}
