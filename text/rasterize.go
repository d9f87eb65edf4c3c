package text

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/mapgfx"
)

// rasterized is the output of glyph rasterization: a premultiplied white
// pixmap carrying the coverage in its alpha, plus the offset from the pen
// position on the baseline to the pixmap's top-left corner.
type rasterized struct {
	pixmap   *mapgfx.Pixmap
	bearingX float64
	bearingY float64
}

// rasterizeRune renders a rune's glyph at the face size to an alpha mask
// and converts it to a pixmap. Returns ok=false for glyphs with no ink,
// such as spaces.
func rasterizeRune(face *Face, r rune) (rasterized, bool) {
	otFace, err := opentype.NewFace(face.source.raster, &opentype.FaceOptions{
		Size:    face.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return rasterized{}, false
	}
	defer func() { _ = otFace.Close() }()

	bounds, _, ok := otFace.GlyphBounds(r)
	if !ok {
		return rasterized{}, false
	}

	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w := maxX - minX
	h := maxY - minY
	if w <= 0 || h <= 0 {
		return rasterized{}, false
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: otFace,
		Dot: fixed.Point26_6{
			X: -bounds.Min.X,
			Y: -bounds.Min.Y,
		},
	}
	d.DrawString(string(r))

	return rasterized{
		pixmap:   maskToPixmap(mask),
		bearingX: float64(minX),
		bearingY: float64(minY),
	}, true
}

// rasterizeTofu draws the replacement box used for unmapped runes: a
// hollow rectangle sized from the face metrics.
func rasterizeTofu(face *Face) rasterized {
	m := face.Metrics()
	h := int(m.CapHeight + 0.5)
	if h < 4 {
		h = int(face.size*0.7 + 0.5)
	}
	if h < 4 {
		h = 4
	}
	w := h * 3 / 4
	border := max(1, h/8)

	p := mapgfx.NewPixmap(w, h)
	white := mapgfx.White
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			onBorder := x < border || x >= w-border || y < border || y >= h-border
			if onBorder {
				p.SetPixel(x, y, white)
			}
		}
	}
	return rasterized{
		pixmap:   p,
		bearingX: 0,
		bearingY: -float64(h),
	}
}

// maskToPixmap converts an alpha mask into a premultiplied white pixmap.
// Tinting happens at draw time via color modulation.
func maskToPixmap(mask *image.Alpha) *mapgfx.Pixmap {
	b := mask.Bounds()
	p := mapgfx.NewPixmap(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A
			if a == 0 {
				continue
			}
			v := float64(a) / 255
			p.SetPixel(x, y, mapgfx.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return p
}
