package mapgfx

import (
	"image"
	"image/draw"
)

// Pixmap represents a rectangular pixel buffer in RGBA format,
// 4 bytes per pixel, rows packed without padding.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// PixmapFromImage converts any image.Image into a pixmap.
// The conversion goes through image/draw, so paletted and YCbCr
// sources work as well.
func PixmapFromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Pixmap{
		width:  b.Dx(),
		height: b.Dy(),
		data:   rgba.Pix,
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R * 255))
	p.data[i+1] = uint8(clamp255(c.G * 255))
	p.data[i+2] = uint8(clamp255(c.B * 255))
	p.data[i+3] = uint8(clamp255(c.A * 255))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Fill fills the entire pixmap with a color.
func (p *Pixmap) Fill(c RGBA) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// CopyFrom copies src into this pixmap with its top-left corner at (x, y).
// Pixels falling outside the destination are clipped.
func (p *Pixmap) CopyFrom(src *Pixmap, x, y int) {
	for row := 0; row < src.height; row++ {
		dy := y + row
		if dy < 0 || dy >= p.height {
			continue
		}
		for col := 0; col < src.width; col++ {
			dx := x + col
			if dx < 0 || dx >= p.width {
				continue
			}
			si := (row*src.width + col) * 4
			di := (dy*p.width + dx) * 4
			copy(p.data[di:di+4], src.data[si:si+4])
		}
	}
}

// SubPixmap returns a copy of the rectangle (x, y, w, h) of this pixmap.
func (p *Pixmap) SubPixmap(x, y, w, h int) *Pixmap {
	out := NewPixmap(w, h)
	for row := 0; row < h; row++ {
		sy := y + row
		if sy < 0 || sy >= p.height {
			continue
		}
		si := (sy*p.width + x) * 4
		di := row * w * 4
		copy(out.data[di:di+w*4], p.data[si:si+w*4])
	}
	return out
}

// FNV-1a 64-bit constants.
const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// ContentHash returns an FNV-1a hash of the pixmap dimensions and pixel
// bytes. Two pixmaps with identical content hash to the same value, which
// the atlas uses for content-addressed deduplication.
func (p *Pixmap) ContentHash() uint64 {
	hash := uint64(fnvOffset)
	hash ^= uint64(p.width)
	hash *= fnvPrime
	hash ^= uint64(p.height)
	hash *= fnvPrime
	for _, b := range p.data {
		hash ^= uint64(b)
		hash *= fnvPrime
	}
	return hash
}

// HashBytes returns the FNV-1a hash of an arbitrary byte slice, seeded
// with an initial value so callers can chain hashes.
func HashBytes(seed uint64, data []byte) uint64 {
	hash := seed
	if hash == 0 {
		hash = fnvOffset
	}
	for _, b := range data {
		hash ^= uint64(b)
		hash *= fnvPrime
	}
	return hash
}
