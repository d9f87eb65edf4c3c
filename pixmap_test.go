package mapgfx

import (
	"image"
	"image/color"
	"testing"
)

func TestPixmapSetGetPixel(t *testing.T) {
	p := NewPixmap(4, 4)

	p.SetPixel(1, 2, RGBA{1, 0.5, 0.25, 1})
	got := p.GetPixel(1, 2)
	if !colorNear(got, RGBA{1, 0.5, 0.25, 1}) {
		t.Errorf("GetPixel = %v", got)
	}

	// Out-of-range access is a no-op and reads transparent.
	p.SetPixel(-1, 0, White)
	p.SetPixel(4, 0, White)
	if got := p.GetPixel(7, 7); got != Transparent {
		t.Errorf("out-of-range GetPixel = %v, want Transparent", got)
	}
}

func TestPixmapFill(t *testing.T) {
	p := NewPixmap(3, 3)
	p.Fill(RGBA{0, 1, 0, 1})
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := p.GetPixel(x, y); !colorNear(got, RGBA{0, 1, 0, 1}) {
				t.Fatalf("pixel (%d,%d) = %v after Fill", x, y, got)
			}
		}
	}
}

func TestPixmapCopyFromClips(t *testing.T) {
	dst := NewPixmap(4, 4)
	src := NewPixmap(2, 2)
	src.Fill(White)

	// Half the source hangs off the right edge.
	dst.CopyFrom(src, 3, 0)
	if got := dst.GetPixel(3, 0); got != White {
		t.Errorf("in-bounds copy pixel = %v, want White", got)
	}
	if got := dst.GetPixel(0, 0); got != Transparent {
		t.Errorf("untouched pixel = %v, want Transparent", got)
	}
}

func TestSubPixmap(t *testing.T) {
	p := NewPixmap(4, 4)
	p.SetPixel(2, 2, White)

	sub := p.SubPixmap(1, 1, 2, 2)
	if sub.Width() != 2 || sub.Height() != 2 {
		t.Fatalf("sub size = %dx%d, want 2x2", sub.Width(), sub.Height())
	}
	if got := sub.GetPixel(1, 1); got != White {
		t.Errorf("sub pixel (1,1) = %v, want White", got)
	}
}

func TestPixmapFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})

	p := PixmapFromImage(img)
	if p.Width() != 2 || p.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", p.Width(), p.Height())
	}
	if got := p.GetPixel(0, 0); !colorNear(got, RGBA{1, 0, 0, 1}) {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
}

func TestContentHash(t *testing.T) {
	a := NewPixmap(4, 4)
	b := NewPixmap(4, 4)
	if a.ContentHash() != b.ContentHash() {
		t.Error("identical pixmaps hash differently")
	}

	b.SetPixel(0, 0, White)
	if a.ContentHash() == b.ContentHash() {
		t.Error("differing pixmaps hash identically")
	}

	// Same bytes, different shape.
	c := NewPixmap(2, 8)
	if a.ContentHash() == c.ContentHash() {
		t.Error("dimension change not reflected in hash")
	}
}

func TestHashBytesChains(t *testing.T) {
	h1 := HashBytes(0, []byte("abc"))
	h2 := HashBytes(h1, []byte("def"))
	if h1 == h2 {
		t.Error("chained hash equals seed hash")
	}
	if HashBytes(0, []byte("abc")) != h1 {
		t.Error("hash not deterministic")
	}
}
