package text

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
)

func newTestCache(t *testing.T, maxEntries int) (*GlyphCache, *atlas.Allocator) {
	t.Helper()
	alloc := atlas.NewAllocator(atlas.DefaultConfig())
	return NewGlyphCache(alloc, GlyphCacheConfig{MaxEntries: maxEntries}), alloc
}

func TestGlyphCache_RasterizesIntoAtlas(t *testing.T) {
	c, alloc := newTestCache(t, 64)
	face := newTestFace(t, 16)

	g, err := c.Glyph(face, face.GlyphIndex('A'), 'A')
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasInk() {
		t.Fatal("glyph 'A' has no ink")
	}
	if g.Width <= 0 || g.Height <= 0 {
		t.Errorf("glyph size = %dx%d, want positive", g.Width, g.Height)
	}
	if g.BearingY >= 0 {
		t.Errorf("BearingY = %v, want negative (above baseline)", g.BearingY)
	}
	r, ok := alloc.Region(g.Region)
	if !ok {
		t.Fatal("glyph region did not resolve in the atlas")
	}
	if r.Rect.W != g.Width || r.Rect.H != g.Height {
		t.Errorf("atlas rect = %+v, want %dx%d", r.Rect, g.Width, g.Height)
	}
}

func TestGlyphCache_HitReturnsSameRegion(t *testing.T) {
	c, _ := newTestCache(t, 64)
	face := newTestFace(t, 16)
	gid := face.GlyphIndex('B')

	g1, err := c.Glyph(face, gid, 'B')
	if err != nil {
		t.Fatal(err)
	}
	g2, err := c.Glyph(face, gid, 'B')
	if err != nil {
		t.Fatal(err)
	}
	if g1 != g2 {
		t.Errorf("second lookup = %+v, want %+v", g2, g1)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestGlyphCache_SizesAreDistinct(t *testing.T) {
	c, _ := newTestCache(t, 64)
	source := newTestFace(t, 16).Source()

	small, err := c.Glyph(source.Face(12), source.Face(12).GlyphIndex('C'), 'C')
	if err != nil {
		t.Fatal(err)
	}
	large, err := c.Glyph(source.Face(48), source.Face(48).GlyphIndex('C'), 'C')
	if err != nil {
		t.Fatal(err)
	}
	if large.Height <= small.Height {
		t.Errorf("48px glyph height = %d, want > %d", large.Height, small.Height)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestGlyphCache_SpaceHasNoInk(t *testing.T) {
	c, _ := newTestCache(t, 64)
	face := newTestFace(t, 16)

	g, err := c.Glyph(face, face.GlyphIndex(' '), ' ')
	if err != nil {
		t.Fatal(err)
	}
	if g.HasInk() {
		t.Error("space glyph claims atlas space")
	}
}

func TestGlyphCache_TofuForMissingGlyph(t *testing.T) {
	c, _ := newTestCache(t, 64)
	face := newTestFace(t, 16)

	g, err := c.Glyph(face, 0, '\uE000')
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasInk() {
		t.Fatal("tofu glyph has no ink")
	}
	if g.Width <= 0 || g.Height <= 0 {
		t.Errorf("tofu size = %dx%d, want positive", g.Width, g.Height)
	}
}

func TestGlyphCache_EvictionReleasesAtlasRegion(t *testing.T) {
	c, alloc := newTestCache(t, 2)
	face := newTestFace(t, 16)

	first, err := c.Glyph(face, face.GlyphIndex('D'), 'D')
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []rune{'E', 'F'} {
		if _, err := c.Glyph(face, face.GlyphIndex(r), r); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after eviction", c.Len())
	}

	// The evicted glyph's region is idle now; a trim reclaims it.
	alloc.Trim(0)
	if _, ok := alloc.Region(first.Region); ok {
		t.Error("evicted glyph region still resident after trim")
	}
}

func TestGlyphCache_ClearReleasesEverything(t *testing.T) {
	c, alloc := newTestCache(t, 64)
	face := newTestFace(t, 16)

	for _, r := range "Ginkgo" {
		if _, err := c.Glyph(face, face.GlyphIndex(r), r); err != nil {
			t.Fatal(err)
		}
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	// Only the pinned white pixel should survive the trim.
	alloc.Trim(0)
	if _, ok := alloc.Region(alloc.WhitePixel()); !ok {
		t.Error("white pixel lost")
	}
}

func TestGlyphCache_TofuSubstitutionLogged(t *testing.T) {
	defer mapgfx.SetLogger(nil)
	var buf bytes.Buffer
	mapgfx.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	c, _ := newTestCache(t, 64)
	face := newTestFace(t, 16)

	g, err := c.Glyph(face, 0, '\uE000')
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasInk() {
		t.Fatal("tofu glyph has no ink")
	}
	if !strings.Contains(buf.String(), "missing glyph") {
		t.Errorf("substitution not logged: %q", buf.String())
	}

	// A cache hit substitutes nothing, so it logs nothing.
	buf.Reset()
	if _, err := c.Glyph(face, 0, '\uE000'); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("cache hit logged: %q", buf.String())
	}
}
