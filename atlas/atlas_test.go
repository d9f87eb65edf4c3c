package atlas

import (
	"errors"
	"testing"

	"github.com/gogpu/mapgfx"
)

// solidPixmap builds a w x h pixmap filled with a color derived from seed,
// so different seeds produce different content hashes.
func solidPixmap(w, h int, seed uint8) *mapgfx.Pixmap {
	p := mapgfx.NewPixmap(w, h)
	p.Fill(mapgfx.RGBA{R: float64(seed) / 255, G: 0.5, B: 0.25, A: 1})
	return p
}

func TestAllocator_WhitePixel(t *testing.T) {
	a := NewAllocator(DefaultConfig())

	h := a.WhitePixel()
	if h == InvalidHandle {
		t.Fatal("WhitePixel returned the invalid handle")
	}
	r, ok := a.Region(h)
	if !ok {
		t.Fatal("white pixel region did not resolve")
	}
	if r.Rect.W != 1 || r.Rect.H != 1 {
		t.Errorf("white pixel rect = %+v, want 1x1", r.Rect)
	}
	p, ok := a.Page(r.Page)
	if !ok {
		t.Fatal("white pixel page missing")
	}
	c := p.Pixels.GetPixel(r.Rect.X, r.Rect.Y)
	if c != mapgfx.White {
		t.Errorf("white pixel color = %+v, want white", c)
	}
}

func TestAllocator_LargeImagesOpenNewPages(t *testing.T) {
	a := NewAllocator(DefaultConfig())

	// A 1024x1024 page holds only one 600x600 image, so three of them
	// cannot share a single page.
	for i := 0; i < 3; i++ {
		if _, err := a.Allocate(solidPixmap(600, 600, uint8(i+1))); err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
	}
	if a.PageCount() < 2 {
		t.Errorf("PageCount = %d, want at least 2", a.PageCount())
	}
}

func TestAllocator_Dedup(t *testing.T) {
	a := NewAllocator(DefaultConfig())

	h1, err := a.Allocate(solidPixmap(16, 16, 7))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := a.Allocate(solidPixmap(16, 16, 7))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("identical content produced handles %d and %d, want one handle", h1, h2)
	}

	h3, err := a.Allocate(solidPixmap(16, 16, 8))
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("different content produced the same handle")
	}

	// Two references keep the region resident through one release.
	if err := a.Release(h1); err != nil {
		t.Fatal(err)
	}
	a.Trim(0)
	if _, ok := a.Region(h1); !ok {
		t.Error("region trimmed while a reference was live")
	}
	if err := a.Release(h1); err != nil {
		t.Fatal(err)
	}
	a.Trim(0)
	if _, ok := a.Region(h1); ok {
		t.Error("region survived trim with zero references")
	}
}

func TestAllocator_InvalidImages(t *testing.T) {
	a := NewAllocator(DefaultConfig())

	if _, err := a.Allocate(nil); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Allocate(nil) = %v, want ErrInvalidImage", err)
	}
	if _, err := a.Allocate(mapgfx.NewPixmap(0, 0)); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Allocate(empty) = %v, want ErrInvalidImage", err)
	}
	if _, err := a.Allocate(solidPixmap(2000, 2000, 1)); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Allocate(oversized) = %v, want ErrInvalidImage", err)
	}
}

func TestAllocator_Exhaustion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageWidth = 64
	cfg.PageHeight = 64
	cfg.MaxPages = 2
	cfg.Padding = 0
	a := NewAllocator(cfg)

	// Each 48x48 image claims a page of its own (the first page also
	// carries the white pixel).
	if _, err := a.Allocate(solidPixmap(48, 48, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Allocate(solidPixmap(48, 48, 2)); err != nil {
		t.Fatal(err)
	}
	_, err := a.Allocate(solidPixmap(48, 48, 3))
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("Allocate past the page cap = %v, want ErrExhausted", err)
	}
}

func TestAllocator_ReleaseInvalidHandle(t *testing.T) {
	a := NewAllocator(DefaultConfig())
	if err := a.Release(Handle(9999)); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Release(unknown) = %v, want ErrInvalidHandle", err)
	}
	if err := a.Release(InvalidHandle); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Release(invalid) = %v, want ErrInvalidHandle", err)
	}
}

func TestAllocator_RegionsNeverOverlap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageWidth = 256
	cfg.PageHeight = 256
	a := NewAllocator(cfg)

	sizes := []int{7, 31, 64, 13, 100, 45, 9, 77, 22, 50}
	var handles []Handle
	for i, s := range sizes {
		h, err := a.Allocate(solidPixmap(s, s, uint8(i+1)))
		if err != nil {
			t.Fatalf("Allocate %dx%d: %v", s, s, err)
		}
		handles = append(handles, h)
	}

	byPage := make(map[PageID][]Rect)
	for _, h := range handles {
		r, ok := a.Region(h)
		if !ok {
			t.Fatalf("handle %d did not resolve", h)
		}
		byPage[r.Page] = append(byPage[r.Page], r.Rect)
	}
	for page, rects := range byPage {
		for i, ra := range rects {
			for _, rb := range rects[i+1:] {
				if ra.overlaps(rb) {
					t.Errorf("page %d: regions overlap: %+v %+v", page, ra, rb)
				}
			}
		}
	}
}

func TestAllocator_TrimRespectsAgeAndPin(t *testing.T) {
	a := NewAllocator(DefaultConfig())

	stale, _ := a.Allocate(solidPixmap(8, 8, 1))
	pinned, _ := a.Allocate(solidPixmap(8, 8, 2))
	a.Pin(pinned)
	a.Release(stale)
	a.Release(pinned)

	// Age the idle regions by two frames, then trim anything older than
	// one frame.
	a.BeginFrame()
	a.BeginFrame()
	fresh, _ := a.Allocate(solidPixmap(8, 8, 3))
	a.Release(fresh)

	a.Trim(2)
	if _, ok := a.Region(stale); ok {
		t.Error("stale region survived trim")
	}
	if _, ok := a.Region(fresh); !ok {
		t.Error("fresh region trimmed before reaching max age")
	}
	if _, ok := a.Region(pinned); !ok {
		t.Error("pinned region trimmed")
	}

	a.Unpin(pinned)
	a.Trim(0)
	if _, ok := a.Region(pinned); ok {
		t.Error("unpinned idle region survived trim(0)")
	}
}

func TestAllocator_DirtyTracking(t *testing.T) {
	a := NewAllocator(DefaultConfig())
	if len(a.DirtyPages()) == 0 {
		t.Fatal("white pixel upload should leave its page dirty")
	}
	for _, id := range a.DirtyPages() {
		a.MarkClean(id)
	}
	if len(a.DirtyPages()) != 0 {
		t.Fatal("MarkClean left dirty pages behind")
	}

	h, _ := a.Allocate(solidPixmap(10, 10, 5))
	r, _ := a.Region(h)
	ids := a.DirtyPages()
	if len(ids) != 1 || ids[0] != r.Page {
		t.Errorf("DirtyPages = %v, want [%d]", ids, r.Page)
	}
	p, _ := a.Page(r.Page)
	d, ok := p.Dirty()
	if !ok {
		t.Fatal("page reports no dirty rect")
	}
	if !d.contains(r.Rect) {
		t.Errorf("dirty rect %+v does not cover region %+v", d, r.Rect)
	}
}

func TestAllocator_RepackPreservesContent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageWidth = 128
	cfg.PageHeight = 128
	cfg.Padding = 0
	a := NewAllocator(cfg)

	pixmaps := make(map[Handle]*mapgfx.Pixmap)
	var handles []Handle
	for i := 0; i < 6; i++ {
		pm := solidPixmap(40, 40, uint8(i+1))
		h, err := a.Allocate(pm)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		pixmaps[h] = pm
		handles = append(handles, h)
	}

	genBefore := a.Generation()
	a.repack()
	if a.Generation() != genBefore+1 {
		t.Errorf("Generation = %d, want %d", a.Generation(), genBefore+1)
	}

	for _, h := range handles {
		r, ok := a.Region(h)
		if !ok {
			t.Fatalf("handle %d lost in repack", h)
		}
		if r.Generation != a.Generation() {
			t.Errorf("region generation = %d, want %d", r.Generation, a.Generation())
		}
		page, ok := a.Page(r.Page)
		if !ok {
			t.Fatalf("handle %d resolves to missing page %d", h, r.Page)
		}
		src := pixmaps[h]
		for _, pt := range [][2]int{{0, 0}, {src.Width() - 1, src.Height() - 1}} {
			got := page.Pixels.GetPixel(r.Rect.X+pt[0], r.Rect.Y+pt[1])
			want := src.GetPixel(pt[0], pt[1])
			if got != want {
				t.Errorf("handle %d pixel %v = %+v, want %+v", h, pt, got, want)
			}
		}
	}
}

func TestAllocator_RepackShrinksAfterChurn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageWidth = 64
	cfg.PageHeight = 64
	cfg.MaxPages = 4
	cfg.Padding = 0
	cfg.RepackThreshold = 0.4
	a := NewAllocator(cfg)

	// Spread quadrant-sized regions across several pages, then release
	// most of them so the survivors fit into fewer pages.
	var handles []Handle
	for i := 0; i < 12; i++ {
		h, err := a.Allocate(solidPixmap(32, 32, uint8(i+1)))
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		handles = append(handles, h)
	}
	pagesBefore := a.PageCount()
	if pagesBefore < 3 {
		t.Fatalf("PageCount = %d, want at least 3 before churn", pagesBefore)
	}

	for i, h := range handles {
		if i%4 != 0 {
			a.Release(h)
		}
	}
	a.Trim(0)
	a.repack()

	if a.PageCount() >= pagesBefore {
		t.Errorf("PageCount after repack = %d, want fewer than %d", a.PageCount(), pagesBefore)
	}
	for i, h := range handles {
		_, ok := a.Region(h)
		if i%4 == 0 && !ok {
			t.Errorf("live handle %d lost in repack", h)
		}
		if i%4 != 0 && ok {
			t.Errorf("released handle %d still resolves", h)
		}
	}
}

func TestAllocator_FragmentationTriggersRepack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageWidth = 64
	cfg.PageHeight = 64
	cfg.MaxPages = 1
	cfg.Padding = 0
	cfg.RepackThreshold = 0.4
	a := NewAllocator(cfg)

	// Tile the single page with four blocks, release two of them on a
	// diagonal so the free space cannot coalesce, then request a column
	// that only fits after repacking.
	a1, err := a.Allocate(solidPixmap(31, 32, 1))
	if err != nil {
		t.Fatal(err)
	}
	a2, err := a.Allocate(solidPixmap(32, 32, 2))
	if err != nil {
		t.Fatal(err)
	}
	b1, err := a.Allocate(solidPixmap(31, 32, 3))
	if err != nil {
		t.Fatal(err)
	}
	b2, err := a.Allocate(solidPixmap(32, 32, 4))
	if err != nil {
		t.Fatal(err)
	}
	a.Release(a1)
	a.Release(b2)
	a.Trim(0)

	genBefore := a.Generation()
	h, err := a.Allocate(solidPixmap(32, 64, 99))
	if err != nil {
		t.Fatalf("Allocate after fragmentation: %v", err)
	}
	if a.Generation() == genBefore {
		t.Error("allocation succeeded without repacking, fragmentation path untested")
	}
	if a.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", a.PageCount())
	}
	for _, live := range []Handle{a2, b1, h} {
		if _, ok := a.Region(live); !ok {
			t.Errorf("handle %d did not resolve after repack", live)
		}
	}
}

func TestRegion_TexCoords(t *testing.T) {
	r := Region{Rect: Rect{X: 256, Y: 128, W: 256, H: 512}}
	u0, v0, u1, v1 := r.TexCoords(1024, 1024)
	for _, tc := range []struct {
		name string
		got  float32
		want float32
	}{
		{"u0", u0, 0.25},
		{"v0", v0, 0.125},
		{"u1", u1, 0.5},
		{"v1", v1, 0.625},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func BenchmarkAllocate(b *testing.B) {
	cfg := DefaultConfig()
	cfg.MaxPages = 0
	a := NewAllocator(cfg)
	pixmaps := make([]*mapgfx.Pixmap, 64)
	for i := range pixmaps {
		pm := mapgfx.NewPixmap(32, 32)
		pm.Fill(mapgfx.RGBA{R: float64(i) / 64, G: 0.2, B: 0.8, A: 1})
		// Vary one pixel so content hashes differ per iteration batch.
		pm.SetPixel(0, 0, mapgfx.RGBA{R: float64(i%7) / 7, A: 1})
		pixmaps[i] = pm
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := a.Allocate(pixmaps[i%len(pixmaps)])
		if err != nil {
			b.Fatal(err)
		}
		if i%2 == 0 {
			a.Release(h)
		}
	}
}
