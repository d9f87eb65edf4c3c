package atlas

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/gogpu/mapgfx"
)

// Config controls page geometry and repack behavior.
type Config struct {
	// PageWidth and PageHeight are the texel dimensions of every page.
	PageWidth  int
	PageHeight int

	// MaxPages caps the number of simultaneously live pages. Zero means
	// unlimited.
	MaxPages int

	// Padding is the gutter in texels added around every region so that
	// linear sampling never bleeds into a neighbor.
	Padding int

	// RepackThreshold is the fragmentation score above which an allocation
	// failure triggers a repack instead of opening a new page.
	// Fragmentation is 1 minus the largest free rectangle's share of the
	// total free area.
	RepackThreshold float64
}

// DefaultConfig returns the configuration used by the engine: 1024x1024
// pages, at most 16 of them, a one texel gutter and repack at 0.5.
func DefaultConfig() Config {
	return Config{
		PageWidth:       1024,
		PageHeight:      1024,
		MaxPages:        16,
		Padding:         1,
		RepackThreshold: 0.5,
	}
}

// Page is one texture page. The render layer reads Pixels and the dirty
// rectangle to upload changed texels, then calls Allocator.MarkClean.
type Page struct {
	ID     PageID
	Pixels *mapgfx.Pixmap

	packer   *packer
	dirty    Rect
	hasDirty bool
}

// Dirty returns the rectangle covering all texels written since the last
// MarkClean, and whether there are any.
func (p *Page) Dirty() (Rect, bool) {
	return p.dirty, p.hasDirty
}

func (p *Page) markDirty(r Rect) {
	if !p.hasDirty {
		p.dirty = r
		p.hasDirty = true
		return
	}
	x0 := min(p.dirty.X, r.X)
	y0 := min(p.dirty.Y, r.Y)
	x1 := max(p.dirty.X+p.dirty.W, r.X+r.W)
	y1 := max(p.dirty.Y+p.dirty.H, r.Y+r.H)
	p.dirty = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// slot is the backing record of a Handle.
type slot struct {
	region   Region
	refs     int
	pinned   bool
	lastUsed uint64
	pixels   *mapgfx.Pixmap // retained for repacking
}

// Allocator packs images into pages and deduplicates identical content.
// It is not safe for concurrent use.
type Allocator struct {
	cfg   Config
	pages []*Page

	slots  map[Handle]*slot
	byHash map[uint64]Handle

	nextHandle Handle
	nextPage   PageID
	generation uint32
	frame      uint64

	white Handle
}

// NewAllocator creates an allocator and pre-allocates a pinned 1x1 white
// region used for untextured quads.
func NewAllocator(cfg Config) *Allocator {
	if cfg.PageWidth <= 0 || cfg.PageHeight <= 0 {
		def := DefaultConfig()
		cfg.PageWidth = def.PageWidth
		cfg.PageHeight = def.PageHeight
	}
	if cfg.RepackThreshold <= 0 || cfg.RepackThreshold >= 1 {
		cfg.RepackThreshold = DefaultConfig().RepackThreshold
	}
	a := &Allocator{
		cfg:    cfg,
		slots:  make(map[Handle]*slot),
		byHash: make(map[uint64]Handle),
	}

	wp := mapgfx.NewPixmap(1, 1)
	wp.Fill(mapgfx.White)
	h, err := a.Allocate(wp)
	if err != nil {
		// A fresh allocator with a 1x1 image cannot fail to place.
		panic(fmt.Sprintf("atlas: white pixel allocation: %v", err))
	}
	a.Pin(h)
	a.white = h
	return a
}

// WhitePixel returns the pinned handle of the 1x1 white region.
func (a *Allocator) WhitePixel() Handle { return a.white }

// BeginFrame advances the allocator's frame counter, which drives the
// staleness measure used by Trim.
func (a *Allocator) BeginFrame() { a.frame++ }

// Allocate places an image into the atlas and returns its handle. If the
// same pixel content was allocated before and is still resident, the
// existing handle is returned with its reference count incremented.
//
// Returns ErrInvalidImage for empty or oversized images and ErrExhausted
// when every page is full, repacking cannot help and the page cap has been
// reached.
func (a *Allocator) Allocate(pix *mapgfx.Pixmap) (Handle, error) {
	if pix == nil || pix.Width() <= 0 || pix.Height() <= 0 {
		return InvalidHandle, ErrInvalidImage
	}
	pad := a.cfg.Padding
	needW := pix.Width() + 2*pad
	needH := pix.Height() + 2*pad
	if needW > a.cfg.PageWidth || needH > a.cfg.PageHeight {
		return InvalidHandle, fmt.Errorf("%w: %dx%d with padding %d on %dx%d pages",
			ErrInvalidImage, pix.Width(), pix.Height(), pad, a.cfg.PageWidth, a.cfg.PageHeight)
	}

	hash := pix.ContentHash()
	if h, ok := a.byHash[hash]; ok {
		s := a.slots[h]
		s.refs++
		s.lastUsed = a.frame
		return h, nil
	}

	page, rect, err := a.place(needW, needH)
	if err != nil {
		return InvalidHandle, err
	}

	inner := Rect{X: rect.X + pad, Y: rect.Y + pad, W: pix.Width(), H: pix.Height()}
	page.Pixels.CopyFrom(pix, inner.X, inner.Y)
	page.markDirty(rect)

	a.nextHandle++
	h := a.nextHandle
	a.slots[h] = &slot{
		region: Region{
			Page:       page.ID,
			Rect:       inner,
			Generation: a.generation,
			Hash:       hash,
		},
		refs:     1,
		lastUsed: a.frame,
		pixels:   pix,
	}
	a.byHash[hash] = h

	mapgfx.Logger().Debug("atlas: allocated region",
		slog.Int("width", pix.Width()),
		slog.Int("height", pix.Height()),
		slog.Uint64("handle", uint64(h)),
		slog.Uint64("page", uint64(page.ID)))
	return h, nil
}

// place finds room for an outer rectangle, repacking or opening a new page
// when needed.
func (a *Allocator) place(w, h int) (*Page, Rect, error) {
	for _, p := range a.pages {
		if r, ok := p.packer.allocate(w, h); ok {
			return p, r, nil
		}
	}

	// Nothing fits. If free space is splintered, repack and retry before
	// spending a new page.
	if a.fragmented() {
		a.repack()
		for _, p := range a.pages {
			if r, ok := p.packer.allocate(w, h); ok {
				return p, r, nil
			}
		}
	}

	if a.cfg.MaxPages > 0 && len(a.pages) >= a.cfg.MaxPages {
		return nil, Rect{}, ErrExhausted
	}
	p := a.newPage()
	r, ok := p.packer.allocate(w, h)
	if !ok {
		// Size was validated against the page dimensions already.
		return nil, Rect{}, ErrInvalidImage
	}
	return p, r, nil
}

func (a *Allocator) newPage() *Page {
	a.nextPage++
	p := &Page{
		ID:     a.nextPage,
		Pixels: mapgfx.NewPixmap(a.cfg.PageWidth, a.cfg.PageHeight),
		packer: newPacker(a.cfg.PageWidth, a.cfg.PageHeight),
	}
	a.pages = append(a.pages, p)
	return p
}

// fragmented reports whether any page crossed the repack threshold.
func (a *Allocator) fragmented() bool {
	for _, p := range a.pages {
		if p.packer.fragmentation() > a.cfg.RepackThreshold {
			return true
		}
	}
	return false
}

// Release decrements a handle's reference count. When the count reaches
// zero the region stays resident for dedup until Trim reclaims it.
func (a *Allocator) Release(h Handle) error {
	s, ok := a.slots[h]
	if !ok {
		return ErrInvalidHandle
	}
	if s.refs > 0 {
		s.refs--
		if s.refs == 0 {
			s.lastUsed = a.frame
		}
	}
	return nil
}

// Pin excludes a handle from Trim. Pinned regions are reclaimed only by
// explicit release of every reference followed by Unpin and Trim.
func (a *Allocator) Pin(h Handle) {
	if s, ok := a.slots[h]; ok {
		s.pinned = true
	}
}

// Unpin makes a pinned handle eligible for Trim again.
func (a *Allocator) Unpin(h Handle) {
	if s, ok := a.slots[h]; ok {
		s.pinned = false
	}
}

// Region resolves a handle to its current placement and marks it used this
// frame. The result is valid until the next repack.
func (a *Allocator) Region(h Handle) (Region, bool) {
	s, ok := a.slots[h]
	if !ok {
		return Region{}, false
	}
	s.lastUsed = a.frame
	return s.region, true
}

// Generation returns the current repack generation. Cached vertex data
// holding texture coordinates must be rebuilt when it changes.
func (a *Allocator) Generation() uint32 { return a.generation }

// PageSize returns the texel dimensions shared by all pages.
func (a *Allocator) PageSize() (w, h int) { return a.cfg.PageWidth, a.cfg.PageHeight }

// PageCount returns the number of live pages.
func (a *Allocator) PageCount() int { return len(a.pages) }

// Pages returns the live pages in ID order.
func (a *Allocator) Pages() []*Page { return a.pages }

// Page returns the page with the given ID.
func (a *Allocator) Page(id PageID) (*Page, bool) {
	for _, p := range a.pages {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// DirtyPages returns the IDs of pages with texels written since their last
// MarkClean.
func (a *Allocator) DirtyPages() []PageID {
	var ids []PageID
	for _, p := range a.pages {
		if p.hasDirty {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// MarkClean clears a page's dirty rectangle after the render layer has
// uploaded it.
func (a *Allocator) MarkClean(id PageID) {
	if p, ok := a.Page(id); ok {
		p.hasDirty = false
		p.dirty = Rect{}
	}
}

// Trim reclaims regions whose reference count is zero and whose last use
// is at least maxAge frames ago. Pinned regions are never reclaimed.
// Returns the number of regions freed.
func (a *Allocator) Trim(maxAge uint64) int {
	freed := 0
	for h, s := range a.slots {
		if s.pinned || s.refs > 0 {
			continue
		}
		if a.frame-s.lastUsed < maxAge {
			continue
		}
		if p, ok := a.Page(s.region.Page); ok {
			outer := Rect{
				X: s.region.Rect.X - a.cfg.Padding,
				Y: s.region.Rect.Y - a.cfg.Padding,
				W: s.region.Rect.W + 2*a.cfg.Padding,
				H: s.region.Rect.H + 2*a.cfg.Padding,
			}
			p.packer.release(outer)
		}
		delete(a.byHash, s.region.Hash)
		delete(a.slots, h)
		freed++
	}
	if freed > 0 {
		mapgfx.Logger().Debug("atlas: trimmed regions", slog.Int("freed", freed))
	}
	return freed
}

// repack re-places every resident region into a fresh set of pages,
// largest first, and bumps the generation. After heavy churn this can
// shrink the page count. Page IDs of the new pages are fresh, so the
// render layer drops textures for IDs that no longer exist.
func (a *Allocator) repack() {
	type live struct {
		handle Handle
		s      *slot
	}
	regions := make([]live, 0, len(a.slots))
	for h, s := range a.slots {
		regions = append(regions, live{handle: h, s: s})
	}
	// Largest first packs tightest; ties broken by handle so the layout
	// is deterministic.
	sort.Slice(regions, func(i, j int) bool {
		ai := regions[i].s.region.Rect.Area()
		aj := regions[j].s.region.Rect.Area()
		if ai != aj {
			return ai > aj
		}
		return regions[i].handle < regions[j].handle
	})

	oldPages := a.pages
	a.pages = nil
	a.generation++

	pad := a.cfg.Padding
	for _, l := range regions {
		src := l.s.pixels
		needW := src.Width() + 2*pad
		needH := src.Height() + 2*pad

		var page *Page
		var rect Rect
		placed := false
		for _, p := range a.pages {
			if r, ok := p.packer.allocate(needW, needH); ok {
				page, rect, placed = p, r, true
				break
			}
		}
		if !placed {
			page = a.newPage()
			r, ok := page.packer.allocate(needW, needH)
			if !ok {
				// Regions were resident before, so each fits a page.
				panic("atlas: repack cannot place resident region")
			}
			rect = r
		}

		inner := Rect{X: rect.X + pad, Y: rect.Y + pad, W: src.Width(), H: src.Height()}
		page.Pixels.CopyFrom(src, inner.X, inner.Y)
		page.markDirty(rect)
		l.s.region.Page = page.ID
		l.s.region.Rect = inner
		l.s.region.Generation = a.generation
	}

	mapgfx.Logger().Info("atlas: repacked",
		slog.Int("regions", len(regions)),
		slog.Int("pages_before", len(oldPages)),
		slog.Int("pages_after", len(a.pages)),
		slog.Uint64("generation", uint64(a.generation)))
}
