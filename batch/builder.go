package batch

import (
	"fmt"
	"sort"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/camera"
	"github.com/gogpu/mapgfx/gpu"
	"github.com/gogpu/mapgfx/text"
	"github.com/gogpu/mapgfx/vector"
)

// Builder resolves renderables into sorted, grouped draw batches. It
// holds the caches that rasterize glyph and path variants on demand and
// reuses its scratch arrays between frames.
//
// Builder is used from the single render goroutine.
type Builder struct {
	alloc  *atlas.Allocator
	glyphs *text.GlyphCache
	shapes *vector.ShapeCache

	items []item
	frame Frame
}

// item is one culled, resolved renderable awaiting sort and grouping.
type item struct {
	z     int32
	page  atlas.PageID
	blend gpu.BlendMode
	quad  [QuadVertices]Vertex
}

// NewBuilder creates a builder over the shared atlas and caches. The
// glyph and shape caches may be nil if the World never produces glyph
// or path renderables.
func NewBuilder(alloc *atlas.Allocator, glyphs *text.GlyphCache, shapes *vector.ShapeCache) *Builder {
	return &Builder{
		alloc:  alloc,
		glyphs: glyphs,
		shapes: shapes,
	}
}

// Build culls, resolves, sorts and groups one frame's renderables. The
// snapshot must not be mutated during the call. The returned Frame is
// valid until the next Build.
//
// Build is deterministic: the same snapshot and camera state produce
// identical batches. Renderables are only reordered relative to each
// other when their z-order keys differ or their grouping keys differ;
// full ties keep insertion order.
func (b *Builder) Build(renderables []Renderable, cam *camera.Camera) (*Frame, error) {
	if cam == nil {
		return nil, ErrNilCamera
	}

	b.frame.reset()

	visible := cam.VisibleBounds()
	culled := 0
	for attempt := 0; ; attempt++ {
		b.items = b.items[:0]
		culled = 0
		gen := b.alloc.Generation()
		for i := range renderables {
			r := &renderables[i]
			if !r.Bounds().Intersects(visible) {
				culled++
				continue
			}
			if err := b.resolve(r); err != nil {
				return nil, err
			}
		}
		if b.alloc.Generation() == gen || attempt == 1 {
			break
		}
		// An on-demand rasterization repacked the atlas mid-resolve,
		// moving regions already captured for earlier items. Every
		// raster is cached now, so one more pass sees a stable layout.
		mapgfx.Logger().Debug("atlas repacked during build, re-resolving frame")
	}

	// Stable: equal (z, page, blend) keeps World iteration order.
	sort.SliceStable(b.items, func(i, j int) bool {
		a, c := &b.items[i], &b.items[j]
		if a.z != c.z {
			return a.z < c.z
		}
		if a.page != c.page {
			return a.page < c.page
		}
		return a.blend < c.blend
	})

	for i := range b.items {
		it := &b.items[i]
		n := len(b.frame.Batches)
		if n == 0 || b.frame.Batches[n-1].Page != it.page || b.frame.Batches[n-1].Blend != it.blend {
			b.frame.Batches = append(b.frame.Batches, Batch{
				Page:  it.page,
				Blend: it.blend,
				First: i,
			})
			n++
		}
		b.frame.Batches[n-1].Count++
		b.frame.Vertices = append(b.frame.Vertices, it.quad[:]...)
	}

	mapgfx.Logger().Debug("frame built",
		"renderables", len(renderables),
		"culled", culled,
		"quads", b.frame.QuadCount(),
		"batches", len(b.frame.Batches))
	return &b.frame, nil
}

// resolve fetches the renderable's atlas region, rasterizing glyph and
// path variants on demand, and appends the resolved quad. Renderables
// that produce no ink (whitespace glyphs, empty paths) resolve to
// nothing without error.
func (b *Builder) resolve(r *Renderable) error {
	var (
		handle atlas.Handle
		local  mapgfx.Rect
	)

	switch r.Kind {
	case KindGlyph:
		cg, err := b.glyphs.Glyph(r.Face, r.GID, r.Rune)
		if err != nil {
			return fmt.Errorf("resolve glyph %d: %w", r.GID, err)
		}
		if !cg.HasInk() {
			return nil
		}
		handle = cg.Region
		local = mapgfx.NewRect(float64(cg.BearingX), float64(cg.BearingY),
			float64(cg.Width), float64(cg.Height))

	case KindPath:
		var (
			cs  vector.CachedShape
			err error
		)
		if r.StrokeWidth > 0 {
			cs, err = b.shapes.Stroke(r.Path, r.StrokeWidth)
		} else {
			cs, err = b.shapes.Fill(r.Path, r.FillRule)
		}
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if !cs.HasInk() {
			return nil
		}
		handle = cs.Region
		local = mapgfx.NewRect(float64(cs.OriginX), float64(cs.OriginY),
			float64(cs.Width), float64(cs.Height))

	default:
		handle = r.Texture
		local = mapgfx.NewRect(0, 0, r.Width, r.Height)
	}

	region, ok := b.alloc.Region(handle)
	if !ok {
		return fmt.Errorf("%w: handle %d", ErrStaleHandle, handle)
	}

	pageW, pageH := b.alloc.PageSize()
	u0, v0, u1, v1 := region.TexCoords(pageW, pageH)

	m := r.transform()
	tl := m.Apply(mapgfx.Pt(local.Min.X, local.Min.Y))
	tr := m.Apply(mapgfx.Pt(local.Max.X, local.Min.Y))
	br := m.Apply(mapgfx.Pt(local.Max.X, local.Max.Y))
	bl := m.Apply(mapgfx.Pt(local.Min.X, local.Max.Y))

	c := r.Tint.Premultiply()
	cr, cg, cb, ca := float32(c.R), float32(c.G), float32(c.B), float32(c.A)

	b.items = append(b.items, item{
		z:     r.Z,
		page:  region.Page,
		blend: r.Blend,
		quad: [QuadVertices]Vertex{
			{X: float32(tl.X), Y: float32(tl.Y), U: u0, V: v0, R: cr, G: cg, B: cb, A: ca},
			{X: float32(tr.X), Y: float32(tr.Y), U: u1, V: v0, R: cr, G: cg, B: cb, A: ca},
			{X: float32(br.X), Y: float32(br.Y), U: u1, V: v1, R: cr, G: cg, B: cb, A: ca},
			{X: float32(bl.X), Y: float32(bl.Y), U: u0, V: v1, R: cr, G: cg, B: cb, A: ca},
		},
	})
	return nil
}
