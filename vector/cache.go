// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import (
	"log/slog"
	"math"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/internal/cache"
)

// shapeKind distinguishes fill and stroke entries of the same geometry.
type shapeKind uint8

const (
	kindFill shapeKind = iota
	kindStroke
)

// shapeKey identifies one rasterized shape. Fill and stroke renditions of
// the same path have different keys, as do different fill rules and
// stroke widths.
type shapeKey struct {
	geometry uint64
	kind     shapeKind
	rule     FillRule
	strokeW  int16 // stroke width in quarter pixels
}

// CachedShape is a rasterized path resident in the atlas. OriginX and
// OriginY are the path-space coordinates of the region's top-left texel,
// so callers can place the bitmap back where the geometry was.
type CachedShape struct {
	Region  atlas.Handle
	Width   int
	Height  int
	OriginX float64
	OriginY float64
}

// HasInk reports whether the shape produced any coverage.
func (s CachedShape) HasInk() bool { return s.Region != atlas.InvalidHandle }

// ShapeCacheConfig configures a ShapeCache.
type ShapeCacheConfig struct {
	// MaxEntries bounds the number of resident shapes. Default 512.
	MaxEntries int
}

// DefaultShapeCacheConfig returns the configuration used by the engine.
func DefaultShapeCacheConfig() ShapeCacheConfig {
	return ShapeCacheConfig{MaxEntries: 512}
}

// ShapeCache rasterizes vector paths into the atlas at most once per
// (geometry, style) pair, with LRU eviction releasing atlas regions.
//
// ShapeCache is not safe for concurrent use; it belongs to the render
// thread, like the atlas it feeds.
type ShapeCache struct {
	alloc   *atlas.Allocator
	entries *cache.Cache[shapeKey, CachedShape]
}

// NewShapeCache creates a shape cache backed by the given atlas allocator.
func NewShapeCache(alloc *atlas.Allocator, cfg ShapeCacheConfig) *ShapeCache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultShapeCacheConfig().MaxEntries
	}
	c := &ShapeCache{alloc: alloc}
	c.entries = cache.New(cfg.MaxEntries, func(_ shapeKey, s CachedShape) {
		if s.HasInk() {
			if err := alloc.Release(s.Region); err != nil {
				mapgfx.Logger().Warn("vector: release evicted shape", slog.String("error", err.Error()))
			}
		}
	})
	return c
}

// Fill returns the filled raster of the path under the given rule,
// rasterizing into the atlas on first use.
func (c *ShapeCache) Fill(p *Path, rule FillRule) (CachedShape, error) {
	key := shapeKey{geometry: p.Hash(), kind: kindFill, rule: rule}
	if s, ok := c.entries.Get(key); ok {
		return s, nil
	}
	s, err := c.insert(key, flatten(p))
	return s, err
}

// Stroke returns the stroked raster of the path at the given width.
// Stroke geometry always fills non-zero.
func (c *ShapeCache) Stroke(p *Path, width float64) (CachedShape, error) {
	key := shapeKey{
		geometry: p.Hash(),
		kind:     kindStroke,
		strokeW:  int16(width*4 + 0.5),
	}
	if s, ok := c.entries.Get(key); ok {
		return s, nil
	}
	s, err := c.insertWithRule(key, strokePolygons(p, width), FillNonZero)
	return s, err
}

func (c *ShapeCache) insert(key shapeKey, polys [][]mapgfx.Point) (CachedShape, error) {
	return c.insertWithRule(key, polys, key.rule)
}

func (c *ShapeCache) insertWithRule(key shapeKey, polys [][]mapgfx.Point, rule FillRule) (CachedShape, error) {
	bounds := polyBounds(polys)
	if bounds.IsEmpty() {
		s := CachedShape{}
		c.entries.Set(key, s)
		return s, nil
	}

	originX := math.Floor(bounds.Min.X)
	originY := math.Floor(bounds.Min.Y)
	w := int(math.Ceil(bounds.Max.X) - originX)
	h := int(math.Ceil(bounds.Max.Y) - originY)
	if w <= 0 || h <= 0 {
		s := CachedShape{}
		c.entries.Set(key, s)
		return s, nil
	}

	// Shift geometry into pixmap space.
	shifted := make([][]mapgfx.Point, len(polys))
	for i, poly := range polys {
		sp := make([]mapgfx.Point, len(poly))
		for j, pt := range poly {
			sp[j] = mapgfx.Pt(pt.X-originX, pt.Y-originY)
		}
		shifted[i] = sp
	}

	pixmap := rasterize(shifted, w, h, rule)
	handle, err := c.alloc.Allocate(pixmap)
	if err != nil {
		return CachedShape{}, err
	}
	s := CachedShape{
		Region:  handle,
		Width:   w,
		Height:  h,
		OriginX: originX,
		OriginY: originY,
	}
	c.entries.Set(key, s)
	return s, nil
}

// Len returns the number of resident shapes.
func (c *ShapeCache) Len() int { return c.entries.Len() }

// Clear drops every cached shape and releases their atlas regions.
func (c *ShapeCache) Clear() { c.entries.Clear() }

func polyBounds(polys [][]mapgfx.Point) mapgfx.Rect {
	b := mapgfx.EmptyRect()
	found := false
	for _, poly := range polys {
		for _, pt := range poly {
			found = true
			if pt.X < b.Min.X {
				b.Min.X = pt.X
			}
			if pt.Y < b.Min.Y {
				b.Min.Y = pt.Y
			}
			if pt.X > b.Max.X {
				b.Max.X = pt.X
			}
			if pt.Y > b.Max.Y {
				b.Max.Y = pt.Y
			}
		}
	}
	if !found {
		return mapgfx.Rect{}
	}
	return b
}
