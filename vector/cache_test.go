// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import (
	"testing"

	"github.com/gogpu/mapgfx/atlas"
)

func newTestShapeCache(t *testing.T, maxEntries int) (*ShapeCache, *atlas.Allocator) {
	t.Helper()
	alloc := atlas.NewAllocator(atlas.DefaultConfig())
	return NewShapeCache(alloc, ShapeCacheConfig{MaxEntries: maxEntries}), alloc
}

func TestShapeCache_FillRasterizesOnce(t *testing.T) {
	c, alloc := newTestShapeCache(t, 16)
	p := NewPath().Rect(3, 5, 20, 10)

	s1, err := c.Fill(p, FillNonZero)
	if err != nil {
		t.Fatal(err)
	}
	if !s1.HasInk() {
		t.Fatal("filled rect has no ink")
	}
	if s1.OriginX != 3 || s1.OriginY != 5 {
		t.Errorf("origin = (%v, %v), want (3, 5)", s1.OriginX, s1.OriginY)
	}
	if s1.Width != 20 || s1.Height != 10 {
		t.Errorf("size = %dx%d, want 20x10", s1.Width, s1.Height)
	}

	// An equal path built separately hits the same entry.
	s2, err := c.Fill(NewPath().Rect(3, 5, 20, 10), FillNonZero)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Errorf("second fill = %+v, want %+v", s2, s1)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	if _, ok := alloc.Region(s1.Region); !ok {
		t.Error("cached shape region missing from atlas")
	}
}

func TestShapeCache_StrokeAndFillAreSeparate(t *testing.T) {
	c, _ := newTestShapeCache(t, 16)
	p := NewPath().Rect(0, 0, 16, 16)

	fill, err := c.Fill(p, FillNonZero)
	if err != nil {
		t.Fatal(err)
	}
	stroke, err := c.Stroke(p, 2)
	if err != nil {
		t.Fatal(err)
	}
	if fill.Region == stroke.Region {
		t.Error("fill and stroke share an atlas region")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestShapeCache_FillRulesAreSeparate(t *testing.T) {
	c, _ := newTestShapeCache(t, 16)
	p := NewPath().Rect(0, 0, 16, 16).Rect(4, 4, 8, 8)

	nonZero, err := c.Fill(p, FillNonZero)
	if err != nil {
		t.Fatal(err)
	}
	evenOdd, err := c.Fill(p, FillEvenOdd)
	if err != nil {
		t.Fatal(err)
	}
	if nonZero.Region == evenOdd.Region {
		t.Error("different fill rules share an atlas region")
	}
}

func TestShapeCache_StrokeWidthsAreSeparate(t *testing.T) {
	c, _ := newTestShapeCache(t, 16)
	p := NewPath().MoveTo(0, 0).LineTo(20, 0)

	thin, err := c.Stroke(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	thick, err := c.Stroke(p, 4)
	if err != nil {
		t.Fatal(err)
	}
	if thin.Region == thick.Region {
		t.Error("different stroke widths share an atlas region")
	}
	if thick.Height <= thin.Height {
		t.Errorf("thick stroke height = %d, want > %d", thick.Height, thin.Height)
	}
}

func TestShapeCache_EmptyPath(t *testing.T) {
	c, _ := newTestShapeCache(t, 16)

	s, err := c.Fill(NewPath(), FillNonZero)
	if err != nil {
		t.Fatal(err)
	}
	if s.HasInk() {
		t.Error("empty path produced ink")
	}
}

func TestShapeCache_EvictionReleasesRegions(t *testing.T) {
	c, alloc := newTestShapeCache(t, 2)

	first, err := c.Fill(NewPath().Rect(0, 0, 8, 8), FillNonZero)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 2; i++ {
		if _, err := c.Fill(NewPath().Rect(0, 0, 8+float64(i), 8), FillNonZero); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	alloc.Trim(0)
	if _, ok := alloc.Region(first.Region); ok {
		t.Error("evicted shape region still resident after trim")
	}
}
