// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import "testing"

func TestPath_Hash_Deterministic(t *testing.T) {
	build := func() *Path {
		return NewPath().MoveTo(1, 2).LineTo(30, 4).QuadTo(10, 10, 5, 40).Close()
	}
	if build().Hash() != build().Hash() {
		t.Error("identical paths hash differently")
	}
}

func TestPath_Hash_DistinguishesGeometry(t *testing.T) {
	a := NewPath().Rect(0, 0, 10, 10)
	b := NewPath().Rect(0, 0, 10, 11)
	if a.Hash() == b.Hash() {
		t.Error("different rectangles share a hash")
	}

	// Same points through different verbs must differ too.
	line := NewPath().MoveTo(0, 0).LineTo(10, 10)
	move := NewPath().MoveTo(0, 0).MoveTo(10, 10)
	if line.Hash() == move.Hash() {
		t.Error("line and move with equal points share a hash")
	}
}

func TestPath_Hash_QuantizesSubpixelNoise(t *testing.T) {
	a := NewPath().MoveTo(1, 1).LineTo(5, 5)
	b := NewPath().MoveTo(1.001, 1).LineTo(5, 4.999)
	if a.Hash() != b.Hash() {
		t.Error("sub-1/64-pixel difference changed the hash")
	}
}

func TestPath_Bounds(t *testing.T) {
	p := NewPath().MoveTo(2, 3).LineTo(10, 1).LineTo(4, 8).Close()
	b := p.Bounds()
	if b.Min.X != 2 || b.Min.Y != 1 || b.Max.X != 10 || b.Max.Y != 8 {
		t.Errorf("Bounds = %+v, want (2,1)-(10,8)", b)
	}

	if !NewPath().Bounds().IsEmpty() {
		t.Error("empty path has non-empty bounds")
	}
}

func TestPath_CircleIsClosedAndBounded(t *testing.T) {
	p := NewPath().Circle(50, 50, 20)
	b := p.Bounds()
	// Control points of the cubic arcs stay within the kappa hull.
	if b.Min.X < 29 || b.Max.X > 71 || b.Min.Y < 29 || b.Max.Y > 71 {
		t.Errorf("circle bounds = %+v, want within (29,29)-(71,71)", b)
	}
	if p.IsEmpty() {
		t.Error("circle path is empty")
	}
}

func TestFlatten_LinesPassThrough(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10)
	polys := flatten(p)
	if len(polys) != 1 {
		t.Fatalf("len(polys) = %d, want 1", len(polys))
	}
	if len(polys[0]) != 3 {
		t.Errorf("polyline length = %d, want 3", len(polys[0]))
	}
}

func TestFlatten_CurveWithinTolerance(t *testing.T) {
	p := NewPath().MoveTo(0, 0).QuadTo(50, 100, 100, 0)
	polys := flatten(p)
	if len(polys) != 1 {
		t.Fatalf("len(polys) = %d, want 1", len(polys))
	}
	line := polys[0]
	if len(line) < 8 {
		t.Fatalf("curve flattened to %d points, want a finer polyline", len(line))
	}

	// Every flattened vertex must lie on or inside the control hull.
	for _, pt := range line {
		if pt.Y < 0 || pt.Y > 100 || pt.X < 0 || pt.X > 100 {
			t.Errorf("flattened point %+v outside control hull", pt)
		}
	}
}

func TestFlatten_MultipleSubpaths(t *testing.T) {
	p := NewPath().Rect(0, 0, 4, 4).Rect(10, 10, 4, 4)
	polys := flatten(p)
	if len(polys) != 2 {
		t.Fatalf("len(polys) = %d, want 2", len(polys))
	}
}
