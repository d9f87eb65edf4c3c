// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/mapgfx"
)

// verb is a path segment opcode.
type verb uint8

const (
	verbMove verb = iota
	verbLine
	verbQuad
	verbCubic
	verbClose
)

// pointsPerVerb is the number of points each verb consumes.
var pointsPerVerb = [...]int{
	verbMove:  1,
	verbLine:  1,
	verbQuad:  2,
	verbCubic: 3,
	verbClose: 0,
}

// Path is a vector path built from move/line/curve segments. The zero
// value is an empty path ready for use.
type Path struct {
	verbs   []verb
	points  []mapgfx.Point
	start   mapgfx.Point
	current mapgfx.Point
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]verb, 0, 8),
		points: make([]mapgfx.Point, 0, 16),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) *Path {
	pt := mapgfx.Pt(x, y)
	p.verbs = append(p.verbs, verbMove)
	p.points = append(p.points, pt)
	p.start = pt
	p.current = pt
	return p
}

// LineTo draws a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	pt := mapgfx.Pt(x, y)
	p.verbs = append(p.verbs, verbLine)
	p.points = append(p.points, pt)
	p.current = pt
	return p
}

// QuadTo draws a quadratic Bezier curve through the control point
// (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	p.verbs = append(p.verbs, verbQuad)
	p.points = append(p.points, mapgfx.Pt(cx, cy), mapgfx.Pt(x, y))
	p.current = mapgfx.Pt(x, y)
	return p
}

// CubicTo draws a cubic Bezier curve through two control points to (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	p.verbs = append(p.verbs, verbCubic)
	p.points = append(p.points, mapgfx.Pt(c1x, c1y), mapgfx.Pt(c2x, c2y), mapgfx.Pt(x, y))
	p.current = mapgfx.Pt(x, y)
	return p
}

// Close closes the current subpath back to its starting point.
func (p *Path) Close() *Path {
	p.verbs = append(p.verbs, verbClose)
	p.current = p.start
	return p
}

// Rect appends an axis-aligned rectangle as a closed subpath.
func (p *Path) Rect(x, y, w, h float64) *Path {
	return p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// Circle appends a circle approximated by four cubic arcs.
func (p *Path) Circle(cx, cy, r float64) *Path {
	// Magic kappa for cubic circle approximation.
	const k = 0.5522847498307936
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+k*r, cx+k*r, cy+r, cx, cy+r)
	p.CubicTo(cx-k*r, cy+r, cx-r, cy+k*r, cx-r, cy)
	p.CubicTo(cx-r, cy-k*r, cx-k*r, cy-r, cx, cy-r)
	p.CubicTo(cx+k*r, cy-r, cx+r, cy-k*r, cx+r, cy)
	return p.Close()
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.verbs) == 0
}

// Bounds returns the control-point bounding box of the path. Curves stay
// inside their control hulls, so this box always contains the drawn shape.
func (p *Path) Bounds() mapgfx.Rect {
	if len(p.points) == 0 {
		return mapgfx.Rect{}
	}
	b := mapgfx.EmptyRect()
	for _, pt := range p.points {
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
	return b
}

// Hash returns the canonical geometry hash of the path. Coordinates are
// quantized to 1/64 pixel before hashing, so paths that differ only by
// sub-quantum noise share a hash. Styles (fill rule, stroke width) are
// not part of the hash; caches layer those into their keys.
func (p *Path) Hash() uint64 {
	var buf [8]byte
	h := mapgfx.HashBytes(0, nil)
	for _, v := range p.verbs {
		buf[0] = byte(v)
		h = mapgfx.HashBytes(h, buf[:1])
	}
	for _, pt := range p.points {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(quantize(pt.X)))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(quantize(pt.Y)))
		h = mapgfx.HashBytes(h, buf[:8])
	}
	return h
}

// quantize converts a coordinate to 26.6 fixed point.
func quantize(v float64) int32 {
	return int32(math.Round(v * 64))
}
