// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import (
	"math"

	"github.com/gogpu/mapgfx"
)

// flattenTolerance is the maximum distance in pixels between a curve and
// its polyline approximation.
const flattenTolerance = 0.25

// flatten converts the path into one polyline per subpath. Subpaths are
// returned open; fill rasterization closes them implicitly.
func flatten(p *Path) [][]mapgfx.Point {
	var polys [][]mapgfx.Point
	var cur []mapgfx.Point
	var pos mapgfx.Point

	pi := 0
	for _, v := range p.verbs {
		pts := p.points[pi : pi+pointsPerVerb[v]]
		pi += pointsPerVerb[v]

		switch v {
		case verbMove:
			if len(cur) > 1 {
				polys = append(polys, cur)
			}
			pos = pts[0]
			cur = []mapgfx.Point{pos}
		case verbLine:
			cur = append(cur, pts[0])
			pos = pts[0]
		case verbQuad:
			cur = flattenQuad(cur, pos, pts[0], pts[1])
			pos = pts[1]
		case verbCubic:
			cur = flattenCubic(cur, pos, pts[0], pts[1], pts[2])
			pos = pts[2]
		case verbClose:
			if len(cur) > 1 {
				polys = append(polys, cur)
			}
			if len(cur) > 0 {
				pos = cur[0]
				cur = []mapgfx.Point{pos}
			}
		}
	}
	if len(cur) > 1 {
		polys = append(polys, cur)
	}
	return polys
}

// flattenQuad appends a polyline approximation of a quadratic Bezier,
// subdividing until the control point is within tolerance of the chord.
func flattenQuad(dst []mapgfx.Point, p0, c, p1 mapgfx.Point) []mapgfx.Point {
	if quadFlat(p0, c, p1) {
		return append(dst, p1)
	}
	// de Casteljau split at t = 0.5.
	ab := midpoint(p0, c)
	bc := midpoint(c, p1)
	mid := midpoint(ab, bc)
	dst = flattenQuad(dst, p0, ab, mid)
	return flattenQuad(dst, mid, bc, p1)
}

// flattenCubic appends a polyline approximation of a cubic Bezier.
func flattenCubic(dst []mapgfx.Point, p0, c1, c2, p1 mapgfx.Point) []mapgfx.Point {
	if cubicFlat(p0, c1, c2, p1) {
		return append(dst, p1)
	}
	ab := midpoint(p0, c1)
	bc := midpoint(c1, c2)
	cd := midpoint(c2, p1)
	abc := midpoint(ab, bc)
	bcd := midpoint(bc, cd)
	mid := midpoint(abc, bcd)
	dst = flattenCubic(dst, p0, ab, abc, mid)
	return flattenCubic(dst, mid, bcd, cd, p1)
}

func midpoint(a, b mapgfx.Point) mapgfx.Point {
	return mapgfx.Pt((a.X+b.X)/2, (a.Y+b.Y)/2)
}

// quadFlat reports whether the control point lies within tolerance of the
// chord p0-p1.
func quadFlat(p0, c, p1 mapgfx.Point) bool {
	return distToSegment(c, p0, p1) <= flattenTolerance
}

// cubicFlat reports whether both control points lie within tolerance of
// the chord p0-p1.
func cubicFlat(p0, c1, c2, p1 mapgfx.Point) bool {
	return distToSegment(c1, p0, p1) <= flattenTolerance &&
		distToSegment(c2, p0, p1) <= flattenTolerance
}

// distToSegment returns the distance from p to the segment a-b.
func distToSegment(p, a, b mapgfx.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
