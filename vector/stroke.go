// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import (
	"math"

	"github.com/gogpu/mapgfx"
)

// strokePolygons expands the path's flattened polylines into fill
// geometry for a stroke of the given width: one quad per segment plus a
// small disc at each joint so corners have no cracks. Quads are emitted
// with a consistent orientation relative to their segment, so overlaps
// accumulate winding of the same sign and fill correctly under the
// non-zero rule.
func strokePolygons(p *Path, width float64) [][]mapgfx.Point {
	half := width / 2
	if half <= 0 {
		return nil
	}

	var polys [][]mapgfx.Point
	for _, line := range flattenForStroke(p) {
		for i := 0; i+1 < len(line); i++ {
			a, b := line[i], line[i+1]
			dx := b.X - a.X
			dy := b.Y - a.Y
			length := math.Hypot(dx, dy)
			if length == 0 {
				continue
			}
			nx := -dy / length * half
			ny := dx / length * half
			polys = append(polys, []mapgfx.Point{
				{X: a.X + nx, Y: a.Y + ny},
				{X: b.X + nx, Y: b.Y + ny},
				{X: b.X - nx, Y: b.Y - ny},
				{X: a.X - nx, Y: a.Y - ny},
			})
			if i+2 < len(line) {
				polys = append(polys, jointDisc(b, half))
			}
		}
		// Closed polylines also need a disc where the loop meets itself.
		if len(line) > 2 && line[0] == line[len(line)-1] {
			polys = append(polys, jointDisc(line[0], half))
		}
	}
	return polys
}

// flattenForStroke flattens the path keeping closed subpaths explicitly
// closed, so the closing segment gets stroked too.
func flattenForStroke(p *Path) [][]mapgfx.Point {
	polys := flatten(p)

	// flatten drops the explicit closing segment; re-add it for subpaths
	// that were closed in the source path.
	closed := closedSubpaths(p)
	for i := range polys {
		if i < len(closed) && closed[i] && len(polys[i]) > 1 {
			first := polys[i][0]
			last := polys[i][len(polys[i])-1]
			if first != last {
				polys[i] = append(polys[i], first)
			}
		}
	}
	return polys
}

// closedSubpaths returns, per emitted subpath, whether it ended in Close.
func closedSubpaths(p *Path) []bool {
	var closed []bool
	segments := 0
	for _, v := range p.verbs {
		switch v {
		case verbMove:
			if segments > 0 {
				closed = append(closed, false)
			}
			segments = 0
		case verbLine, verbQuad, verbCubic:
			segments++
		case verbClose:
			if segments > 0 {
				closed = append(closed, true)
			}
			segments = 0
		}
	}
	if segments > 0 {
		closed = append(closed, false)
	}
	return closed
}

// jointDisc approximates a filled circle at a stroke joint with an
// octagon. The winding direction matches the segment quads, so
// overlapping joint and segment geometry accumulates instead of
// canceling under the non-zero rule.
func jointDisc(c mapgfx.Point, r float64) []mapgfx.Point {
	const sides = 8
	pts := make([]mapgfx.Point, sides)
	for i := 0; i < sides; i++ {
		a := -2 * math.Pi * float64(i) / sides
		pts[i] = mapgfx.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}
