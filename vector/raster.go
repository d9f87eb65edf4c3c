// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vector

import (
	"math"
	"sort"

	"github.com/gogpu/mapgfx"
)

// FillRule selects how self-intersecting geometry resolves inside/outside.
type FillRule uint8

const (
	// FillNonZero fills where the winding number is non-zero.
	FillNonZero FillRule = iota

	// FillEvenOdd fills where an odd number of edges is crossed.
	FillEvenOdd
)

// edge is a non-horizontal line segment normalized to run downward, with
// winding recording the original direction.
type edge struct {
	yMin, yMax float64
	xAtYMin    float64
	dxdy       float64
	winding    int
}

func (e *edge) xAt(y float64) float64 {
	return e.xAtYMin + (y-e.yMin)*e.dxdy
}

// buildEdges converts polygons (implicitly closed) into an edge list.
func buildEdges(polys [][]mapgfx.Point) []edge {
	var edges []edge
	for _, poly := range polys {
		n := len(poly)
		for i := 0; i < n; i++ {
			a := poly[i]
			b := poly[(i+1)%n]
			if e, ok := newEdge(a.X, a.Y, b.X, b.Y); ok {
				edges = append(edges, e)
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].yMin < edges[j].yMin })
	return edges
}

func newEdge(x0, y0, x1, y1 float64) (edge, bool) {
	winding := 1
	if y0 > y1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
		winding = -1
	}
	dy := y1 - y0
	if dy < 1e-9 {
		return edge{}, false
	}
	return edge{
		yMin:    y0,
		yMax:    y1,
		xAtYMin: x0,
		dxdy:    (x1 - x0) / dy,
		winding: winding,
	}, true
}

// subsamples is the number of scanlines sampled per pixel row. Horizontal
// coverage is exact per span, so 4 vertical subsamples give 1/4 pixel
// vertical antialiasing.
const subsamples = 4

// rasterize scan-converts the polygons into a coverage pixmap of the
// given size. Coordinates are in pixmap space: callers translate geometry
// so the shape's bounding box starts at the origin.
func rasterize(polys [][]mapgfx.Point, width, height int, rule FillRule) *mapgfx.Pixmap {
	out := mapgfx.NewPixmap(width, height)
	edges := buildEdges(polys)
	if len(edges) == 0 {
		return out
	}

	coverage := make([]float64, width)
	type crossing struct {
		x       float64
		winding int
	}
	var crossings []crossing

	for py := 0; py < height; py++ {
		for i := range coverage {
			coverage[i] = 0
		}
		for s := 0; s < subsamples; s++ {
			y := float64(py) + (float64(s)+0.5)/subsamples

			crossings = crossings[:0]
			for i := range edges {
				e := &edges[i]
				if y >= e.yMin && y < e.yMax {
					crossings = append(crossings, crossing{x: e.xAt(y), winding: e.winding})
				}
			}
			if len(crossings) == 0 {
				continue
			}
			sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

			// Walk crossings left to right accumulating winding; emit
			// covered spans per the fill rule.
			wind := 0
			spanStart := 0.0
			inside := false
			for _, c := range crossings {
				wasInside := inside
				wind += c.winding
				switch rule {
				case FillEvenOdd:
					inside = wind%2 != 0
				default:
					inside = wind != 0
				}
				if !wasInside && inside {
					spanStart = c.x
				} else if wasInside && !inside {
					addSpan(coverage, spanStart, c.x, 1.0/subsamples)
				}
			}
		}
		for px := 0; px < width; px++ {
			c := coverage[px]
			if c <= 0 {
				continue
			}
			if c > 1 {
				c = 1
			}
			out.SetPixel(px, py, mapgfx.RGBA{R: c, G: c, B: c, A: c})
		}
	}
	return out
}

// addSpan accumulates weighted horizontal coverage for the span [x0, x1)
// with exact fractional coverage at both ends.
func addSpan(coverage []float64, x0, x1, weight float64) {
	if x1 <= x0 {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > float64(len(coverage)) {
		x1 = float64(len(coverage))
	}
	if x1 <= x0 {
		return
	}

	first := int(math.Floor(x0))
	last := int(math.Ceil(x1)) - 1
	for px := first; px <= last && px < len(coverage); px++ {
		l := math.Max(x0, float64(px))
		r := math.Min(x1, float64(px+1))
		if r > l {
			coverage[px] += (r - l) * weight
		}
	}
}
