package atlas

// Rect is an integer rectangle in texel space. X and Y are the top-left
// corner, W and H the extent.
type Rect struct {
	X, Y, W, H int
}

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// contains reports whether o lies entirely inside r.
func (r Rect) contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// overlaps reports whether r and o share any texel.
func (r Rect) overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// packer maintains the free-rectangle structure of one page using a
// guillotine scheme: a placement splits its free rectangle into two
// disjoint children, a release returns the rectangle to the free list and
// merges neighbors that line up exactly.
type packer struct {
	width  int
	height int
	free   []Rect
	used   int // total area of live placements
}

// newPacker creates a packer covering width x height with one free
// rectangle spanning the whole page.
func newPacker(width, height int) *packer {
	return &packer{
		width:  width,
		height: height,
		free:   []Rect{{X: 0, Y: 0, W: width, H: height}},
	}
}

// allocate finds space for a w x h rectangle using best-area-fit: the free
// rectangle with the smallest area that still fits wins, which keeps large
// free rectangles intact for large requests. Returns false if nothing fits.
func (p *packer) allocate(w, h int) (Rect, bool) {
	if w <= 0 || h <= 0 || w > p.width || h > p.height {
		return Rect{}, false
	}

	best := -1
	bestArea := int(^uint(0) >> 1)
	for i, f := range p.free {
		if f.W >= w && f.H >= h && f.Area() < bestArea {
			best = i
			bestArea = f.Area()
		}
	}
	if best < 0 {
		return Rect{}, false
	}

	f := p.free[best]
	placed := Rect{X: f.X, Y: f.Y, W: w, H: h}

	// Guillotine split along the shorter leftover axis, so the larger
	// child stays as square as possible.
	rightW := f.W - w
	bottomH := f.H - h
	p.free = append(p.free[:best], p.free[best+1:]...)
	if rightW < bottomH {
		// Split horizontally: right sliver beside the placement, full
		// width strip below.
		if rightW > 0 {
			p.free = append(p.free, Rect{X: f.X + w, Y: f.Y, W: rightW, H: h})
		}
		if bottomH > 0 {
			p.free = append(p.free, Rect{X: f.X, Y: f.Y + h, W: f.W, H: bottomH})
		}
	} else {
		// Split vertically: bottom sliver below the placement, full
		// height strip to the right.
		if bottomH > 0 {
			p.free = append(p.free, Rect{X: f.X, Y: f.Y + h, W: w, H: bottomH})
		}
		if rightW > 0 {
			p.free = append(p.free, Rect{X: f.X + w, Y: f.Y, W: rightW, H: f.H})
		}
	}

	p.used += placed.Area()
	return placed, true
}

// release returns a previously allocated rectangle to the free list and
// coalesces neighbors. The caller must pass the exact rectangle returned
// by allocate.
func (p *packer) release(r Rect) {
	p.used -= r.Area()
	p.free = append(p.free, r)
	p.coalesce()
}

// coalesce repeatedly merges pairs of free rectangles that share a full
// edge until no merge applies. Quadratic in the free-list length, which
// stays short in practice because merges collapse it.
func (p *packer) coalesce() {
	merged := true
	for merged {
		merged = false
		for i := 0; i < len(p.free) && !merged; i++ {
			for j := i + 1; j < len(p.free); j++ {
				if m, ok := mergeRects(p.free[i], p.free[j]); ok {
					p.free[i] = m
					p.free = append(p.free[:j], p.free[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
}

// mergeRects merges two rectangles that share a complete edge.
func mergeRects(a, b Rect) (Rect, bool) {
	// Same row, adjacent horizontally.
	if a.Y == b.Y && a.H == b.H {
		if a.X+a.W == b.X {
			return Rect{X: a.X, Y: a.Y, W: a.W + b.W, H: a.H}, true
		}
		if b.X+b.W == a.X {
			return Rect{X: b.X, Y: b.Y, W: a.W + b.W, H: a.H}, true
		}
	}
	// Same column, adjacent vertically.
	if a.X == b.X && a.W == b.W {
		if a.Y+a.H == b.Y {
			return Rect{X: a.X, Y: a.Y, W: a.W, H: a.H + b.H}, true
		}
		if b.Y+b.H == a.Y {
			return Rect{X: b.X, Y: b.Y, W: a.W, H: a.H + b.H}, true
		}
	}
	return Rect{}, false
}

// utilization returns the fraction of page area covered by live
// placements, in [0, 1].
func (p *packer) utilization() float64 {
	total := p.width * p.height
	if total == 0 {
		return 0
	}
	return float64(p.used) / float64(total)
}

// fragmentation measures how splintered the free space is: 1 minus the
// share of free area held by the single largest free rectangle. A page
// with one contiguous free block scores 0 regardless of occupancy.
func (p *packer) fragmentation() float64 {
	freeArea := 0
	largest := 0
	for _, f := range p.free {
		a := f.Area()
		freeArea += a
		if a > largest {
			largest = a
		}
	}
	if freeArea == 0 {
		return 0
	}
	return 1 - float64(largest)/float64(freeArea)
}
