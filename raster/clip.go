package raster

import "github.com/gogpu/gg"

type rect struct {
	x0, y0, x1, y1 float64
}

// clipSegment clips the segment a-b to r using the Liang-Barsky algorithm.
// It reports false when no part of the segment lies inside r.
func clipSegment(a, b gg.Point, r rect) (gg.Point, gg.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, a.X - r.x0},
		{dx, r.x1 - a.X},
		{-dy, a.Y - r.y0},
		{dy, r.y1 - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}

	ca := gg.Pt(a.X+t0*dx, a.Y+t0*dy)
	cb := gg.Pt(a.X+t1*dx, a.Y+t1*dy)
	return ca, cb, true
}
