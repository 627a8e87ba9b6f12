// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package clip

import (
	"math"

	"github.com/gogpu/gr/geom"
)

// Line clips seg against the inclusive window w using the Liang-Barsky
// parametric test. Endpoints inside w are returned unchanged; replaced
// endpoints lie on the boundary of w.
func Line(w geom.Rect, seg geom.Segment) (geom.Segment, bool) {
	if w.Empty() {
		return geom.Segment{}, false
	}

	x0, y0 := float64(seg.P0.X), float64(seg.P0.Y)
	dx := float64(seg.P1.X) - x0
	dy := float64(seg.P1.Y) - y0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{
		x0 - float64(w.XBot),
		float64(w.XTop) - x0,
		y0 - float64(w.YBot),
		float64(w.YTop) - y0,
	}

	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			// Parallel to this edge: either fully outside or unconstrained.
			if q[i] < 0 {
				return geom.Segment{}, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return geom.Segment{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return geom.Segment{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	out := seg
	if t0 > 0 {
		out.P0 = at(w, x0, y0, dx, dy, t0)
	}
	if t1 < 1 {
		out.P1 = at(w, x0, y0, dx, dy, t1)
	}
	return out, true
}

// at evaluates the segment at parameter t, rounded to the pixel grid and
// kept inside w.
func at(w geom.Rect, x0, y0, dx, dy, t float64) geom.Point {
	x := int(math.Round(x0 + t*dx))
	y := int(math.Round(y0 + t*dy))
	return geom.Point{
		X: min(max(x, w.XBot), w.XTop),
		Y: min(max(y, w.YBot), w.YTop),
	}
}
