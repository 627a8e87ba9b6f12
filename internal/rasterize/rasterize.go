// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package rasterize turns polygons, lines and text into pixel coverage
// for the pixel-based backends. Coordinates follow geom: inclusive
// corners, Y up.
package rasterize

import (
	"image"

	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/style"
	"golang.org/x/image/vector"
)

// Plotter receives every covered pixel.
type Plotter func(x, y int)

// Polygon plots the pixels whose centers lie inside the closed polygon
// through pts, limited to clip. Vertices are pixel centers, so a polygon
// along pixel edges covers them.
func Polygon(pts []geom.Point, clip geom.Rect, plot Plotter) {
	fill(pts, clip, 0.5, plot)
}

// Area is Polygon for real-valued coordinates: vertices lie on pixel
// corners, so the square from (0,0) to (10,10) covers 100 pixels.
func Area(pts []geom.Point, clip geom.Rect, plot Plotter) {
	fill(pts, clip, 0, plot)
}

func fill(pts []geom.Point, clip geom.Rect, offset float32, plot Plotter) {
	if len(pts) < 3 {
		return
	}
	area := bounds(pts).Intersect(clip)
	if area.Empty() {
		return
	}
	w, h := area.Width()+1, area.Height()+1

	// The canvas is Y down with row 0 at area.YTop.
	at := func(p geom.Point) (float32, float32) {
		return float32(p.X-area.XBot) + offset, float32(area.YTop-p.Y) + 1 - offset
	}
	z := vector.NewRasterizer(w, h)
	z.MoveTo(at(pts[0]))
	for _, p := range pts[1:] {
		z.LineTo(at(p))
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	plotMask(mask, area.XBot, area.YTop, plot)
}

// Line plots the pixels of seg inside clip. Pixel i along the line is
// drawn when bit i%16 of pattern is set; 0xffff draws a solid line.
func Line(seg geom.Segment, pattern uint16, clip geom.Rect, plot Plotter) {
	x0, y0, x1, y1 := seg.P0.X, seg.P0.Y, seg.P1.X, seg.P1.Y
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy

	for i := 0; ; i++ {
		if pattern&(1<<(i%16)) != 0 && geom.Pt(x0, y0).In(clip) {
			plot(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Stipple plots the pixels of r inside clip selected by an 8x8 pattern,
// anchored at the screen origin.
func Stipple(r geom.Rect, pattern style.Pattern, clip geom.Rect, plot Plotter) {
	r = r.Intersect(clip)
	if r.Empty() {
		return
	}
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			if pattern.Set(x&7, y&7) {
				plot(x, y)
			}
		}
	}
}

func plotMask(mask *image.Alpha, xBot, yTop int, plot Plotter) {
	b := mask.Bounds()
	for row := b.Min.Y; row < b.Max.Y; row++ {
		for col := b.Min.X; col < b.Max.X; col++ {
			if mask.AlphaAt(col, row).A >= 0x80 {
				plot(xBot+col, yTop-row)
			}
		}
	}
}

func bounds(pts []geom.Point) geom.Rect {
	r := geom.R(pts[0].X, pts[0].Y, pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r = r.Union(geom.R(p.X, p.Y, p.X, p.Y))
	}
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
