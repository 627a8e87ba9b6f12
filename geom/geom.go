// Package geom provides the integer screen geometry shared by the gr
// dispatch layer and its backends.
//
// Rectangles use inclusive corners: a Rect covers every point whose
// coordinates lie between its bottom-left and top-right corners, edges
// included. Whether the top and right edges also cover a whole pixel is a
// property of the active backend (see gr.Session.PixelCorrect).
package geom

import "fmt"

// Point is a position in screen coordinates.
type Point struct {
	X, Y int
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// In reports whether p lies inside r, edges included.
func (p Point) In(r Rect) bool {
	return p.X >= r.XBot && p.X <= r.XTop && p.Y >= r.YBot && p.Y <= r.YTop
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle with inclusive corners.
// A Rect with XTop < XBot or YTop < YBot is empty.
type Rect struct {
	XBot, YBot int // bottom-left corner
	XTop, YTop int // top-right corner
}

// R creates a Rect from two opposite corners in any order.
func R(x0, y0, x1, y1 int) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{XBot: x0, YBot: y0, XTop: x1, YTop: y1}
}

// Empty reports whether the rectangle contains no points.
func (r Rect) Empty() bool {
	return r.XTop < r.XBot || r.YTop < r.YBot
}

// Width returns XTop-XBot. Pixel-based backends add one.
func (r Rect) Width() int {
	return r.XTop - r.XBot
}

// Height returns YTop-YBot. Pixel-based backends add one.
func (r Rect) Height() int {
	return r.YTop - r.YBot
}

// Min returns the bottom-left corner.
func (r Rect) Min() Point {
	return Point{X: r.XBot, Y: r.YBot}
}

// Max returns the top-right corner.
func (r Rect) Max() Point {
	return Point{X: r.XTop, Y: r.YTop}
}

// Intersect returns the largest rectangle contained in both r and s.
// The result is empty if they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		XBot: max(r.XBot, s.XBot),
		YBot: max(r.YBot, s.YBot),
		XTop: min(r.XTop, s.XTop),
		YTop: min(r.YTop, s.YTop),
	}
	if out.Empty() {
		return Rect{XBot: 0, YBot: 0, XTop: -1, YTop: -1}
	}
	return out
}

// Overlaps reports whether r and s share at least one point.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.XBot <= s.XTop && s.XBot <= r.XTop &&
		r.YBot <= s.YTop && s.YBot <= r.YTop
}

// Union returns the smallest rectangle containing both r and s.
// Empty rectangles are ignored.
func (r Rect) Union(s Rect) Rect {
	switch {
	case r.Empty():
		return s
	case s.Empty():
		return r
	}
	return Rect{
		XBot: min(r.XBot, s.XBot),
		YBot: min(r.YBot, s.YBot),
		XTop: max(r.XTop, s.XTop),
		YTop: max(r.YTop, s.YTop),
	}
}

// Contains reports whether s lies entirely inside r.
func (r Rect) Contains(s Rect) bool {
	if s.Empty() {
		return true
	}
	return s.XBot >= r.XBot && s.XTop <= r.XTop && s.YBot >= r.YBot && s.YTop <= r.YTop
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{XBot: r.XBot + d.X, YBot: r.YBot + d.Y, XTop: r.XTop + d.X, YTop: r.YTop + d.Y}
}

// Inset returns r shrunk by n on every side. Negative n grows it.
func (r Rect) Inset(n int) Rect {
	return Rect{XBot: r.XBot + n, YBot: r.YBot + n, XTop: r.XTop - n, YTop: r.YTop - n}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %d,%d]", r.XBot, r.YBot, r.XTop, r.YTop)
}

// Segment is a line segment between two points.
type Segment struct {
	P0, P1 Point
}

// Seg creates a Segment from endpoint coordinates.
func Seg(x0, y0, x1, y1 int) Segment {
	return Segment{P0: Point{X: x0, Y: y0}, P1: Point{X: x1, Y: y1}}
}

// Bounds returns the bounding box of the segment.
func (s Segment) Bounds() Rect {
	return R(s.P0.X, s.P0.Y, s.P1.X, s.P1.Y)
}
