// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package clip holds the clip rectangle stack consulted by every draw
// forwarder, and the pure clipping tests built on it.
package clip

import "github.com/gogpu/gr/geom"

// Stack manages nested clip rectangles. The bottom entry is the base
// (window or screen area set at lock time); the top entry is the effective
// clip and is always contained in every entry below it.
type Stack struct {
	entries      []geom.Rect
	pixelCorrect int
}

// NewStack creates a stack whose base is the given rectangle.
// pixelCorrect is 1 for pixel-based backends and 0 for real-valued ones.
func NewStack(base geom.Rect, pixelCorrect int) *Stack {
	s := &Stack{
		entries:      make([]geom.Rect, 0, 8),
		pixelCorrect: pixelCorrect,
	}
	s.entries = append(s.entries, base)
	return s
}

// PixelCorrect returns the pixel correction the stack was created with.
func (s *Stack) PixelCorrect() int {
	return s.pixelCorrect
}

// Reset discards every entry and installs a new base.
func (s *Stack) Reset(base geom.Rect) {
	s.entries = append(s.entries[:0], base)
}

// Bounds returns the effective clip rectangle.
func (s *Stack) Bounds() geom.Rect {
	return s.entries[len(s.entries)-1]
}

// Depth returns the number of entries pushed above the base.
func (s *Stack) Depth() int {
	return len(s.entries) - 1
}

// ClipTo replaces the top of the stack with its intersection with r.
// The effective clip can only shrink until the stack is reset or popped.
func (s *Stack) ClipTo(r geom.Rect) {
	top := len(s.entries) - 1
	s.entries[top] = s.entries[top].Intersect(r)
}

// Push pushes the intersection of the current clip and r.
func (s *Stack) Push(r geom.Rect) {
	s.entries = append(s.entries, s.Bounds().Intersect(r))
}

// Pop removes the most recent Push. Popping the base is a no-op.
func (s *Stack) Pop() {
	if len(s.entries) == 1 {
		return
	}
	s.entries = s.entries[:len(s.entries)-1]
}

// Window returns the pixels covered by the effective clip. With pixel
// correction the top and right edges are covered; without it they are
// the exclusive limit of a real-valued area.
func (s *Stack) Window() geom.Rect {
	return pixels(s.Bounds(), s.pixelCorrect)
}

// ClipBox reports whether r covers at least one pixel of the current
// clip. It does not change the stack.
func (s *Stack) ClipBox(r geom.Rect) bool {
	return !s.Window().Intersect(pixels(r, s.pixelCorrect)).Empty()
}

// ClipRect truncates r to the current clip. The second result is false
// when nothing of r remains visible.
func (s *Stack) ClipRect(r geom.Rect) (geom.Rect, bool) {
	if !s.ClipBox(r) {
		return geom.Rect{}, false
	}
	return s.Bounds().Intersect(r), true
}

// ClipLine returns the part of seg inside the current clip window, or
// false if the segment misses it entirely.
func (s *Stack) ClipLine(seg geom.Segment) (geom.Segment, bool) {
	return Line(s.Window(), seg)
}

// pixels converts a rect to the inclusive pixel extent it covers.
func pixels(r geom.Rect, pixelCorrect int) geom.Rect {
	if pixelCorrect != 0 {
		return r
	}
	return geom.Rect{XBot: r.XBot, YBot: r.YBot, XTop: r.XTop - 1, YTop: r.YTop - 1}
}
