// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/geom"
)

// Move queues a pointer motion to p, clamped to the screen.
func (b *Backend) Move(p geom.Point) {
	if b.fb == nil {
		return
	}
	r := b.fb.Rect()
	p.X = min(max(p.X, r.XBot), r.XTop)
	p.Y = min(max(p.Y, r.YBot), r.YTop)
	b.events = append(b.events, p)
}

// NextEvent applies the oldest queued motion to the cursor and returns
// it.
func (b *Backend) NextEvent() (geom.Point, bool) {
	if len(b.events) == 0 {
		return geom.Point{}, false
	}
	p := b.events[0]
	b.events = b.events[1:]
	b.cursor = p
	return p, true
}

// EventPending reports whether motions are queued.
func (b *Backend) EventPending() bool {
	return len(b.events) > 0 && !b.stopped
}

// CursorPos returns the cursor relative to the bottom-left of w.
func (b *Backend) CursorPos(w gr.WindowID) (geom.Point, error) {
	if w == gr.ScreenWindow {
		return b.cursor, nil
	}
	frame, err := b.window(w)
	if err != nil {
		return geom.Point{}, err
	}
	return b.cursor.Sub(frame.Min()), nil
}

// CursorRootPos returns the cursor in screen coordinates.
func (b *Backend) CursorRootPos() (geom.Point, error) {
	return b.cursor, nil
}

// EnableTablet switches the pointer to tablet mode.
func (b *Backend) EnableTablet() error {
	b.tablet = true
	return nil
}

// DisableTablet switches the pointer back to mouse mode.
func (b *Backend) DisableTablet() error {
	b.tablet = false
	return nil
}

// Stop holds events until Resume.
func (b *Backend) Stop() error {
	b.stopped = true
	b.logger().Debug("raster: stopped")
	return nil
}

// Resume releases held events.
func (b *Backend) Resume() error {
	b.stopped = false
	b.logger().Debug("raster: resumed")
	return nil
}
