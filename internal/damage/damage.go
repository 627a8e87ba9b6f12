// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package damage accumulates damaged regions per window between two
// deliveries and merges overlapping regions so each area is delivered once.
package damage

import (
	"slices"

	"github.com/gogpu/gr/geom"
)

// MaxRegions is the threshold after which a window's damage collapses to
// a single full redraw of its frame.
const MaxRegions = 16

// Key identifies a damaged window.
type Key = uint32

// Region is one merged damaged area ready for delivery.
type Region struct {
	Window Key
	Rect   geom.Rect
}

type pending struct {
	rects []geom.Rect
	full  bool
	frame geom.Rect
}

// Tracker collects damage until Drain is called.
type Tracker struct {
	windows map[Key]*pending
	order   []Key
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{windows: make(map[Key]*pending)}
}

func (t *Tracker) entry(w Key, frame geom.Rect) *pending {
	p, ok := t.windows[w]
	if !ok {
		p = &pending{}
		t.windows[w] = p
		t.order = append(t.order, w)
	}
	p.frame = frame
	return p
}

// Add records damage to rect inside a window whose frame is given.
// The rect is truncated to the frame; overlapping pending damage is
// merged into the union of the two.
func (t *Tracker) Add(w Key, frame, rect geom.Rect) {
	rect = rect.Intersect(frame)
	if rect.Empty() {
		return
	}
	p := t.entry(w, frame)
	if p.full {
		return
	}

	// Merge until no pending rect overlaps the accumulated one; a merge can
	// make the union overlap rects it did not touch before.
	for {
		merged := false
		for i := 0; i < len(p.rects); i++ {
			if p.rects[i].Overlaps(rect) {
				rect = rect.Union(p.rects[i])
				p.rects = slices.Delete(p.rects, i, i+1)
				merged = true
				i--
			}
		}
		if !merged {
			break
		}
	}
	p.rects = append(p.rects, rect)

	if len(p.rects) > MaxRegions {
		p.full = true
		p.rects = p.rects[:0]
	}
}

// AddFull marks a whole window as damaged.
func (t *Tracker) AddFull(w Key, frame geom.Rect) {
	p := t.entry(w, frame)
	p.full = true
	p.rects = p.rects[:0]
}

// Forget drops pending damage of a window, e.g. when it is deleted.
func (t *Tracker) Forget(w Key) {
	if _, ok := t.windows[w]; !ok {
		return
	}
	delete(t.windows, w)
	t.order = slices.DeleteFunc(t.order, func(k Key) bool { return k == w })
}

// Pending reports whether any damage waits for delivery.
func (t *Tracker) Pending() bool {
	return len(t.order) > 0
}

// Drain returns every merged region in the order windows were first
// damaged and resets the tracker.
func (t *Tracker) Drain() []Region {
	var out []Region
	for _, w := range t.order {
		p := t.windows[w]
		if p.full {
			out = append(out, Region{Window: w, Rect: p.frame})
			continue
		}
		for _, r := range p.rects {
			out = append(out, Region{Window: w, Rect: r})
		}
	}
	clear(t.windows)
	t.order = t.order[:0]
	return out
}
