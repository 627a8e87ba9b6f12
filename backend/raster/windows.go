// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/pixmap"
)

// store is the backing store of one window. valid is 1 where pix holds
// saved pixels.
type store struct {
	pix   *pixmap.Pixmap
	valid *pixmap.Pixmap
}

func (b *Backend) window(w gr.WindowID) (geom.Rect, error) {
	if b.windows == nil {
		return geom.Rect{}, errNotOpen
	}
	win, ok := b.windows.Get(uint32(w))
	if !ok {
		return geom.Rect{}, fmt.Errorf("raster: window %d: %w", w, gr.ErrUnknownWindow)
	}
	return win.Frame, nil
}

// CreateWindow records a window. Frames outside the screen are refused.
func (b *Backend) CreateWindow(w gr.WindowID, name string, frame geom.Rect) error {
	if b.fb == nil {
		return errNotOpen
	}
	if frame.Empty() || !frame.Overlaps(b.fb.Rect()) {
		return fmt.Errorf("raster: window %q frame %v is off screen", name, frame)
	}
	b.windows.Add(uint32(w), name, frame)
	return nil
}

// DeleteWindow forgets w and clears its frame to the background.
func (b *Backend) DeleteWindow(w gr.WindowID) error {
	frame, err := b.window(w)
	if err != nil {
		return err
	}
	b.windows.Remove(uint32(w))
	delete(b.icons, w)
	delete(b.stores, w)
	b.fb.FillRect(frame, cmap.Background, -1)
	return nil
}

// ConfigureWindow moves or resizes w.
func (b *Backend) ConfigureWindow(w gr.WindowID, frame geom.Rect) error {
	if _, err := b.window(w); err != nil {
		return err
	}
	b.windows.Configure(uint32(w), frame)
	return nil
}

// OverWindow raises w to the top.
func (b *Backend) OverWindow(w gr.WindowID) error {
	if _, err := b.window(w); err != nil {
		return err
	}
	b.windows.Raise(uint32(w))
	return nil
}

// UnderWindow lowers w to the bottom.
func (b *Backend) UnderWindow(w gr.WindowID) error {
	if _, err := b.window(w); err != nil {
		return err
	}
	b.windows.Lower(uint32(w))
	return nil
}

// Stacking returns window ids from bottom to top.
func (b *Backend) Stacking() []gr.WindowID {
	ids := b.windows.Stack()
	out := make([]gr.WindowID, len(ids))
	for i, id := range ids {
		out[i] = gr.WindowID(id)
	}
	return out
}

// Damaged repaints r of w from its backing store where it holds pixels.
func (b *Backend) Damaged(w gr.WindowID, r geom.Rect) error {
	frame, err := b.window(w)
	if err != nil {
		return err
	}
	st, ok := b.stores[w]
	if !ok {
		return nil
	}
	r = r.Intersect(frame).Intersect(st.pix.Rect())
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			if v, _ := st.valid.At(x, y); v == 1 {
				c, _ := st.pix.At(x, y)
				b.fb.Set(x, y, c)
			}
		}
	}
	return nil
}

// UpdateIcon sets the icon text of w.
func (b *Backend) UpdateIcon(w gr.WindowID, text string) error {
	if _, err := b.window(w); err != nil {
		return err
	}
	b.icons[w] = text
	return nil
}

// Icon returns the icon text of w.
func (b *Backend) Icon(w gr.WindowID) string {
	return b.icons[w]
}

// WindowID returns the window named name.
func (b *Backend) WindowID(name string) (gr.WindowID, bool) {
	if b.windows == nil {
		return 0, false
	}
	id, ok := b.windows.ByName(name)
	return gr.WindowID(id), ok
}

// WindowName returns the name of w.
func (b *Backend) WindowName(w gr.WindowID) (string, bool) {
	if b.windows == nil {
		return "", false
	}
	win, ok := b.windows.Get(uint32(w))
	return win.Name, ok
}

// CreateBackingStore allocates an empty store covering r.
func (b *Backend) CreateBackingStore(w gr.WindowID, r geom.Rect) error {
	if _, err := b.window(w); err != nil {
		return err
	}
	b.stores[w] = &store{pix: pixmap.New(r), valid: pixmap.New(r)}
	return nil
}

func (b *Backend) store(w gr.WindowID) (*store, error) {
	st, ok := b.stores[w]
	if !ok {
		return nil, fmt.Errorf("raster: window %d has no backing store", w)
	}
	return st, nil
}

// GetBackingStore returns the saved pixels of r when every one of them
// is saved.
func (b *Backend) GetBackingStore(w gr.WindowID, r geom.Rect) (*pixmap.Pixmap, bool, error) {
	st, err := b.store(w)
	if err != nil {
		return nil, false, err
	}
	if !st.pix.Rect().Contains(r) {
		return nil, false, nil
	}
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			if v, _ := st.valid.At(x, y); v != 1 {
				return nil, false, nil
			}
		}
	}
	return st.pix.Sub(r), true, nil
}

// PutBackingStore saves pix into the store of w.
func (b *Backend) PutBackingStore(w gr.WindowID, pix *pixmap.Pixmap) error {
	st, err := b.store(w)
	if err != nil {
		return err
	}
	st.pix.Draw(pix)
	st.valid.FillRect(pix.Rect(), 1, -1)
	return nil
}

// ScrollBackingStore moves the saved pixels by delta.
func (b *Backend) ScrollBackingStore(w gr.WindowID, delta geom.Point) error {
	st, err := b.store(w)
	if err != nil {
		return err
	}
	st.pix.Shift(delta, cmap.Background)
	st.valid.Shift(delta, 0)
	return nil
}

// FreeBackingStore drops the store of w.
func (b *Backend) FreeBackingStore(w gr.WindowID) error {
	if _, err := b.store(w); err != nil {
		return err
	}
	delete(b.stores, w)
	return nil
}
