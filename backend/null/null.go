// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package null provides a backend that accepts every mandatory operation
// and draws nothing. It answers to the display types "null" and
// "minimal" and binds no optional slot, so it is the reference for what
// a session does when a capability is missing.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/gr/backend/null"
package null

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/internal/textsize"
)

// Name is the display type of the null backend.
const Name = "null"

// Screen is the rectangle reported by Init.
var Screen = geom.R(0, 0, 1023, 767)

func init() {
	gr.Register(Descriptor())
}

// Descriptor returns the registry entry of the null backend.
func Descriptor() gr.Descriptor {
	return gr.Descriptor{
		Name:         Name,
		Aliases:      []string{"minimal"},
		Priority:     -100,
		PixelCorrect: 1,
		Slots:        gr.MandatorySlots,
		Factory:      func() gr.Backend { return New() },
	}
}

// Backend is the null backend.
type Backend struct {
	open    bool
	text    *textsize.Measurer
	log     atomic.Pointer[slog.Logger]
	flushes int
}

// New creates a closed null backend.
func New() *Backend {
	return &Backend{}
}

// SetLogger implements the session's logger hook.
func (b *Backend) SetLogger(l *slog.Logger) {
	b.log.Store(l)
}

func (b *Backend) logger() *slog.Logger {
	if l := b.log.Load(); l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// Init opens the backend.
func (b *Backend) Init(h gr.Hints) (geom.Rect, error) {
	if b.open {
		return geom.Rect{}, fmt.Errorf("null: already open")
	}
	b.open = true
	b.text = textsize.Default()
	b.logger().Debug("null: open", "graphics", h.Graphics, "screen", Screen.String())
	return Screen, nil
}

// Close closes the backend.
func (b *Backend) Close() error {
	b.open = false
	return nil
}

func (b *Backend) Lock(gr.WindowID, geom.Rect) error { return nil }
func (b *Backend) Unlock(gr.WindowID) error          { return nil }
func (b *Backend) SetStyle(gr.DrawStyle) error       { return nil }
func (b *Backend) DrawLine(geom.Segment) error       { return nil }
func (b *Backend) FillRect(geom.Rect) error          { return nil }

func (b *Backend) FillPolygon([]geom.Point, geom.Rect) error { return nil }

// PutText draws nothing but reports the bounds the text would cover.
func (b *Backend) PutText(text string, pos geom.Point, size gr.TextSize, clip geom.Rect) (geom.Rect, error) {
	r, err := b.TextSize(text, size)
	if err != nil {
		return geom.Rect{}, err
	}
	return r.Translate(pos).Intersect(clip), nil
}

// TextSize measures text with the default font.
func (b *Backend) TextSize(text string, size gr.TextSize) (geom.Rect, error) {
	if b.text == nil {
		return geom.Rect{}, gr.ErrClosed
	}
	ext := b.text.Measure(text, textsize.PixelSize(int(size)))
	return ext.Bounds(geom.Point{}), nil
}

func (b *Backend) BitBlt(geom.Rect, geom.Point) error { return nil }

// ReadPixel always reads the background.
func (b *Backend) ReadPixel(geom.Point) (int, error) { return cmap.Background, nil }

// Flush counts flushes; there is nothing to push.
func (b *Backend) Flush() error {
	b.flushes++
	return nil
}

func (b *Backend) SetColorMap([]cmap.Entry) error { return nil }

// DefaultColorMap returns cmap.Basic.
func (b *Backend) DefaultColorMap() []cmap.Entry { return cmap.Basic() }
