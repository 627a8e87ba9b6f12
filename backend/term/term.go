// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package term provides a backend drawing on a character terminal, one
// cell per pixel. Pixels are painted as cell backgrounds; text is drawn
// as runes, one size only. The bottom terminal row is y = 0.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/gr/backend/term"
package term

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/internal/rasterize"
	"github.com/gogpu/gr/pixmap"
	"github.com/gogpu/gr/style"
	"github.com/mattn/go-runewidth"
)

// Name is the display type of the terminal backend.
const Name = "term"

// Slots bound by the terminal backend.
var Slots = gr.MandatorySlots |
	gr.Slots(gr.SlotSetCursor, gr.SlotEventPending, gr.SlotDamaged) |
	gr.CursorPosSlots | gr.StopSlots

var errNotOpen = errors.New("term: backend not open")

func init() {
	gr.Register(Descriptor())
}

// Descriptor returns the registry entry of the terminal backend.
func Descriptor(opts ...Option) gr.Descriptor {
	return gr.Descriptor{
		Name:         Name,
		Aliases:      []string{"tty", "terminal"},
		PixelCorrect: 1,
		Slots:        Slots,
		Factory:      func() gr.Backend { return New(opts...) },
		Available:    available,
	}
}

func available() bool {
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}

// Option configures a Backend.
type Option func(*Backend)

// WithScreen draws on s instead of the process terminal.
func WithScreen(s tcell.Screen) Option {
	return func(b *Backend) {
		b.screen = s
	}
}

// Backend draws into a tcell screen.
type Backend struct {
	screen tcell.Screen
	log    atomic.Pointer[slog.Logger]

	open   bool
	height int
	mirror *pixmap.Pixmap
	runes  map[geom.Point]rune
	colors *cmap.Map
	ds     gr.DrawStyle

	cursor geom.Point
}

// New creates a closed terminal backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
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

// Init takes over the terminal. The screen is the terminal size in
// cells.
func (b *Backend) Init(gr.Hints) (geom.Rect, error) {
	if b.open {
		return geom.Rect{}, fmt.Errorf("term: already open")
	}
	if b.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return geom.Rect{}, fmt.Errorf("term: create screen: %w", err)
		}
		b.screen = s
	}
	if err := b.screen.Init(); err != nil {
		return geom.Rect{}, fmt.Errorf("term: init screen: %w", err)
	}
	b.screen.EnableMouse()
	b.screen.HideCursor()

	w, h := b.screen.Size()
	b.open = true
	b.height = h
	b.mirror = pixmap.New(geom.R(0, 0, w-1, h-1))
	b.runes = make(map[geom.Point]rune)
	b.colors = cmap.New(0, b.DefaultColorMap())
	b.ds = gr.DrawStyle{Color: 1, Mask: -1, Outline: style.SolidOutline}

	b.logger().Debug("term: open", "cells", fmt.Sprintf("%dx%d", w, h))
	return b.mirror.Rect(), nil
}

// Close gives the terminal back.
func (b *Backend) Close() error {
	if !b.open {
		return nil
	}
	b.open = false
	b.screen.Fini()
	return nil
}

func (b *Backend) Lock(gr.WindowID, geom.Rect) error {
	if !b.open {
		return errNotOpen
	}
	return nil
}

// Unlock shows what was drawn under the lock.
func (b *Backend) Unlock(gr.WindowID) error {
	return b.Flush()
}

// SetStyle makes ds the style of following draws.
func (b *Backend) SetStyle(ds gr.DrawStyle) error {
	b.ds = ds
	return nil
}

func (b *Backend) color(i int) tcell.Color {
	e, err := b.colors.Get(i)
	if err != nil {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(e.Red), int32(e.Green), int32(e.Blue))
}

// paint copies pixel (x, y) of the mirror to its cell.
func (b *Backend) paint(x, y int) {
	c, ok := b.mirror.At(x, y)
	if !ok {
		return
	}
	row := b.height - 1 - y
	if r, ok := b.runes[geom.Pt(x, y)]; ok {
		st := tcell.StyleDefault.Foreground(b.color(c)).Background(b.color(cmap.Background))
		b.screen.SetContent(x, row, r, nil, st)
		return
	}
	b.screen.SetContent(x, row, ' ', nil, tcell.StyleDefault.Background(b.color(c)))
}

func (b *Backend) repaint(r geom.Rect) {
	r = r.Intersect(b.mirror.Rect())
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			b.paint(x, y)
		}
	}
}

func (b *Backend) plot(x, y int) {
	b.mirror.Write(x, y, b.ds.Color, b.ds.Mask)
	delete(b.runes, geom.Pt(x, y))
	b.paint(x, y)
}

// DrawLine draws seg with the current dash pattern.
func (b *Backend) DrawLine(seg geom.Segment) error {
	if !b.open {
		return errNotOpen
	}
	pattern := b.ds.Outline
	if pattern == 0 {
		pattern = style.SolidOutline
	}
	rasterize.Line(seg, pattern, b.mirror.Rect(), b.plot)
	return nil
}

// FillRect fills r, through the stipple for stipple styles.
func (b *Backend) FillRect(r geom.Rect) error {
	if !b.open {
		return errNotOpen
	}
	if b.ds.Fill == style.Stipple {
		rasterize.Stipple(r, b.ds.Stipple, b.mirror.Rect(), b.plot)
		return nil
	}
	r = r.Intersect(b.mirror.Rect())
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			b.plot(x, y)
		}
	}
	return nil
}

// FillPolygon fills the polygon through pts inside clip.
func (b *Backend) FillPolygon(pts []geom.Point, clip geom.Rect) error {
	if !b.open {
		return errNotOpen
	}
	rasterize.Polygon(pts, clip, b.plot)
	return nil
}

// PutText writes text on row pos.Y starting at column pos.X. Wide runes
// take two cells. Size is ignored.
func (b *Backend) PutText(text string, pos geom.Point, _ gr.TextSize, clip geom.Rect) (geom.Rect, error) {
	if !b.open {
		return geom.Rect{}, errNotOpen
	}
	x := pos.X
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		p := geom.Pt(x, pos.Y)
		if p.In(clip) {
			b.mirror.Write(p.X, p.Y, b.ds.Color, b.ds.Mask)
			b.runes[p] = r
			b.paint(p.X, p.Y)
			for i := 1; i < w; i++ {
				// Continuation cells of a wide rune keep no content.
				q := geom.Pt(x+i, pos.Y)
				delete(b.runes, q)
				b.mirror.Write(q.X, q.Y, b.ds.Color, b.ds.Mask)
			}
		}
		x += w
	}
	return geom.Rect{XBot: pos.X, YBot: pos.Y, XTop: x - 1, YTop: pos.Y}, nil
}

// TextSize returns one row as wide as the text's cells.
func (b *Backend) TextSize(text string, _ gr.TextSize) (geom.Rect, error) {
	return geom.Rect{XBot: 0, YBot: 0, XTop: runewidth.StringWidth(text) - 1, YTop: 0}, nil
}

// BitBlt copies the cells of src, runes included, so its bottom-left
// lands on dst.
func (b *Backend) BitBlt(src geom.Rect, dst geom.Point) error {
	if !b.open {
		return errNotOpen
	}
	d := dst.Sub(src.Min())
	moved := b.mirror.Sub(src).Moved(d)
	runes := make(map[geom.Point]rune)
	for p, r := range b.runes {
		if p.In(src) {
			runes[p.Add(d)] = r
		}
	}
	target := moved.Rect().Intersect(b.mirror.Rect())
	for p := range b.runes {
		if p.In(target) {
			delete(b.runes, p)
		}
	}
	for p, r := range runes {
		b.runes[p] = r
	}
	b.mirror.Draw(moved)
	b.repaint(target)
	return nil
}

// ReadPixel returns the color index of the cell at p.
func (b *Backend) ReadPixel(p geom.Point) (int, error) {
	if !b.open {
		return 0, errNotOpen
	}
	c, ok := b.mirror.At(p.X, p.Y)
	if !ok {
		return 0, fmt.Errorf("term: cell %v off screen", p)
	}
	return c, nil
}

// Flush shows the drawn cells.
func (b *Backend) Flush() error {
	if b.open {
		b.screen.Show()
	}
	return nil
}

// SetColorMap installs the session's color map and repaints.
func (b *Backend) SetColorMap(entries []cmap.Entry) error {
	if !b.open {
		return errNotOpen
	}
	if err := b.colors.Replace(entries); err != nil {
		return err
	}
	b.repaint(b.mirror.Rect())
	return nil
}

// DefaultColorMap returns cmap.Basic.
func (b *Backend) DefaultColorMap() []cmap.Entry {
	return cmap.Basic()
}
