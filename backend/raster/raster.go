// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/internal/rasterize"
	"github.com/gogpu/gr/internal/textsize"
	"github.com/gogpu/gr/internal/wintable"
	"github.com/gogpu/gr/pixmap"
	"github.com/gogpu/gr/style"
	"github.com/spf13/afero"
)

// Name is the display type of the raster backend.
const Name = "raster"

// Default framebuffer size in pixels.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

var errNotOpen = errors.New("raster: backend not open")

func init() {
	gr.Register(Descriptor())
}

// Descriptor returns the registry entry of the raster backend.
func Descriptor() gr.Descriptor {
	return gr.Descriptor{
		Name:         Name,
		Aliases:      []string{"framebuffer", "fb"},
		PixelCorrect: 1,
		Slots:        gr.AllSlots,
		Factory:      func() gr.Backend { return New() },
	}
}

// Option configures a Backend.
type Option func(*Backend)

// WithSize sets the framebuffer size in pixels.
func WithSize(width, height int) Option {
	return func(b *Backend) {
		if width > 0 && height > 0 {
			b.width, b.height = width, height
		}
	}
}

// WithFs sets the file system used for PNG output.
func WithFs(fs afero.Fs) Option {
	return func(b *Backend) {
		b.fs = fs
	}
}

// Backend draws into an in-memory color-index framebuffer. Every write
// goes through the current style's plane mask. When the graphics hint
// names a .png file, Flush writes the framebuffer there.
type Backend struct {
	width, height int
	fs            afero.Fs
	log           atomic.Pointer[slog.Logger]

	fb      *pixmap.Pixmap
	colors  *cmap.Map
	ds      gr.DrawStyle
	locked  gr.WindowID
	pngPath string

	font    *rasterize.Font
	measure *textsize.Measurer

	windows *wintable.Table
	icons   map[gr.WindowID]string
	stores  map[gr.WindowID]*store

	cursor      geom.Point
	cursorShape int
	tablet      bool
	stopped     bool
	events      []geom.Point
}

// New creates a closed raster backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		width:  DefaultWidth,
		height: DefaultHeight,
		fs:     afero.NewOsFs(),
	}
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

// Init allocates the framebuffer.
func (b *Backend) Init(h gr.Hints) (geom.Rect, error) {
	if b.fb != nil {
		return geom.Rect{}, fmt.Errorf("raster: already open")
	}
	screen := geom.R(0, 0, b.width-1, b.height-1)
	b.fb = pixmap.New(screen)
	b.colors = cmap.New(0, b.DefaultColorMap())
	b.font = rasterize.DefaultFont()
	b.measure = textsize.Default()
	b.windows = wintable.New()
	b.icons = make(map[gr.WindowID]string)
	b.stores = make(map[gr.WindowID]*store)
	b.cursor = geom.Pt(b.width/2, b.height/2)
	b.ds = gr.DrawStyle{Color: 1, Mask: -1, Outline: style.SolidOutline}
	if strings.HasSuffix(strings.ToLower(h.Graphics), ".png") {
		b.pngPath = h.Graphics
	}

	b.logger().Debug("raster: open", "screen", screen.String(), "png", b.pngPath)
	return screen, nil
}

// Close releases the framebuffer.
func (b *Backend) Close() error {
	b.fb = nil
	b.stores = nil
	return nil
}

// Lock records the window drawn into; the session clips to its frame.
func (b *Backend) Lock(w gr.WindowID, _ geom.Rect) error {
	if b.fb == nil {
		return errNotOpen
	}
	b.locked = w
	return nil
}

// Unlock ends drawing into w.
func (b *Backend) Unlock(gr.WindowID) error {
	b.locked = gr.ScreenWindow
	return nil
}

// SetStyle makes ds the style of following draws.
func (b *Backend) SetStyle(ds gr.DrawStyle) error {
	b.ds = ds
	return nil
}

func (b *Backend) plot(x, y int) {
	b.fb.Write(x, y, b.ds.Color, b.ds.Mask)
}

// DrawLine draws seg with the current dash pattern. A zero pattern draws
// a solid line.
func (b *Backend) DrawLine(seg geom.Segment) error {
	if b.fb == nil {
		return errNotOpen
	}
	pattern := b.ds.Outline
	if pattern == 0 {
		pattern = style.SolidOutline
	}
	rasterize.Line(seg, pattern, b.fb.Rect(), b.plot)
	return nil
}

// FillRect fills r solidly, or through the stipple for stipple styles.
func (b *Backend) FillRect(r geom.Rect) error {
	if b.fb == nil {
		return errNotOpen
	}
	if b.ds.Fill == style.Stipple {
		rasterize.Stipple(r, b.ds.Stipple, b.fb.Rect(), b.plot)
		return nil
	}
	b.fb.FillRect(r, b.ds.Color, b.ds.Mask)
	return nil
}

// FillPolygon fills the polygon through pts inside clip.
func (b *Backend) FillPolygon(pts []geom.Point, clip geom.Rect) error {
	if b.fb == nil {
		return errNotOpen
	}
	if b.ds.Fill == style.Stipple {
		pattern := b.ds.Stipple
		rasterize.Polygon(pts, clip, func(x, y int) {
			if pattern.Set(x&7, y&7) {
				b.plot(x, y)
			}
		})
		return nil
	}
	rasterize.Polygon(pts, clip, b.plot)
	return nil
}

// PutText draws text with its bottom-left at pos.
func (b *Backend) PutText(text string, pos geom.Point, size gr.TextSize, clip geom.Rect) (geom.Rect, error) {
	if b.fb == nil {
		return geom.Rect{}, errNotOpen
	}
	px := textsize.PixelSize(int(size))
	ext := b.measure.Measure(text, px)
	baseline := pos.Add(geom.Pt(0, ext.Descent))
	if _, err := b.font.Text(text, px, baseline, clip, b.plot); err != nil {
		return geom.Rect{}, fmt.Errorf("raster: %w", err)
	}
	return ext.Bounds(pos), nil
}

// TextSize measures text at the origin.
func (b *Backend) TextSize(text string, size gr.TextSize) (geom.Rect, error) {
	m := b.measure
	if m == nil {
		m = textsize.Default()
	}
	ext := m.Measure(text, textsize.PixelSize(int(size)))
	return ext.Bounds(geom.Point{}), nil
}

// BitBlt copies src so its bottom-left lands on dst. Overlapping copies
// read the source before writing.
func (b *Backend) BitBlt(src geom.Rect, dst geom.Point) error {
	if b.fb == nil {
		return errNotOpen
	}
	b.fb.Draw(b.fb.Sub(src).Moved(dst.Sub(src.Min())))
	return nil
}

// ReadPixel returns the color index at p.
func (b *Backend) ReadPixel(p geom.Point) (int, error) {
	if b.fb == nil {
		return 0, errNotOpen
	}
	c, ok := b.fb.At(p.X, p.Y)
	if !ok {
		return 0, fmt.Errorf("raster: pixel %v off screen", p)
	}
	return c, nil
}

// Flush writes the framebuffer to the PNG file named by the graphics
// hint, if any.
func (b *Backend) Flush() error {
	if b.fb == nil || b.pngPath == "" {
		return nil
	}
	return b.SavePNG(b.fs, b.pngPath)
}

// SavePNG writes the framebuffer to path through the current color map.
func (b *Backend) SavePNG(fs afero.Fs, path string) error {
	if b.fb == nil {
		return errNotOpen
	}
	if err := b.fb.SavePNG(fs, path, b.colors); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

// SetColorMap installs the session's color map.
func (b *Backend) SetColorMap(entries []cmap.Entry) error {
	if b.colors == nil {
		return errNotOpen
	}
	return b.colors.Replace(entries)
}

// DefaultColorMap returns cmap.Basic.
func (b *Backend) DefaultColorMap() []cmap.Entry {
	return cmap.Basic()
}

// Framebuffer returns the pixels drawn so far.
func (b *Backend) Framebuffer() *pixmap.Pixmap {
	return b.fb
}
