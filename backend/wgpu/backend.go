// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/internal/rasterize"
	"github.com/gogpu/gr/internal/textsize"
	"github.com/gogpu/gr/pixmap"
	"github.com/gogpu/gr/style"
	"github.com/gogpu/wgpu/hal"
)

// Name is the display type of the GPU backend.
const Name = "wgpu"

// Default screen size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// Slots bound by the GPU backend: the mandatory ones plus backing stores
// held in textures.
const Slots = gr.MandatorySlots | gr.BackingStoreSlots | gr.SlotSet(1<<gr.SlotScrollBackingStore)

var errNotOpen = errors.New("wgpu: backend not open")

func init() {
	gr.Register(Descriptor())
}

// Descriptor returns the registry entry of the GPU backend. Options are
// applied to every backend the entry creates, so a host sharing its
// device re-registers with WithDeviceProvider.
func Descriptor(opts ...Option) gr.Descriptor {
	return gr.Descriptor{
		Name:         Name,
		Aliases:      []string{"gpu", "vector", "ogl", "opengl"},
		Priority:     10,
		PixelCorrect: 0,
		Slots:        Slots,
		Factory:      func() gr.Backend { return New(opts...) },
		Available:    available,
	}
}

// Option configures a Backend.
type Option func(*Backend)

// WithSize sets the screen size in pixels.
func WithSize(width, height int) Option {
	return func(b *Backend) {
		if width > 0 && height > 0 {
			b.width, b.height = width, height
		}
	}
}

// WithDeviceProvider draws on the host's device instead of opening one.
// The provider must also expose HalDevice and HalQueue.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(b *Backend) {
		b.provider = p
	}
}

// Backend is a real-valued backend: rectangles exclude their top and
// right edges. Drawing goes to a color-index mirror on the CPU; Flush
// uploads the changed part to the frame texture on the GPU and presents
// the frame through the blit pipeline.
type Backend struct {
	width, height int
	provider      gpucontext.DeviceProvider
	log           atomic.Pointer[slog.Logger]

	gpu     *gpu
	format  gputypes.TextureFormat
	frame   hal.Texture
	present *presenter
	surface hal.TextureView

	mirror *pixmap.Pixmap
	dirty  geom.Rect
	colors *cmap.Map
	ds     gr.DrawStyle

	font    *rasterize.Font
	measure *textsize.Measurer

	stores   map[gr.WindowID]*store
	uploads  int
	presents int
}

// New creates a closed GPU backend.
func New(opts ...Option) *Backend {
	b := &Backend{width: DefaultWidth, height: DefaultHeight}
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

// Init opens or borrows a device, creates the frame texture and builds
// the present pipeline. The screen spans (0,0) to (width,height).
func (b *Backend) Init(gr.Hints) (geom.Rect, error) {
	if b.gpu != nil {
		return geom.Rect{}, fmt.Errorf("wgpu: already open")
	}

	var err error
	b.format = gputypes.TextureFormatRGBA8Unorm
	if b.provider != nil {
		b.gpu, err = shareDevice(b.provider)
		if f := b.provider.SurfaceFormat(); f == gputypes.TextureFormatBGRA8Unorm {
			b.format = f
		}
	} else {
		b.gpu, err = openDevice(halBackend())
	}
	if err != nil {
		b.gpu = nil
		return geom.Rect{}, err
	}

	b.frame, err = b.createTexture("gr_frame", b.width, b.height)
	if err != nil {
		b.release()
		return geom.Rect{}, err
	}

	// Without a present pipeline the frame still holds the pixels; a host
	// can copy it out, it just is not drawn to a surface.
	b.present, err = newPresenter(b.gpu.device, b.format, b.frame, b.width, b.height)
	if err != nil {
		b.logger().Warn("wgpu: present pipeline unavailable", "err", err)
		b.present = nil
	}

	b.mirror = pixmap.New(geom.R(0, 0, b.width-1, b.height-1))
	b.dirty = b.mirror.Rect()
	b.colors = cmap.New(0, b.DefaultColorMap())
	b.ds = gr.DrawStyle{Color: 1, Mask: -1, Outline: style.SolidOutline}
	b.font = rasterize.DefaultFont()
	b.measure = textsize.Default()
	b.stores = make(map[gr.WindowID]*store)

	b.logger().Info("wgpu: open", "gpu", b.gpu.info.String(), "format", b.format)
	return geom.R(0, 0, b.width, b.height), nil
}

func (b *Backend) release() {
	if b.gpu == nil {
		return
	}
	for _, st := range b.stores {
		b.gpu.device.DestroyTexture(st.tex)
	}
	b.stores = nil
	if b.present != nil {
		b.present.destroy(b.gpu.device)
		b.present = nil
	}
	b.surface = nil
	if b.frame != nil {
		b.gpu.device.DestroyTexture(b.frame)
		b.frame = nil
	}
	b.gpu.destroy()
	b.gpu = nil
}

// Close releases every texture and the device.
func (b *Backend) Close() error {
	b.release()
	b.mirror = nil
	return nil
}

// GPU describes the adapter in use.
func (b *Backend) GPU() (GPUInfo, bool) {
	if b.gpu == nil {
		return GPUInfo{}, false
	}
	return b.gpu.info, true
}

func (b *Backend) Lock(gr.WindowID, geom.Rect) error {
	if b.gpu == nil {
		return errNotOpen
	}
	return nil
}

// Unlock pushes what was drawn under the lock.
func (b *Backend) Unlock(gr.WindowID) error {
	return b.Flush()
}

// SetStyle makes ds the style of following draws.
func (b *Backend) SetStyle(ds gr.DrawStyle) error {
	b.ds = ds
	return nil
}

// pixels converts a real-valued rectangle to the pixels it covers.
func pixels(r geom.Rect) geom.Rect {
	return geom.Rect{XBot: r.XBot, YBot: r.YBot, XTop: r.XTop - 1, YTop: r.YTop - 1}
}

func (b *Backend) plot(x, y int) {
	b.mirror.Write(x, y, b.ds.Color, b.ds.Mask)
}

func (b *Backend) touch(r geom.Rect) {
	r = r.Intersect(b.mirror.Rect())
	if r.Empty() {
		return
	}
	if b.dirty.Empty() {
		b.dirty = r
		return
	}
	b.dirty = b.dirty.Union(r)
}

// DrawLine draws seg with the current dash pattern.
func (b *Backend) DrawLine(seg geom.Segment) error {
	if b.mirror == nil {
		return errNotOpen
	}
	pattern := b.ds.Outline
	if pattern == 0 {
		pattern = style.SolidOutline
	}
	rasterize.Line(seg, pattern, b.mirror.Rect(), b.plot)
	b.touch(seg.Bounds())
	return nil
}

// FillRect fills r, excluding its top and right edges.
func (b *Backend) FillRect(r geom.Rect) error {
	if b.mirror == nil {
		return errNotOpen
	}
	px := pixels(r)
	if b.ds.Fill == style.Stipple {
		rasterize.Stipple(px, b.ds.Stipple, b.mirror.Rect(), b.plot)
	} else {
		b.mirror.FillRect(px, b.ds.Color, b.ds.Mask)
	}
	b.touch(px)
	return nil
}

// FillPolygon fills the polygon through pts with vertices on pixel
// corners, inside clip.
func (b *Backend) FillPolygon(pts []geom.Point, clip geom.Rect) error {
	if b.mirror == nil {
		return errNotOpen
	}
	area := pixels(clip)
	plot := b.plot
	if b.ds.Fill == style.Stipple {
		pattern := b.ds.Stipple
		plot = func(x, y int) {
			if pattern.Set(x&7, y&7) {
				b.plot(x, y)
			}
		}
	}
	rasterize.Area(pts, area, plot)
	b.touch(area)
	return nil
}

// PutText draws text with its bottom-left at pos.
func (b *Backend) PutText(text string, pos geom.Point, size gr.TextSize, clip geom.Rect) (geom.Rect, error) {
	if b.mirror == nil {
		return geom.Rect{}, errNotOpen
	}
	px := textsize.PixelSize(int(size))
	ext := b.measure.Measure(text, px)
	drawn, err := b.font.Text(text, px, pos.Add(geom.Pt(0, ext.Descent)), pixels(clip), b.plot)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("wgpu: %w", err)
	}
	b.touch(drawn)
	return ext.Bounds(pos), nil
}

// TextSize measures text at the origin.
func (b *Backend) TextSize(text string, size gr.TextSize) (geom.Rect, error) {
	m := b.measure
	if m == nil {
		m = textsize.Default()
	}
	return m.Measure(text, textsize.PixelSize(int(size))).Bounds(geom.Point{}), nil
}

// BitBlt copies the pixels of src so its bottom-left lands on dst.
func (b *Backend) BitBlt(src geom.Rect, dst geom.Point) error {
	if b.mirror == nil {
		return errNotOpen
	}
	moved := b.mirror.Sub(pixels(src)).Moved(dst.Sub(src.Min()))
	b.mirror.Draw(moved)
	b.touch(moved.Rect())
	return nil
}

// ReadPixel returns the color index of the pixel whose bottom-left
// corner is p.
func (b *Backend) ReadPixel(p geom.Point) (int, error) {
	if b.mirror == nil {
		return 0, errNotOpen
	}
	c, ok := b.mirror.At(p.X, p.Y)
	if !ok {
		return 0, fmt.Errorf("wgpu: pixel %v off screen", p)
	}
	return c, nil
}

// Flush uploads the pixels changed since the last flush and presents
// the frame on the surface target.
func (b *Backend) Flush() error {
	if b.mirror == nil || b.dirty.Empty() {
		return nil
	}
	if err := b.upload(b.frame, b.mirror, b.dirty); err != nil {
		return err
	}
	b.dirty = geom.Rect{XBot: 0, YBot: 0, XTop: -1, YTop: -1}

	if b.present == nil {
		return nil
	}
	if err := b.present.draw(b.gpu, b.surface); err != nil {
		return err
	}
	b.presents++
	return nil
}

// SetSurfaceTarget makes Flush present into view, typically the host's
// current swapchain texture. The view must match the screen size and the
// provider's surface format. nil presents into the backend's own target.
func (b *Backend) SetSurfaceTarget(view hal.TextureView) {
	b.surface = view
	if b.mirror != nil {
		b.touch(b.mirror.Rect())
	}
}

// Presenting reports whether Flush draws the frame through the blit
// pipeline.
func (b *Backend) Presenting() bool {
	return b.present != nil
}

// Uploads returns how many texture writes have been queued.
func (b *Backend) Uploads() int {
	return b.uploads
}

// Presents returns how many present passes have been submitted.
func (b *Backend) Presents() int {
	return b.presents
}

// SetColorMap installs the session's color map and repaints the frame.
func (b *Backend) SetColorMap(entries []cmap.Entry) error {
	if b.colors == nil {
		return errNotOpen
	}
	if err := b.colors.Replace(entries); err != nil {
		return err
	}
	b.touch(b.mirror.Rect())
	return nil
}

// DefaultColorMap returns cmap.Basic.
func (b *Backend) DefaultColorMap() []cmap.Entry {
	return cmap.Basic()
}
