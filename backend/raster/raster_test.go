// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/style"
	"github.com/spf13/afero"
)

const testStyles = `display_styles
0 0377 0 0xffff solid   0 - background
1 0377 3 0xffff solid   0 r red
2 0377 5 0xffff stipple 1 s stippled
3 0001 1 0xf0f0 solid   0 d dashed
end
stipples
1 aa 55 aa 55 aa 55 aa 55
end
`

func open(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := New(append([]Option{WithSize(64, 48)}, opts...)...)
	if _, err := b.Init(gr.Hints{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func count(b *Backend, r geom.Rect, c int) int {
	n := 0
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			if v, _ := b.fb.At(x, y); v == c {
				n++
			}
		}
	}
	return n
}

func TestInit(t *testing.T) {
	b := New(WithSize(64, 48))
	screen, err := b.Init(gr.Hints{})
	if err != nil {
		t.Fatal(err)
	}
	if want := geom.R(0, 0, 63, 47); screen != want {
		t.Errorf("Init() = %v, want %v", screen, want)
	}
	if _, err := b.Init(gr.Hints{}); err == nil {
		t.Error("second Init() = nil error")
	}
	_ = b.Close()
	if err := b.FillRect(geom.R(0, 0, 1, 1)); err == nil {
		t.Error("FillRect() after Close = nil error")
	}
}

func TestFillRect(t *testing.T) {
	b := open(t)

	_ = b.SetStyle(gr.DrawStyle{Color: 3, Mask: -1})
	_ = b.FillRect(geom.R(0, 0, 9, 9))
	if n := count(b, geom.R(0, 0, 63, 47), 3); n != 100 {
		t.Errorf("solid fill covered %d pixels, want 100", n)
	}

	// Plane mask: only bit 0 of color 6 reaches the framebuffer.
	_ = b.SetStyle(gr.DrawStyle{Color: 6, Mask: 1})
	_ = b.FillRect(geom.R(0, 0, 0, 0))
	if c, _ := b.ReadPixel(geom.Pt(0, 0)); c != 2 {
		t.Errorf("masked write = %d, want 2", c)
	}

	checker := style.Pattern{0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55}
	_ = b.SetStyle(gr.DrawStyle{Color: 4, Mask: -1, Fill: style.Stipple, Stipple: checker})
	_ = b.FillRect(geom.R(16, 16, 23, 23))
	if n := count(b, geom.R(16, 16, 23, 23), 4); n != 32 {
		t.Errorf("stipple fill covered %d pixels, want 32", n)
	}
}

func TestDrawLine(t *testing.T) {
	b := open(t)

	_ = b.SetStyle(gr.DrawStyle{Color: 2, Mask: -1})
	_ = b.DrawLine(geom.Seg(0, 5, 15, 5))
	if n := count(b, geom.R(0, 5, 63, 5), 2); n != 16 {
		t.Errorf("zero pattern drew %d pixels, want a solid 16", n)
	}

	_ = b.SetStyle(gr.DrawStyle{Color: 3, Mask: -1, Outline: 0x00ff})
	_ = b.DrawLine(geom.Seg(0, 9, 15, 9))
	if n := count(b, geom.R(0, 9, 63, 9), 3); n != 8 {
		t.Errorf("dashed line drew %d pixels, want 8", n)
	}
}

func TestFillPolygon(t *testing.T) {
	b := open(t)
	_ = b.SetStyle(gr.DrawStyle{Color: 5, Mask: -1})

	tri := []geom.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 0, Y: 30}}
	if err := b.FillPolygon(tri, geom.R(0, 0, 9, 9)); err != nil {
		t.Fatal(err)
	}
	if n := count(b, geom.R(0, 0, 63, 47), 5); n == 0 || n > 100 {
		t.Errorf("clipped polygon covered %d pixels", n)
	}
	if c, _ := b.ReadPixel(geom.Pt(12, 2)); c == 5 {
		t.Error("polygon drawn outside its clip")
	}
}

func TestPutText(t *testing.T) {
	b := open(t, WithSize(200, 60))
	_ = b.SetStyle(gr.DrawStyle{Color: 1, Mask: -1})

	want, _ := b.TextSize("Hg", gr.TextLarge)
	got, err := b.PutText("Hg", geom.Pt(10, 10), gr.TextLarge, b.fb.Rect())
	if err != nil {
		t.Fatal(err)
	}
	if got != want.Translate(geom.Pt(10, 10)) {
		t.Errorf("PutText() = %v, want TextSize moved to pos %v", got, want.Translate(geom.Pt(10, 10)))
	}
	inside := count(b, got, 1)
	if inside == 0 {
		t.Fatal("PutText() drew nothing")
	}
	if total := count(b, b.fb.Rect(), 1); total != inside {
		t.Errorf("%d text pixels outside the returned bounds", total-inside)
	}

	empty, _ := b.PutText("", geom.Pt(0, 0), gr.TextDefault, b.fb.Rect())
	if !empty.Empty() {
		t.Errorf("PutText(\"\") = %v, want empty", empty)
	}
}

func TestDrawGlyphAndCursor(t *testing.T) {
	b := open(t)
	_ = b.SetStyle(gr.DrawStyle{Color: 7, Mask: -1})

	if err := b.DrawGlyph(0, geom.Pt(4, 4), b.fb.Rect()); err != nil {
		t.Fatal(err)
	}
	if n := count(b, geom.R(4, 4, 11, 11), 7); n != 28 {
		t.Errorf("box glyph drew %d pixels, want 28", n)
	}
	if err := b.DrawGlyph(len(Glyphs), geom.Pt(0, 0), b.fb.Rect()); err == nil {
		t.Error("DrawGlyph(out of range) = nil error")
	}

	if err := b.SetCursor(2); err != nil || b.CursorShape() != 2 {
		t.Errorf("SetCursor(2) = %v, shape %d", err, b.CursorShape())
	}
	if err := b.SetCursor(-1); err == nil {
		t.Error("SetCursor(-1) = nil error")
	}
}

func TestBitBlt(t *testing.T) {
	b := open(t)
	_ = b.SetStyle(gr.DrawStyle{Color: 4, Mask: -1})
	_ = b.FillRect(geom.R(0, 0, 3, 3))

	// Overlapping copy must read the source first.
	if err := b.BitBlt(geom.R(0, 0, 3, 3), geom.Pt(2, 2)); err != nil {
		t.Fatal(err)
	}
	if n := count(b, geom.R(2, 2, 5, 5), 4); n != 16 {
		t.Errorf("blitted block has %d pixels, want 16", n)
	}
	if c, _ := b.ReadPixel(geom.Pt(0, 0)); c != 4 {
		t.Error("source outside the overlap was cleared")
	}
	if _, err := b.ReadPixel(geom.Pt(-1, 0)); err == nil {
		t.Error("ReadPixel(off screen) = nil error")
	}
}

func TestFlushWritesPNG(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := New(WithSize(16, 8), WithFs(fs))
	if _, err := b.Init(gr.Hints{Graphics: "/out/frame.PNG"}); err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	data, err := afero.ReadFile(fs, "/out/frame.PNG")
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 16 || got.Y != 8 {
		t.Errorf("PNG size = %v, want 16x8", got)
	}
}

func TestWindows(t *testing.T) {
	b := open(t)

	if err := b.CreateWindow(1, "one", geom.R(0, 0, 9, 9)); err != nil {
		t.Fatal(err)
	}
	if err := b.CreateWindow(2, "off", geom.R(100, 100, 120, 120)); err == nil {
		t.Error("CreateWindow(off screen) = nil error")
	}
	_ = b.CreateWindow(3, "three", geom.R(5, 5, 20, 20))

	if id, ok := b.WindowID("three"); !ok || id != 3 {
		t.Errorf("WindowID(three) = %d, %v", id, ok)
	}
	if name, ok := b.WindowName(1); !ok || name != "one" {
		t.Errorf("WindowName(1) = %q, %v", name, ok)
	}

	_ = b.OverWindow(1)
	if got := b.Stacking(); len(got) != 2 || got[1] != 1 {
		t.Errorf("Stacking() after OverWindow(1) = %v", got)
	}
	_ = b.UnderWindow(1)
	if got := b.Stacking(); got[0] != 1 {
		t.Errorf("Stacking() after UnderWindow(1) = %v", got)
	}

	_ = b.UpdateIcon(3, "busy")
	if b.Icon(3) != "busy" {
		t.Errorf("Icon(3) = %q", b.Icon(3))
	}

	b.Move(geom.Pt(8, 9))
	if !b.EventPending() {
		t.Fatal("EventPending() = false after Move")
	}
	b.NextEvent()
	if p, _ := b.CursorPos(3); p != geom.Pt(3, 4) {
		t.Errorf("CursorPos(3) = %v, want (3,4)", p)
	}
	if _, err := b.CursorPos(9); err == nil {
		t.Error("CursorPos(unknown) = nil error")
	}

	if err := b.DeleteWindow(3); err != nil {
		t.Fatal(err)
	}
	if err := b.ConfigureWindow(3, geom.R(0, 0, 1, 1)); err == nil {
		t.Error("ConfigureWindow(deleted) = nil error")
	}
}

func TestStopHoldsEvents(t *testing.T) {
	b := open(t)
	b.Move(geom.Pt(1000, -5))
	_ = b.Stop()
	if b.EventPending() {
		t.Error("EventPending() = true while stopped")
	}
	_ = b.Resume()
	p, ok := b.NextEvent()
	if !ok || p != geom.Pt(63, 0) {
		t.Errorf("NextEvent() = %v, %v, want clamped (63,0)", p, ok)
	}
	if _, ok := b.NextEvent(); ok {
		t.Error("NextEvent() on an empty queue = true")
	}
}

func TestBackingStore(t *testing.T) {
	b := open(t)
	_ = b.CreateWindow(1, "w", geom.R(0, 0, 15, 15))
	_ = b.SetStyle(gr.DrawStyle{Color: 6, Mask: -1})
	_ = b.FillRect(geom.R(0, 0, 15, 15))

	if err := b.CreateBackingStore(1, geom.R(0, 0, 15, 15)); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.GetBackingStore(1, geom.R(0, 0, 3, 3)); ok {
		t.Error("GetBackingStore() on an empty store = ok")
	}
	if err := b.PutBackingStore(1, b.fb.Sub(geom.R(0, 0, 7, 7))); err != nil {
		t.Fatal(err)
	}
	pix, ok, err := b.GetBackingStore(1, geom.R(2, 2, 5, 5))
	if err != nil || !ok {
		t.Fatalf("GetBackingStore() = %v, %v", ok, err)
	}
	if c, _ := pix.At(3, 3); c != 6 {
		t.Errorf("saved pixel = %d, want 6", c)
	}
	if _, ok, _ := b.GetBackingStore(1, geom.R(6, 6, 9, 9)); ok {
		t.Error("GetBackingStore() across unsaved pixels = ok")
	}

	// Damage repaints the saved part only.
	b.fb.Fill(0)
	_ = b.Damaged(1, geom.R(0, 0, 15, 15))
	if n := count(b, geom.R(0, 0, 15, 15), 6); n != 64 {
		t.Errorf("Damaged() restored %d pixels, want 64", n)
	}

	_ = b.ScrollBackingStore(1, geom.Pt(8, 0))
	if _, ok, _ := b.GetBackingStore(1, geom.R(8, 0, 15, 7)); !ok {
		t.Error("scrolled pixels not found at their new place")
	}
	if err := b.FreeBackingStore(1); err != nil {
		t.Fatal(err)
	}
	if err := b.FreeBackingStore(1); err == nil {
		t.Error("double FreeBackingStore() = nil error")
	}
}

func TestSession(t *testing.T) {
	s, err := gr.Select(gr.Hints{Display: "fb"}, gr.WithEnv(func(string) (string, bool) { return "", false }))
	if err != nil {
		t.Fatalf("Select(fb) error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if s.Slots() != gr.AllSlots || s.PixelCorrect() != 1 {
		t.Fatalf("Slots() = %v, PixelCorrect() = %d", s.Slots(), s.PixelCorrect())
	}
	if err := s.LoadStyles(strings.NewReader(testStyles)); err != nil {
		t.Fatal(err)
	}
	b := s.Backend().(*Backend)

	w, err := s.CreateWindow("main", geom.R(0, 0, 99, 99))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Lock(w); err != nil {
		t.Fatal(err)
	}
	_ = s.SetStyle(1)
	_ = s.FillRect(geom.R(10, 10, 19, 19))
	if c, _ := s.ReadPixel(geom.Pt(19, 19)); c != 3 {
		t.Errorf("top-right corner = %d, want 3 on a pixel-based backend", c)
	}

	h, err := s.CreateBackingStore(w, geom.R(0, 0, 99, 99))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutBackingStore(h, geom.R(10, 10, 19, 19), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Unlock(w); err != nil {
		t.Fatal(err)
	}

	b.fb.Fill(0)
	_ = s.Damaged(w, geom.R(0, 0, 14, 14))
	_ = s.Damaged(w, geom.R(12, 12, 30, 30))
	if n := s.DeliverDamage(); n != 1 {
		t.Errorf("DeliverDamage() = %d calls, want 1", n)
	}
	if n := count(b, geom.R(10, 10, 19, 19), 3); n != 100 {
		t.Errorf("damage repaint restored %d pixels, want 100", n)
	}
}
