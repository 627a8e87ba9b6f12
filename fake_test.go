package gr

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/pixmap"
	"github.com/gogpu/gr/textio"
)

var errFake = errors.New("fake: rejected")

type damageCall struct {
	w WindowID
	r geom.Rect
}

// fakeBackend records every call. It implements every optional interface;
// the descriptor decides which slots are bound.
type fakeBackend struct {
	screen  geom.Rect
	initErr error
	hints   Hints

	calls    []string
	locks    []geom.Rect
	style    DrawStyle
	lines    []geom.Segment
	rects    []geom.Rect
	polygons [][]geom.Point
	clips    []geom.Rect
	blits    []geom.Rect
	fb       *pixmap.Pixmap
	reads    int
	cmap     []cmap.Entry
	damaged  []damageCall
	icons    map[WindowID]string
	names    map[WindowID]string
	stores   map[WindowID]*pixmap.Pixmap
	scrolled []geom.Point
	cursor   int
	tablet   bool
	pending  bool
	logger   *slog.Logger

	rejectCreate bool
}

func newFakeBackend() *fakeBackend {
	screen := geom.R(0, 0, 99, 79)
	return &fakeBackend{
		screen: screen,
		fb:     pixmap.New(screen),
		icons:  make(map[WindowID]string),
		names:  make(map[WindowID]string),
		stores: make(map[WindowID]*pixmap.Pixmap),
	}
}

func (f *fakeBackend) call(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) SetLogger(l *slog.Logger) { f.logger = l }

func (f *fakeBackend) Init(h Hints) (geom.Rect, error) {
	f.call("Init")
	f.hints = h
	return f.screen, f.initErr
}

func (f *fakeBackend) Close() error { f.call("Close"); return nil }

func (f *fakeBackend) Lock(w WindowID, frame geom.Rect) error {
	f.call("Lock %d", w)
	f.locks = append(f.locks, frame)
	return nil
}

func (f *fakeBackend) Unlock(w WindowID) error { f.call("Unlock %d", w); return nil }

func (f *fakeBackend) SetStyle(ds DrawStyle) error {
	f.style = ds
	return nil
}

func (f *fakeBackend) DrawLine(seg geom.Segment) error {
	f.lines = append(f.lines, seg)
	return nil
}

func (f *fakeBackend) FillRect(r geom.Rect) error {
	f.rects = append(f.rects, r)
	f.fb.FillRect(r, f.style.Color, ^0)
	return nil
}

func (f *fakeBackend) FillPolygon(pts []geom.Point, clip geom.Rect) error {
	f.polygons = append(f.polygons, pts)
	f.clips = append(f.clips, clip)
	return nil
}

func (f *fakeBackend) PutText(text string, pos geom.Point, _ TextSize, clip geom.Rect) (geom.Rect, error) {
	f.clips = append(f.clips, clip)
	return geom.R(pos.X, pos.Y, pos.X+8*len(text)-1, pos.Y+11), nil
}

func (f *fakeBackend) TextSize(text string, _ TextSize) (geom.Rect, error) {
	return geom.R(0, 0, 8*len(text)-1, 11), nil
}

func (f *fakeBackend) BitBlt(src geom.Rect, dst geom.Point) error {
	f.blits = append(f.blits, src, geom.R(dst.X, dst.Y, dst.X, dst.Y))
	return nil
}

func (f *fakeBackend) ReadPixel(p geom.Point) (int, error) {
	f.reads++
	c, ok := f.fb.At(p.X, p.Y)
	if !ok {
		return 0, fmt.Errorf("fake: %v off screen", p)
	}
	return c, nil
}

func (f *fakeBackend) Flush() error { f.call("Flush"); return nil }

func (f *fakeBackend) SetColorMap(entries []cmap.Entry) error {
	f.cmap = entries
	return nil
}

func (f *fakeBackend) DefaultColorMap() []cmap.Entry { return cmap.Basic() }

func (f *fakeBackend) DrawGlyph(n int, pos geom.Point, clip geom.Rect) error {
	f.call("DrawGlyph %d", n)
	return nil
}

func (f *fakeBackend) EnableTablet() error  { f.call("EnableTablet"); f.tablet = true; return nil }
func (f *fakeBackend) DisableTablet() error { f.call("DisableTablet"); f.tablet = false; return nil }

func (f *fakeBackend) SetCursor(n int) error { f.cursor = n; return nil }

func (f *fakeBackend) CursorPos(w WindowID) (geom.Point, error) { return geom.Pt(5, 6), nil }
func (f *fakeBackend) CursorRootPos() (geom.Point, error)       { return geom.Pt(15, 16), nil }

func (f *fakeBackend) EventPending() bool { return f.pending }

func (f *fakeBackend) CreateWindow(w WindowID, name string, frame geom.Rect) error {
	if f.rejectCreate {
		return errFake
	}
	f.call("CreateWindow %d", w)
	f.names[w] = name
	return nil
}

func (f *fakeBackend) DeleteWindow(w WindowID) error {
	f.call("DeleteWindow %d", w)
	delete(f.names, w)
	return nil
}

func (f *fakeBackend) ConfigureWindow(w WindowID, frame geom.Rect) error {
	f.call("ConfigureWindow %d", w)
	return nil
}

func (f *fakeBackend) OverWindow(w WindowID) error  { f.call("OverWindow %d", w); return nil }
func (f *fakeBackend) UnderWindow(w WindowID) error { f.call("UnderWindow %d", w); return nil }

func (f *fakeBackend) Damaged(w WindowID, r geom.Rect) error {
	f.damaged = append(f.damaged, damageCall{w, r})
	return nil
}

func (f *fakeBackend) UpdateIcon(w WindowID, text string) error {
	f.icons[w] = text
	return nil
}

func (f *fakeBackend) WindowID(name string) (WindowID, bool) {
	for w, n := range f.names {
		if n == name {
			return w + 1000, true
		}
	}
	return 0, false
}

func (f *fakeBackend) WindowName(w WindowID) (string, bool) {
	n, ok := f.names[w-1000]
	return n, ok
}

func (f *fakeBackend) CreateBackingStore(w WindowID, r geom.Rect) error {
	f.call("CreateBackingStore %d", w)
	f.stores[w] = pixmap.New(r)
	return nil
}

func (f *fakeBackend) GetBackingStore(w WindowID, r geom.Rect) (*pixmap.Pixmap, bool, error) {
	f.call("GetBackingStore %d", w)
	p, ok := f.stores[w]
	if !ok {
		return nil, false, nil
	}
	return p.Sub(r), true, nil
}

func (f *fakeBackend) PutBackingStore(w WindowID, pix *pixmap.Pixmap) error {
	f.call("PutBackingStore %d", w)
	f.stores[w].Draw(pix)
	return nil
}

func (f *fakeBackend) ScrollBackingStore(w WindowID, delta geom.Point) error {
	f.scrolled = append(f.scrolled, delta)
	return nil
}

func (f *fakeBackend) FreeBackingStore(w WindowID) error {
	f.call("FreeBackingStore %d", w)
	delete(f.stores, w)
	return nil
}

func (f *fakeBackend) Stop() error   { f.call("Stop"); return nil }
func (f *fakeBackend) Resume() error { f.call("Resume"); return nil }

// bareBackend exposes only the mandatory methods of the wrapped backend.
type bareBackend struct {
	Backend
}

// faultLog collects faults instead of panicking.
type faultLog struct {
	faults []*Fault
}

func (l *faultLog) handle(f *Fault) { l.faults = append(l.faults, f) }

func (l *faultLog) last() *Fault {
	if len(l.faults) == 0 {
		return nil
	}
	return l.faults[len(l.faults)-1]
}

type harness struct {
	s      *Session
	fb     *fakeBackend
	faults *faultLog
	sink   *textio.Recorder
}

// testRegistry returns a registry holding one "fake" descriptor.
func testRegistry(b Backend, slots SlotSet) *Registry {
	r := NewRegistry()
	r.Register(Descriptor{
		Name:         "fake",
		PixelCorrect: 1,
		Slots:        MandatorySlots | slots,
		Factory:      func() Backend { return b },
	})
	return r
}

func noEnv(string) (string, bool) { return "", false }

// closeActive closes a session left open by a previous test.
func closeActive(t *testing.T) {
	t.Helper()
	if s := Active(); s != nil {
		s.status, s.resumeTo = Idle, Idle
		if err := s.Close(); err != nil {
			t.Logf("closing leftover session: %v", err)
		}
	}
}

// newHarness selects a session on a fake backend binding slots.
func newHarness(t *testing.T, slots SlotSet, opts ...Option) *harness {
	t.Helper()
	closeActive(t)

	h := &harness{fb: newFakeBackend(), faults: &faultLog{}, sink: &textio.Recorder{}}
	opts = append([]Option{
		WithRegistry(testRegistry(h.fb, slots)),
		WithEnv(noEnv),
		WithSink(h.sink),
		WithFaultHandler(h.faults.handle),
	}, opts...)

	s, err := Select(Hints{Display: "fake"}, opts...)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	h.s = s
	t.Cleanup(func() { closeActive(t) })
	return h
}

// window creates a window and fails the test on error.
func (h *harness) window(t *testing.T, name string, frame geom.Rect) WindowID {
	t.Helper()
	w, err := h.s.CreateWindow(name, frame)
	if err != nil {
		t.Fatalf("CreateWindow(%q) error = %v", name, err)
	}
	return w
}

// locked creates a window over the whole screen and locks it.
func (h *harness) locked(t *testing.T) WindowID {
	t.Helper()
	w := h.window(t, "main", h.fb.screen)
	if err := h.s.Lock(w); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	return w
}
