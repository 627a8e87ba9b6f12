package gr

import (
	"errors"
	"testing"

	"github.com/gogpu/gr/geom"
)

func TestCursorPos(t *testing.T) {
	h := newHarness(t, 0)

	p, err := h.s.CursorPos(1)
	if !errors.Is(err, ErrNotSupported) || p != DefaultCursor {
		t.Errorf("CursorPos() unbound = %v, %v, want %v, ErrNotSupported", p, err, DefaultCursor)
	}
	p, err = h.s.CursorRootPos()
	if !errors.Is(err, ErrNotSupported) || p != geom.Pt(100, 100) {
		t.Errorf("CursorRootPos() unbound = %v, %v", p, err)
	}

	h = newHarness(t, CursorPosSlots)
	if p, err := h.s.CursorPos(1); err != nil || p != geom.Pt(5, 6) {
		t.Errorf("CursorPos() = %v, %v, want (5,6)", p, err)
	}
	if p, err := h.s.CursorRootPos(); err != nil || p != geom.Pt(15, 16) {
		t.Errorf("CursorRootPos() = %v, %v, want (15,16)", p, err)
	}
}

func TestSetCursor(t *testing.T) {
	h := newHarness(t, 0)
	if err := h.s.SetCursor(2); !errors.Is(err, ErrNotSupported) {
		t.Errorf("SetCursor() unbound error = %v", err)
	}

	h = newHarness(t, Slots(SlotSetCursor))
	if err := h.s.SetCursor(2); err != nil || h.fb.cursor != 2 {
		t.Errorf("SetCursor(2) = %v, backend cursor %d", err, h.fb.cursor)
	}
}

func TestTablet_Idempotent(t *testing.T) {
	h := newHarness(t, TabletSlots)

	for range 2 {
		if err := h.s.EnableTablet(); err != nil {
			t.Fatal(err)
		}
	}
	if !h.s.TabletEnabled() || !h.fb.tablet {
		t.Error("tablet not enabled")
	}
	for range 2 {
		if err := h.s.DisableTablet(); err != nil {
			t.Fatal(err)
		}
	}

	var enables, disables int
	for _, c := range h.fb.calls {
		switch c {
		case "EnableTablet":
			enables++
		case "DisableTablet":
			disables++
		}
	}
	if enables != 1 || disables != 1 {
		t.Errorf("backend saw %d enables, %d disables, want 1 each", enables, disables)
	}
}

func TestTablet_Unbound(t *testing.T) {
	h := newHarness(t, 0)
	if err := h.s.EnableTablet(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("EnableTablet() error = %v, want ErrNotSupported", err)
	}
	if err := h.s.DisableTablet(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("DisableTablet() error = %v, want ErrNotSupported", err)
	}
}

func TestEventPending(t *testing.T) {
	h := newHarness(t, 0)
	h.fb.pending = true
	if h.s.EventPending() {
		t.Error("EventPending() unbound = true")
	}

	h = newHarness(t, Slots(SlotEventPending))
	if h.s.EventPending() {
		t.Error("EventPending() = true with nothing queued")
	}
	h.fb.pending = true
	if !h.s.EventPending() {
		t.Error("EventPending() = false with input queued")
	}
}
