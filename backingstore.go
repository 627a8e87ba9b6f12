package gr

import (
	"fmt"

	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/pixmap"
	"github.com/google/uuid"
)

// BackingHandle identifies the backing store of one window.
type BackingHandle struct {
	id uuid.UUID
}

func (h BackingHandle) String() string {
	return h.id.String()
}

// IsZero reports whether h is the zero handle, which no store ever has.
func (h BackingHandle) IsZero() bool {
	return h.id == uuid.Nil
}

type backingStore struct {
	window WindowID
	rect   geom.Rect

	// Manager-owned pixels. valid holds 1 where pix was saved by a put;
	// the rest reads through to the live backend on every get.
	pix   *pixmap.Pixmap
	valid *pixmap.Pixmap

	byBackend bool
	freed     bool
}

// backendStores reports whether the backend owns backing-store pixels.
func (s *Session) backendStores() (BackingStorer, bool) {
	bs, ok := s.backend.(BackingStorer)
	return bs, ok && s.bound&BackingStoreSlots == BackingStoreSlots
}

// CreateBackingStore returns the backing store of window w covering r,
// creating it on first use. A window has at most one store; creating it
// again returns the same handle.
func (s *Session) CreateBackingStore(w WindowID, r geom.Rect) (BackingHandle, error) {
	if s.closed {
		return BackingHandle{}, ErrClosed
	}
	if _, ok := s.WindowFrame(w); !ok {
		return BackingHandle{}, fmt.Errorf("gr: create backing store for window %d: %w", w, ErrUnknownWindow)
	}
	if h, ok := s.byWindow[w]; ok {
		return h, nil
	}

	st := &backingStore{window: w, rect: r}
	if bs, ok := s.backendStores(); ok {
		if err := bs.CreateBackingStore(w, r); err != nil {
			return BackingHandle{}, fmt.Errorf("gr: create backing store for window %d: %w", w, err)
		}
		st.byBackend = true
	} else {
		st.pix = pixmap.New(r)
		st.valid = pixmap.New(r)
	}

	h := BackingHandle{id: uuid.New()}
	s.stores[h] = st
	s.byWindow[w] = h
	Logger().Debug("gr: backing store created", "window", w, "rect", r.String(), "backend", st.byBackend)
	return h, nil
}

// store resolves h for op. A freed handle is a use-after-free fault.
func (s *Session) store(op string, h BackingHandle) (*backingStore, error) {
	if s.closed {
		return nil, ErrClosed
	}
	st, ok := s.stores[h]
	if !ok {
		return nil, fmt.Errorf("gr: %s %v: %w", op, h, ErrUnknownHandle)
	}
	if st.freed {
		return nil, s.fault(op, ErrUseAfterFree, fmt.Sprintf("handle %v of window %d", h, st.window))
	}
	return st, nil
}

// GetBackingStore returns the pixels of r saved in h. Pixels the store
// does not hold are read from the screen each time, never cached.
func (s *Session) GetBackingStore(h BackingHandle, r geom.Rect) (*pixmap.Pixmap, error) {
	st, err := s.store("GetBackingStore", h)
	if err != nil {
		return nil, err
	}
	r = r.Intersect(st.rect)

	if st.byBackend {
		bs, _ := s.backendStores()
		pix, ok, err := bs.GetBackingStore(st.window, r)
		if err != nil {
			return nil, fmt.Errorf("gr: get backing store %v: %w", h, err)
		}
		if ok {
			return pix, nil
		}
		return s.capture(r)
	}

	out := pixmap.New(r)
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			if v, _ := st.valid.At(x, y); v != 0 {
				c, _ := st.pix.At(x, y)
				out.Set(x, y, c)
				continue
			}
			c, err := s.backend.ReadPixel(geom.Pt(x, y))
			if err != nil {
				return nil, fmt.Errorf("gr: get backing store %v: read pixel: %w", h, err)
			}
			out.Set(x, y, c)
		}
	}
	return out, nil
}

// PutBackingStore saves the part of pix inside r into h. A nil pix saves
// what the screen shows in r.
func (s *Session) PutBackingStore(h BackingHandle, r geom.Rect, pix *pixmap.Pixmap) error {
	st, err := s.store("PutBackingStore", h)
	if err != nil {
		return err
	}
	r = r.Intersect(st.rect)
	if r.Empty() {
		return nil
	}
	if pix == nil {
		if pix, err = s.capture(r); err != nil {
			return fmt.Errorf("gr: put backing store %v: %w", h, err)
		}
	}
	src := pix.Sub(r)

	if st.byBackend {
		bs, _ := s.backendStores()
		if err := bs.PutBackingStore(st.window, src); err != nil {
			return fmt.Errorf("gr: put backing store %v: %w", h, err)
		}
		return nil
	}
	st.pix.Draw(src)
	st.valid.FillRect(src.Rect().Intersect(pix.Rect()), 1, ^0)
	return nil
}

// ScrollBackingStore moves the saved pixels of h by delta. Pixels scrolled
// in are read from the screen on the next get.
func (s *Session) ScrollBackingStore(h BackingHandle, delta geom.Point) error {
	st, err := s.store("ScrollBackingStore", h)
	if err != nil {
		return err
	}
	if st.byBackend {
		sc, ok := s.backend.(BackingScroller)
		if !ok || !s.bound.Has(SlotScrollBackingStore) {
			return ErrNotSupported
		}
		if err := sc.ScrollBackingStore(st.window, delta); err != nil {
			return fmt.Errorf("gr: scroll backing store %v: %w", h, err)
		}
		return nil
	}
	st.pix.Shift(delta, 0)
	st.valid.Shift(delta, 0)
	return nil
}

// FreeBackingStore releases h. Every later use of h is a fault.
func (s *Session) FreeBackingStore(h BackingHandle) error {
	st, err := s.store("FreeBackingStore", h)
	if err != nil {
		return err
	}
	return s.freeStore(h, st)
}

// BackingStore returns the live handle of window w.
func (s *Session) BackingStore(w WindowID) (BackingHandle, bool) {
	h, ok := s.byWindow[w]
	return h, ok
}

func (s *Session) freeStore(h BackingHandle, st *backingStore) error {
	st.freed = true
	st.pix, st.valid = nil, nil
	if s.byWindow[st.window] == h {
		delete(s.byWindow, st.window)
	}
	if !st.byBackend {
		return nil
	}
	bs, ok := s.backend.(BackingStorer)
	if !ok {
		return nil
	}
	if err := bs.FreeBackingStore(st.window); err != nil {
		return fmt.Errorf("gr: free backing store %v: %w", h, err)
	}
	return nil
}

// capture reads r from the screen.
func (s *Session) capture(r geom.Rect) (*pixmap.Pixmap, error) {
	out := pixmap.New(r)
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			c, err := s.backend.ReadPixel(geom.Pt(x, y))
			if err != nil {
				return nil, fmt.Errorf("read pixel: %w", err)
			}
			out.Set(x, y, c)
		}
	}
	return out, nil
}
