package gr

import (
	"errors"
	"fmt"

	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/internal/wintable"
)

// CreateWindow records a new window and notifies the backend. A backend
// veto fails with ErrRejectCreate and the window is not recorded.
func (s *Session) CreateWindow(name string, frame geom.Rect) (WindowID, error) {
	if s.closed {
		return 0, ErrClosed
	}
	w := s.nextWin
	if wm, ok := s.windowManager(SlotCreateWindow); ok {
		if err := wm.CreateWindow(w, name, frame); err != nil {
			return 0, s.reportError(fmt.Errorf("gr: create window %q: %w: %w", name, ErrRejectCreate, err))
		}
	}
	s.nextWin++
	s.windows.Add(uint32(w), name, frame)
	Logger().Debug("gr: window created", "window", w, "name", name, "frame", frame.String())
	return w, nil
}

// DeleteWindow forgets a window, frees its backing store and drops its
// pending damage. Deleting the locked window is a reentrancy fault.
func (s *Session) DeleteWindow(w WindowID) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.windows.Get(uint32(w)); !ok {
		return fmt.Errorf("gr: delete window %d: %w", w, ErrUnknownWindow)
	}
	if s.HaveLock() && s.lockedWin == w {
		return s.fault("DeleteWindow", ErrReentrant, fmt.Sprintf("window %d is locked", w))
	}

	var errs []error
	if h, ok := s.byWindow[w]; ok {
		if st := s.stores[h]; !st.freed {
			errs = append(errs, s.freeStore(h, st))
		}
	}
	s.windows.Remove(uint32(w))
	s.damage.Forget(uint32(w))
	if wm, ok := s.windowManager(SlotDeleteWindow); ok {
		if err := wm.DeleteWindow(w); err != nil {
			errs = append(errs, fmt.Errorf("gr: delete window %d: %w", w, err))
		}
	}
	return errors.Join(errs...)
}

// WindowFrame returns the frame of w. ScreenWindow's frame is the screen.
func (s *Session) WindowFrame(w WindowID) (geom.Rect, bool) {
	if w == ScreenWindow {
		return s.screen, true
	}
	win, ok := s.windows.Get(uint32(w))
	return win.Frame, ok
}

// Windows returns every window from bottom to top.
func (s *Session) Windows() []WindowID {
	stack := s.windows.Stack()
	out := make([]WindowID, len(stack))
	for i, id := range stack {
		out[i] = WindowID(id)
	}
	return out
}

// Damaged queues damage to r inside window w. Damage overlapping earlier
// damage of the same window in this cycle is merged with it; nothing
// reaches the backend before DeliverDamage.
func (s *Session) Damaged(w WindowID, r geom.Rect) error {
	frame, ok := s.WindowFrame(w)
	if !ok {
		return fmt.Errorf("gr: damage window %d: %w", w, ErrUnknownWindow)
	}
	s.damage.Add(uint32(w), frame, r)
	return nil
}

// WindowChanged marks every window fully damaged, as after the terminal
// or root window changed size.
func (s *Session) WindowChanged() {
	s.windows.Each(func(win wintable.Window) {
		s.damage.AddFull(win.ID, win.Frame)
	})
}

// DamagePending reports whether damage waits for delivery.
func (s *Session) DamagePending() bool {
	return s.damage.Pending()
}

// DeliverDamage ends the damage cycle: each merged region is passed to
// the backend once. It returns the number of regions delivered. Backend
// errors are reported to the sink and do not stop delivery.
func (s *Session) DeliverDamage() int {
	regions := s.damage.Drain()
	dh, ok := s.backend.(DamageHandler)
	if !ok || !s.bound.Has(SlotDamaged) || s.closed {
		return 0
	}
	for _, r := range regions {
		if err := dh.Damaged(WindowID(r.Window), r.Rect); err != nil {
			s.reportError(fmt.Errorf("gr: damage window %d: %w", r.Window, err))
		}
	}
	Logger().Debug("gr: damage delivered", "regions", len(regions))
	return len(regions)
}

// ConfigureWindow moves or resizes w. The window is fully damaged.
func (s *Session) ConfigureWindow(w WindowID, frame geom.Rect) error {
	if !s.windows.Configure(uint32(w), frame) {
		return fmt.Errorf("gr: configure window %d: %w", w, ErrUnknownWindow)
	}
	s.damage.AddFull(uint32(w), frame)
	if wm, ok := s.windowManager(SlotConfigureWindow); ok {
		if err := wm.ConfigureWindow(w, frame); err != nil {
			return fmt.Errorf("gr: configure window %d: %w", w, err)
		}
	}
	return nil
}

// RaiseWindow moves w to the top of the stacking order.
func (s *Session) RaiseWindow(w WindowID) error {
	if !s.windows.Raise(uint32(w)) {
		return fmt.Errorf("gr: raise window %d: %w", w, ErrUnknownWindow)
	}
	if wm, ok := s.windowManager(SlotOverWindow); ok {
		if err := wm.OverWindow(w); err != nil {
			return fmt.Errorf("gr: raise window %d: %w", w, err)
		}
	}
	return nil
}

// LowerWindow moves w to the bottom of the stacking order.
func (s *Session) LowerWindow(w WindowID) error {
	if !s.windows.Lower(uint32(w)) {
		return fmt.Errorf("gr: lower window %d: %w", w, ErrUnknownWindow)
	}
	if wm, ok := s.windowManager(SlotUnderWindow); ok {
		if err := wm.UnderWindow(w); err != nil {
			return fmt.Errorf("gr: lower window %d: %w", w, err)
		}
	}
	return nil
}

// UpdateIcon sets the text shown for w when iconified. It does nothing
// when the backend has no icons.
func (s *Session) UpdateIcon(w WindowID, text string) error {
	if _, ok := s.windows.Get(uint32(w)); !ok {
		return fmt.Errorf("gr: update icon %d: %w", w, ErrUnknownWindow)
	}
	iu, ok := s.backend.(IconUpdater)
	if !ok || !s.bound.Has(SlotUpdateIcon) || s.closed {
		return nil
	}
	if err := iu.UpdateIcon(w, text); err != nil {
		return fmt.Errorf("gr: update icon %d: %w", w, err)
	}
	return nil
}

// WindowIDFromName maps a window name to its id, asking the backend when
// it binds SlotWindowID and the session's own records otherwise.
func (s *Session) WindowIDFromName(name string) (WindowID, bool) {
	if wn, ok := s.backend.(WindowNamer); ok && s.bound.Has(SlotWindowID) {
		return wn.WindowID(name)
	}
	id, ok := s.windows.ByName(name)
	return WindowID(id), ok
}

// WindowNameFromID maps a window id to its name, the same way.
func (s *Session) WindowNameFromID(w WindowID) (string, bool) {
	if wn, ok := s.backend.(WindowNamer); ok && s.bound.Has(SlotWindowName) {
		return wn.WindowName(w)
	}
	win, ok := s.windows.Get(uint32(w))
	return win.Name, ok
}

func (s *Session) windowManager(slot Slot) (WindowManager, bool) {
	wm, ok := s.backend.(WindowManager)
	return wm, ok && s.bound.Has(slot) && !s.closed
}
