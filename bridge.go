package gr

import (
	"fmt"

	"github.com/gogpu/gr/geom"
)

// DefaultCursor is the position reported when the backend cannot read
// the cursor.
var DefaultCursor = geom.Pt(100, 100)

// CursorPos returns the cursor position relative to window w. Without a
// bound slot it returns DefaultCursor and ErrNotSupported; callers may use
// the position regardless.
func (s *Session) CursorPos(w WindowID) (geom.Point, error) {
	cr, ok := s.backend.(CursorReader)
	if !ok || !s.bound.Has(SlotGetCursorPos) || s.closed {
		return DefaultCursor, ErrNotSupported
	}
	p, err := cr.CursorPos(w)
	if err != nil {
		return DefaultCursor, fmt.Errorf("gr: cursor position: %w", err)
	}
	return p, nil
}

// CursorRootPos returns the cursor position in screen coordinates, with
// the same fallback as CursorPos.
func (s *Session) CursorRootPos() (geom.Point, error) {
	cr, ok := s.backend.(CursorReader)
	if !ok || !s.bound.Has(SlotGetCursorRootPos) || s.closed {
		return DefaultCursor, ErrNotSupported
	}
	p, err := cr.CursorRootPos()
	if err != nil {
		return DefaultCursor, fmt.Errorf("gr: cursor root position: %w", err)
	}
	return p, nil
}

// SetCursor selects cursor pattern n.
func (s *Session) SetCursor(n int) error {
	cs, ok := s.backend.(CursorSetter)
	if !ok || !s.bound.Has(SlotSetCursor) {
		return ErrNotSupported
	}
	if s.closed {
		return ErrClosed
	}
	if err := cs.SetCursor(n); err != nil {
		return fmt.Errorf("gr: set cursor %d: %w", n, err)
	}
	return nil
}

// EnableTablet switches the pointer to tablet mode. Enabling an enabled
// tablet does nothing.
func (s *Session) EnableTablet() error {
	t, ok := s.backend.(Tablet)
	if !ok || !s.bound.Has(SlotEnableTablet) {
		return ErrNotSupported
	}
	if s.closed {
		return ErrClosed
	}
	if s.tablet {
		return nil
	}
	if err := t.EnableTablet(); err != nil {
		return fmt.Errorf("gr: enable tablet: %w", err)
	}
	s.tablet = true
	return nil
}

// DisableTablet switches tablet mode off. Disabling a disabled tablet
// does nothing.
func (s *Session) DisableTablet() error {
	t, ok := s.backend.(Tablet)
	if !ok || !s.bound.Has(SlotDisableTablet) {
		return ErrNotSupported
	}
	if s.closed {
		return ErrClosed
	}
	if !s.tablet {
		return nil
	}
	if err := t.DisableTablet(); err != nil {
		return fmt.Errorf("gr: disable tablet: %w", err)
	}
	s.tablet = false
	return nil
}

// TabletEnabled reports whether tablet mode is on.
func (s *Session) TabletEnabled() bool {
	return s.tablet
}

// EventPending reports whether input is waiting. It never blocks and is
// false when the backend cannot tell.
func (s *Session) EventPending() bool {
	ep, ok := s.backend.(EventPoller)
	if !ok || !s.bound.Has(SlotEventPending) || s.closed {
		return false
	}
	return ep.EventPending()
}
