package gr

import (
	"fmt"

	"github.com/gogpu/gr/geom"
	"github.com/google/uuid"
)

// DisplayStatus is the state of the lock/unlock state machine.
type DisplayStatus int

const (
	// Idle: no drawing in progress.
	Idle DisplayStatus = iota
	// InProgress: a window is locked and drawing.
	InProgress
	// BreakPending: an interrupt arrived while drawing; draws are skipped
	// with ErrPreempted until Unlock.
	BreakPending
	// Suspended: the process is stopped by job control.
	Suspended
)

func (d DisplayStatus) String() string {
	switch d {
	case Idle:
		return "Idle"
	case InProgress:
		return "InProgress"
	case BreakPending:
		return "BreakPending"
	case Suspended:
		return "Suspended"
	}
	return "DisplayStatus(?)"
}

// ScreenToken is the window-manager capability: holding it is the only
// way to lock ScreenWindow.
type ScreenToken struct {
	id uuid.UUID
}

func (t ScreenToken) String() string {
	return t.id.String()
}

// GrantScreen hands out the session's screen token. It succeeds once per
// session; the window manager obtains it at startup and every later
// caller gets ErrPrivileged.
func (s *Session) GrantScreen() (ScreenToken, error) {
	if s.closed {
		return ScreenToken{}, ErrClosed
	}
	if s.granted {
		return ScreenToken{}, fmt.Errorf("gr: grant screen: %w", ErrPrivileged)
	}
	s.granted = true
	return s.token, nil
}

// Status returns the display status.
func (s *Session) Status() DisplayStatus {
	return s.status
}

// HaveLock reports whether a window is locked, including while a break is
// pending or the process is suspended inside a lock.
func (s *Session) HaveLock() bool {
	switch s.status {
	case InProgress, BreakPending:
		return true
	case Suspended:
		return s.resumeTo != Idle
	}
	return false
}

// LockedWindow returns the locked window, if any.
func (s *Session) LockedWindow() (WindowID, bool) {
	return s.lockedWin, s.HaveLock()
}

// Lock starts drawing into window w: the display goes from Idle to
// InProgress and the clip stack is reset to the window frame truncated to
// the screen. Locking while any lock is held is a reentrancy fault;
// locking while suspended without a lock returns ErrSuspended.
// ScreenWindow can only be locked through LockScreen.
func (s *Session) Lock(w WindowID) error {
	if w == ScreenWindow {
		return fmt.Errorf("gr: lock screen window: %w", ErrPrivileged)
	}
	win, ok := s.windows.Get(uint32(w))
	if !ok {
		if s.closed {
			return ErrClosed
		}
		return fmt.Errorf("gr: lock window %d: %w", w, ErrUnknownWindow)
	}
	return s.lock("Lock", w, win.Frame)
}

// LockScreen locks the whole screen. tok must be the token returned by
// GrantScreen.
func (s *Session) LockScreen(tok ScreenToken) error {
	if !s.granted || tok != s.token {
		return fmt.Errorf("gr: lock screen: %w", ErrPrivileged)
	}
	return s.lock("LockScreen", ScreenWindow, s.screen)
}

func (s *Session) lock(op string, w WindowID, frame geom.Rect) error {
	if s.closed {
		return ErrClosed
	}
	if s.status == Suspended && s.resumeTo == Idle {
		return fmt.Errorf("gr: lock window %d: %w", w, ErrSuspended)
	}
	if s.status != Idle {
		return s.fault(op, ErrReentrant,
			fmt.Sprintf("window %d locked while %s on window %d", w, s.status, s.lockedWin))
	}
	frame = frame.Intersect(s.screen)
	if err := s.backend.Lock(w, frame); err != nil {
		return fmt.Errorf("gr: lock window %d: %w", w, err)
	}
	s.status = InProgress
	s.lockedWin = w
	s.clip.Reset(frame)
	return nil
}

// Unlock ends drawing into w: InProgress or BreakPending go back to Idle.
// Unlocking in any other state, or unlocking a window that is not the
// locked one, is a reentrancy fault.
func (s *Session) Unlock(w WindowID) error {
	if s.closed {
		return ErrClosed
	}
	if s.status != InProgress && s.status != BreakPending {
		return s.fault("Unlock", ErrReentrant, fmt.Sprintf("window %d unlocked while %s", w, s.status))
	}
	if w != s.lockedWin {
		return s.fault("Unlock", ErrReentrant, fmt.Sprintf("window %d unlocked but window %d is locked", w, s.lockedWin))
	}
	s.status = Idle
	s.clip.Reset(s.screen)
	if err := s.backend.Unlock(w); err != nil {
		return fmt.Errorf("gr: unlock window %d: %w", w, err)
	}
	return nil
}

// RequestBreak asks the drawing in progress to stop early. It moves
// InProgress to BreakPending and is ignored in every other state.
func (s *Session) RequestBreak() {
	if s.status == InProgress {
		s.status = BreakPending
	}
}

// Stop suspends the display for job control and calls the backend stop
// hook if bound. Stopping a suspended display does nothing.
func (s *Session) Stop() error {
	if s.closed {
		return ErrClosed
	}
	if s.status == Suspended {
		return nil
	}
	s.resumeTo = s.status
	s.status = Suspended
	if st, ok := s.backend.(Stopper); ok && s.bound.Has(SlotStop) {
		if err := st.Stop(); err != nil {
			return s.reportError(fmt.Errorf("gr: stop backend: %w", err))
		}
	}
	return nil
}

// Resume returns to the state before Stop and calls the backend resume
// hook if bound. Resuming a display that is not suspended does nothing.
func (s *Session) Resume() error {
	if s.closed {
		return ErrClosed
	}
	if s.status != Suspended {
		return nil
	}
	s.status = s.resumeTo
	s.resumeTo = Idle
	if st, ok := s.backend.(Stopper); ok && s.bound.Has(SlotResume) {
		if err := st.Resume(); err != nil {
			return s.reportError(fmt.Errorf("gr: resume backend: %w", err))
		}
	}
	return nil
}

// drawable checks the display before a draw forwarder runs. It returns
// ErrPreempted while a break is pending or the process is suspended inside
// a lock, and faults when no lock is held.
func (s *Session) drawable(op string) error {
	switch {
	case s.closed:
		return ErrClosed
	case s.status == InProgress:
		return nil
	case s.status == BreakPending, s.status == Suspended && s.resumeTo != Idle:
		return ErrPreempted
	}
	return s.fault(op, ErrNotLocked, "")
}
