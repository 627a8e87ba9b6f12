package gr

import (
	"errors"
	"fmt"
)

// Errors returned by the dispatch layer.
var (
	// ErrNoMatch means no registered backend matches the display hint.
	ErrNoMatch = errors.New("gr: no backend matches display type")

	// ErrIncompleteBackend means a backend misses slots it must bind.
	ErrIncompleteBackend = errors.New("gr: backend is incomplete")

	// ErrNotSupported is returned by operations whose slot is unbound.
	ErrNotSupported = errors.New("gr: operation not supported by backend")

	// ErrPreempted reports a draw skipped because a break is pending. It
	// is not a failure: the caller treats the draw as a no-op.
	ErrPreempted = errors.New("gr: preempted")

	// ErrRejectCreate means the backend vetoed a window creation.
	ErrRejectCreate = errors.New("gr: window creation rejected")

	// ErrClosed is returned by every operation on a closed session.
	ErrClosed = errors.New("gr: session closed")

	// ErrLocked is returned by Reselect while a lock is held.
	ErrLocked = errors.New("gr: display is locked")

	// ErrSuspended is returned by Lock while the process is suspended by
	// job control with no lock held. Lock again after Resume.
	ErrSuspended = errors.New("gr: display suspended")

	ErrUnknownWindow = errors.New("gr: unknown window")
	ErrUnknownHandle = errors.New("gr: unknown backing store")
	ErrUnknownStyle  = errors.New("gr: unknown style")

	// ErrPrivileged means the operation needs the screen capability token.
	ErrPrivileged = errors.New("gr: screen access not granted")
)

// Programming-error faults. They reach callers only through *Fault.
var (
	ErrNotLocked    = errors.New("gr: display not locked")
	ErrReentrant    = errors.New("gr: lock discipline violated")
	ErrUseAfterFree = errors.New("gr: backing store used after free")
)

// SelectionError describes why no backend could be bound.
type SelectionError struct {
	Display string  // display hint that was matched
	Backend string  // descriptor name, empty for ErrNoMatch
	Missing SlotSet // slots the backend failed to bind
	Err     error   // ErrNoMatch or ErrIncompleteBackend
}

func (e *SelectionError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("gr: select %q: %v", e.Display, e.Err)
	}
	return fmt.Sprintf("gr: select %q: backend %s missing slots %v: %v", e.Display, e.Backend, e.Missing, e.Err)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// Fault is a violation of the lock or backing-store discipline. It is
// reported to the error sink, the sink is flushed, and the fault handler
// runs; the default handler panics with the fault.
type Fault struct {
	Op  string // operation that detected the fault
	Err error  // ErrNotLocked, ErrReentrant or ErrUseAfterFree
	Msg string
}

func (f *Fault) Error() string {
	if f.Msg == "" {
		return fmt.Sprintf("gr: fault in %s: %v", f.Op, f.Err)
	}
	return fmt.Sprintf("gr: fault in %s: %v: %s", f.Op, f.Err, f.Msg)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// FaultHandler is called for every fault after the sink is flushed.
type FaultHandler func(*Fault)

func panicOnFault(f *Fault) {
	panic(f)
}
