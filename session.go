package gr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/internal/clip"
	"github.com/gogpu/gr/internal/damage"
	"github.com/gogpu/gr/internal/wintable"
	"github.com/gogpu/gr/style"
	"github.com/google/uuid"
)

// Session is the graphics session: the one bound backend plus every piece
// of display state the dispatch layer owns (clip stack, style table,
// color map, display status, windows and backing stores).
//
// A Session is used from a single goroutine, the host's event loop.
type Session struct {
	desc    Descriptor
	backend Backend
	bound   SlotSet
	hints   Hints
	opts    options
	screen  geom.Rect
	closed  bool

	// lock state
	status    DisplayStatus
	resumeTo  DisplayStatus
	lockedWin WindowID
	token     ScreenToken
	granted   bool

	clip      *clip.Stack
	drawStyle DrawStyle

	styles     *style.Table
	stylesPath string
	cmap       *cmap.Map

	windows *wintable.Table
	nextWin WindowID
	damage  *damage.Tracker

	stores   map[BackingHandle]*backingStore
	byWindow map[WindowID]BackingHandle

	tablet bool
}

var (
	activeMu sync.Mutex
	active   *Session
)

// Active returns the open session, or nil.
func Active() *Session {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

// Select binds a backend matching hints and opens a session on it.
//
// Only one session is open per process: while one is open Select returns
// it unchanged and ignores hints and options. Empty hints are guessed
// with GuessHints. Select fails with a *SelectionError wrapping ErrNoMatch
// or ErrIncompleteBackend, or with the backend's Init error.
func Select(h Hints, opts ...Option) (*Session, error) {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active != nil {
		return active, nil
	}
	s, err := open(h, opts)
	if err != nil {
		return nil, err
	}
	active = s
	return s, nil
}

// Reselect closes the open session, if any, and selects again. It fails
// with ErrLocked while the open session holds a lock; the session then
// stays bound.
func Reselect(h Hints, opts ...Option) (*Session, error) {
	activeMu.Lock()
	if active != nil {
		if active.HaveLock() {
			activeMu.Unlock()
			return nil, fmt.Errorf("gr: reselect: %w", ErrLocked)
		}
		old := active
		activeMu.Unlock()
		if err := old.Close(); err != nil {
			Logger().Warn("gr: close before reselect", "backend", old.desc.Name, "err", err)
		}
	} else {
		activeMu.Unlock()
	}
	return Select(h, opts...)
}

func open(h Hints, opts []Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	h = h.withDefaults(GuessHints(o.lookupEnv))
	desc, ok := o.registry.match(h.Display)
	if !ok {
		return nil, &SelectionError{Display: h.Display, Err: ErrNoMatch}
	}

	b := desc.Factory()
	if b == nil {
		return nil, &SelectionError{Display: h.Display, Backend: desc.Name, Missing: MandatorySlots, Err: ErrIncompleteBackend}
	}
	impl := implemented(b)
	missing := (MandatorySlots &^ desc.Slots) | (desc.Slots &^ impl)
	if missing != 0 {
		return nil, &SelectionError{Display: h.Display, Backend: desc.Name, Missing: missing, Err: ErrIncompleteBackend}
	}

	propagateLogger(b, Logger())
	screen, err := b.Init(h)
	if err != nil {
		return nil, fmt.Errorf("gr: init backend %s: %w", desc.Name, err)
	}

	s := &Session{
		desc:     desc,
		backend:  b,
		bound:    desc.Slots & impl,
		hints:    h,
		opts:     o,
		screen:   screen,
		clip:     clip.NewStack(screen, desc.PixelCorrect),
		windows:  wintable.New(),
		nextWin:  ScreenWindow + 1,
		damage:   damage.NewTracker(),
		stores:   make(map[BackingHandle]*backingStore),
		byWindow: make(map[WindowID]BackingHandle),
		token:    ScreenToken{id: uuid.New()},
	}
	s.styles, _ = style.NewTable(nil, nil)
	s.cmap = cmap.New(desc.NumColors, b.DefaultColorMap())
	if err := b.SetColorMap(s.cmap.Entries()); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("gr: init backend %s: color map: %w", desc.Name, err)
	}

	Logger().Info("gr: backend selected",
		"backend", desc.Name, "display", h.Display, "screen", screen.String(),
		"pixelCorrect", desc.PixelCorrect, "slots", s.bound.Len())
	return s, nil
}

// Close closes the backend and ends the session. Closing while a lock is
// held is a reentrancy fault. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if s.HaveLock() {
		return s.fault("Close", ErrReentrant, fmt.Sprintf("window %d still locked", s.lockedWin))
	}
	s.closed = true

	activeMu.Lock()
	if active == s {
		active = nil
	}
	activeMu.Unlock()

	var errs []error
	for h, st := range s.stores {
		if !st.freed {
			errs = append(errs, s.freeStore(h, st))
		}
	}
	if err := s.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("gr: close backend %s: %w", s.desc.Name, err))
	}
	return errors.Join(errs...)
}

// Descriptor returns the descriptor of the bound backend.
func (s *Session) Descriptor() Descriptor {
	return s.desc
}

// Backend returns the bound backend value.
func (s *Session) Backend() Backend {
	return s.backend
}

// Hints returns the hints after defaults were filled in.
func (s *Session) Hints() Hints {
	return s.hints
}

// Bound reports whether slot is bound to the backend.
func (s *Session) Bound(slot Slot) bool {
	return s.bound.Has(slot)
}

// Slots returns every bound slot.
func (s *Session) Slots() SlotSet {
	return s.bound
}

// ScreenRect returns the screen rectangle reported by the backend.
func (s *Session) ScreenRect() geom.Rect {
	return s.screen
}

// PixelCorrect returns 1 for pixel-based backends and 0 for real-valued
// ones. It is fixed for the session's lifetime.
func (s *Session) PixelCorrect() int {
	return s.clip.PixelCorrect()
}

// CrossRect returns the extent of crosses drawn for zero-size boxes.
func (s *Session) CrossRect() geom.Rect {
	return s.opts.crossRect
}

// GridMultiple returns the grid fade multiple, zero when disabled.
func (s *Session) GridMultiple() int {
	return s.opts.gridMultiple
}

// reportError surfaces a recoverable error to the sink and returns it.
func (s *Session) reportError(err error) error {
	s.opts.sink.ReportError(err.Error())
	return err
}

// fault reports a discipline violation, flushes the sink and runs the
// fault handler. It returns the fault if the handler returns.
func (s *Session) fault(op string, kind error, msg string) error {
	f := &Fault{Op: op, Err: kind, Msg: msg}
	s.opts.sink.ReportError(f.Error())
	if err := s.opts.sink.Flush(); err != nil {
		Logger().Warn("gr: flush error sink", "err", err)
	}
	s.opts.onFault(f)
	return f
}
