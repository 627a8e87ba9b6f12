package gr

import (
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/pixmap"
	"github.com/gogpu/gr/style"
)

// WindowID identifies a window known to the dispatch layer.
type WindowID uint32

// ScreenWindow is the reserved whole-screen window. Locking it requires
// the window-manager capability; see Session.GrantScreen.
const ScreenWindow WindowID = 0

// TextSize selects one of the backend's text fonts.
type TextSize int

// Text sizes, smallest first.
const (
	TextSmall TextSize = iota
	TextMedium
	TextLarge
	TextXLarge
	TextDefault
)

func (t TextSize) String() string {
	switch t {
	case TextSmall:
		return "small"
	case TextMedium:
		return "medium"
	case TextLarge:
		return "large"
	case TextXLarge:
		return "xlarge"
	case TextDefault:
		return "default"
	}
	return "TextSize(?)"
}

// DrawStyle is a style table entry resolved for drawing. Backends receive
// it through SetStyle and apply it to every following draw call.
type DrawStyle struct {
	Index   int
	Color   int // color map index
	Mask    int // plane write mask
	Outline uint16
	Fill    style.FillStyle
	Stipple style.Pattern
}

// Backend is the mandatory part of the capability table. Optional slots
// are the small interfaces below; a backend binds them by implementing
// the interface and declaring the slots in its Descriptor.
//
// All geometry passed to a backend has been clipped by the session: lines
// and rectangles arrive truncated, and calls that cannot be truncated
// exactly (polygons, text, glyphs) receive the clip window to apply.
type Backend interface {
	// Init opens the display and returns the screen rectangle.
	Init(h Hints) (geom.Rect, error)
	Close() error

	Lock(w WindowID, frame geom.Rect) error
	Unlock(w WindowID) error

	SetStyle(ds DrawStyle) error
	DrawLine(seg geom.Segment) error
	FillRect(r geom.Rect) error
	FillPolygon(pts []geom.Point, clip geom.Rect) error
	// PutText draws text with its bottom-left at pos and returns the
	// bounds actually drawn.
	PutText(text string, pos geom.Point, size TextSize, clip geom.Rect) (geom.Rect, error)
	// TextSize returns the bounds of text drawn at the origin.
	TextSize(text string, size TextSize) (geom.Rect, error)
	// BitBlt copies the pixels of src so its bottom-left lands on dst.
	BitBlt(src geom.Rect, dst geom.Point) error
	ReadPixel(p geom.Point) (int, error)
	Flush() error

	SetColorMap(entries []cmap.Entry) error
	DefaultColorMap() []cmap.Entry
}

// GlyphDrawer binds SlotDrawGlyph.
type GlyphDrawer interface {
	DrawGlyph(n int, pos geom.Point, clip geom.Rect) error
}

// Tablet binds SlotEnableTablet and SlotDisableTablet.
type Tablet interface {
	EnableTablet() error
	DisableTablet() error
}

// CursorSetter binds SlotSetCursor.
type CursorSetter interface {
	SetCursor(n int) error
}

// CursorReader binds SlotGetCursorPos and SlotGetCursorRootPos.
type CursorReader interface {
	CursorPos(w WindowID) (geom.Point, error)
	CursorRootPos() (geom.Point, error)
}

// EventPoller binds SlotEventPending. EventPending must not block.
type EventPoller interface {
	EventPending() bool
}

// WindowManager binds the window lifecycle slots. CreateWindow may veto a
// window by returning an error.
type WindowManager interface {
	CreateWindow(w WindowID, name string, frame geom.Rect) error
	DeleteWindow(w WindowID) error
	ConfigureWindow(w WindowID, frame geom.Rect) error
	OverWindow(w WindowID) error
	UnderWindow(w WindowID) error
}

// DamageHandler binds SlotDamaged. It receives merged damage regions.
type DamageHandler interface {
	Damaged(w WindowID, r geom.Rect) error
}

// IconUpdater binds SlotUpdateIcon.
type IconUpdater interface {
	UpdateIcon(w WindowID, text string) error
}

// WindowNamer binds SlotWindowID and SlotWindowName, mapping the
// backend's native window names.
type WindowNamer interface {
	WindowID(name string) (WindowID, bool)
	WindowName(w WindowID) (string, bool)
}

// BackingStorer binds the backing-store slots. A backend implementing it
// owns the pixels of every backing store.
type BackingStorer interface {
	CreateBackingStore(w WindowID, r geom.Rect) error
	// GetBackingStore returns the cached pixels of r. ok is false when
	// nothing is cached there.
	GetBackingStore(w WindowID, r geom.Rect) (pix *pixmap.Pixmap, ok bool, err error)
	PutBackingStore(w WindowID, pix *pixmap.Pixmap) error
	FreeBackingStore(w WindowID) error
}

// BackingScroller binds SlotScrollBackingStore.
type BackingScroller interface {
	ScrollBackingStore(w WindowID, delta geom.Point) error
}

// Stopper binds SlotStop and SlotResume, the job-control hooks.
type Stopper interface {
	Stop() error
	Resume() error
}
