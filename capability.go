package gr

import (
	"math/bits"
	"strings"
)

// Slot names one operation of the capability table.
type Slot uint8

// Mandatory slots. Every backend must bind all of them.
const (
	SlotInit Slot = iota
	SlotClose
	SlotLock
	SlotUnlock
	SlotSetStyle
	SlotDrawLine
	SlotFillRect
	SlotFillPolygon
	SlotPutText
	SlotTextSize
	SlotBitBlt
	SlotReadPixel
	SlotFlush
	SlotSetColorMap
	SlotDefaultColorMap

	// Optional slots.

	SlotDrawGlyph
	SlotEnableTablet
	SlotDisableTablet
	SlotSetCursor
	SlotGetCursorPos
	SlotGetCursorRootPos
	SlotEventPending
	SlotCreateWindow
	SlotDeleteWindow
	SlotDamaged
	SlotUpdateIcon
	SlotConfigureWindow
	SlotOverWindow
	SlotUnderWindow
	SlotWindowID
	SlotWindowName
	SlotCreateBackingStore
	SlotGetBackingStore
	SlotPutBackingStore
	SlotScrollBackingStore
	SlotFreeBackingStore
	SlotStop
	SlotResume

	numSlots
)

var slotNames = [numSlots]string{
	"Init", "Close", "Lock", "Unlock", "SetStyle", "DrawLine", "FillRect",
	"FillPolygon", "PutText", "TextSize", "BitBlt", "ReadPixel", "Flush",
	"SetColorMap", "DefaultColorMap",
	"DrawGlyph", "EnableTablet", "DisableTablet", "SetCursor", "GetCursorPos",
	"GetCursorRootPos", "EventPending", "CreateWindow", "DeleteWindow",
	"Damaged", "UpdateIcon", "ConfigureWindow", "OverWindow", "UnderWindow",
	"WindowID", "WindowName", "CreateBackingStore", "GetBackingStore",
	"PutBackingStore", "ScrollBackingStore", "FreeBackingStore", "Stop", "Resume",
}

func (s Slot) String() string {
	if s < numSlots {
		return slotNames[s]
	}
	return "Slot(?)"
}

// Mandatory reports whether every backend must bind s.
func (s Slot) Mandatory() bool {
	return MandatorySlots.Has(s)
}

// SlotSet is a set of slots.
type SlotSet uint64

// Slot sets.
const (
	MandatorySlots SlotSet = 1<<(SlotDefaultColorMap+1) - 1
	AllSlots       SlotSet = 1<<numSlots - 1
	OptionalSlots          = AllSlots &^ MandatorySlots

	TabletSlots       = SlotSet(1<<SlotEnableTablet | 1<<SlotDisableTablet)
	CursorPosSlots    = SlotSet(1<<SlotGetCursorPos | 1<<SlotGetCursorRootPos)
	WindowSlots       = SlotSet(1<<SlotCreateWindow | 1<<SlotDeleteWindow | 1<<SlotConfigureWindow | 1<<SlotOverWindow | 1<<SlotUnderWindow)
	WindowNameSlots   = SlotSet(1<<SlotWindowID | 1<<SlotWindowName)
	BackingStoreSlots = SlotSet(1<<SlotCreateBackingStore | 1<<SlotGetBackingStore | 1<<SlotPutBackingStore | 1<<SlotFreeBackingStore)
	StopSlots         = SlotSet(1<<SlotStop | 1<<SlotResume)
)

// Slots builds a set from individual slots.
func Slots(slots ...Slot) SlotSet {
	var s SlotSet
	for _, x := range slots {
		s |= 1 << x
	}
	return s
}

// Has reports whether s contains x.
func (s SlotSet) Has(x Slot) bool {
	return x < numSlots && s&(1<<x) != 0
}

// With returns s plus x.
func (s SlotSet) With(x Slot) SlotSet {
	return s | 1<<x
}

// Len returns the number of slots in s.
func (s SlotSet) Len() int {
	return bits.OnesCount64(uint64(s & AllSlots))
}

// List returns the slots of s in declaration order.
func (s SlotSet) List() []Slot {
	out := make([]Slot, 0, s.Len())
	for x := range numSlots {
		if s.Has(x) {
			out = append(out, x)
		}
	}
	return out
}

func (s SlotSet) String() string {
	names := make([]string, 0, s.Len())
	for _, x := range s.List() {
		names = append(names, x.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// implemented returns the slots b carries as Go methods: the mandatory
// ones from Backend itself plus one group per optional interface.
func implemented(b Backend) SlotSet {
	s := MandatorySlots
	if _, ok := b.(GlyphDrawer); ok {
		s = s.With(SlotDrawGlyph)
	}
	if _, ok := b.(Tablet); ok {
		s |= TabletSlots
	}
	if _, ok := b.(CursorSetter); ok {
		s = s.With(SlotSetCursor)
	}
	if _, ok := b.(CursorReader); ok {
		s |= CursorPosSlots
	}
	if _, ok := b.(EventPoller); ok {
		s = s.With(SlotEventPending)
	}
	if _, ok := b.(WindowManager); ok {
		s |= WindowSlots
	}
	if _, ok := b.(DamageHandler); ok {
		s = s.With(SlotDamaged)
	}
	if _, ok := b.(IconUpdater); ok {
		s = s.With(SlotUpdateIcon)
	}
	if _, ok := b.(WindowNamer); ok {
		s |= WindowNameSlots
	}
	if _, ok := b.(BackingStorer); ok {
		s |= BackingStoreSlots
	}
	if _, ok := b.(BackingScroller); ok {
		s = s.With(SlotScrollBackingStore)
	}
	if _, ok := b.(Stopper); ok {
		s |= StopSlots
	}
	return s
}
