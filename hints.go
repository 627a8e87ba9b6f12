package gr

import (
	"os"
	"strings"
)

// Hints are the four startup hints consumed by Select. Empty fields are
// guessed from the environment.
type Hints struct {
	Graphics string // graphics device, e.g. ":0" or "/dev/tty"
	Mouse    string // mouse or tablet device
	Display  string // display type, matched against descriptor names
	Monitor  string // monitor profile
}

// Display types guessed by GuessHints.
const (
	DisplayGPU  = "wgpu"
	DisplayTerm = "term"
	DisplayNull = "null"
)

// LookupEnv looks up an environment variable.
type LookupEnv func(key string) (string, bool)

// GuessHints derives hints from the environment:
//
//   - Display: $GR_DISPLAY; else "wgpu" under a window system
//     ($WAYLAND_DISPLAY or $DISPLAY); else "term" when $TERM names a
//     usable terminal; else "null".
//   - Graphics: $DISPLAY, else /dev/tty.
//   - Mouse: the graphics device.
//   - Monitor: "std".
//
// A nil lookup reads the process environment.
func GuessHints(lookup LookupEnv) Hints {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}

	var h Hints
	switch {
	case get("GR_DISPLAY") != "":
		h.Display = get("GR_DISPLAY")
	case get("WAYLAND_DISPLAY") != "" || get("DISPLAY") != "":
		h.Display = DisplayGPU
	case get("TERM") != "" && get("TERM") != "dumb":
		h.Display = DisplayTerm
	default:
		h.Display = DisplayNull
	}

	h.Graphics = get("DISPLAY")
	if h.Graphics == "" {
		h.Graphics = "/dev/tty"
	}
	h.Mouse = h.Graphics
	h.Monitor = "std"
	return h
}

// withDefaults fills every empty hint from guessed.
func (h Hints) withDefaults(guessed Hints) Hints {
	if h.Display == "" {
		h.Display = guessed.Display
	}
	if h.Graphics == "" {
		h.Graphics = guessed.Graphics
	}
	if h.Mouse == "" {
		h.Mouse = h.Graphics
	}
	if h.Monitor == "" {
		h.Monitor = guessed.Monitor
	}
	return h
}
