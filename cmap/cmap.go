// Package cmap implements the display color map: an ordered table of named
// 8-bit RGB entries addressed by integer index.
//
// Index 0 is reserved for the background. Entries are always addressed by
// the index returned from NameToIndex, never by reference, so reloading the
// map never invalidates what callers hold.
package cmap

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultNumColors is the map capacity used when a backend does not declare one.
const DefaultNumColors = 256

// Background is the reserved index of the background color.
const Background = 0

// ErrOutOfRange is returned for indices at or beyond the map capacity.
var ErrOutOfRange = errors.New("cmap: index out of range")

// Entry is one color map slot.
type Entry struct {
	Name  string
	Red   uint8
	Green uint8
	Blue  uint8
}

// RGB returns the entry's channels.
func (e Entry) RGB() (r, g, b uint8) {
	return e.Red, e.Green, e.Blue
}

// Map is a color map with a fixed capacity and a backend-supplied default.
//
// Map is not safe for concurrent use; the dispatch layer owns it and
// mutates it from the event loop only.
type Map struct {
	entries   []Entry
	defaults  []Entry
	byName    map[string]int
	numColors int
}

// New creates a map holding a copy of defaults. numColors bounds every
// index; zero or negative means DefaultNumColors. Defaults beyond the
// capacity are dropped.
func New(numColors int, defaults []Entry) *Map {
	if numColors <= 0 {
		numColors = DefaultNumColors
	}
	if len(defaults) > numColors {
		defaults = defaults[:numColors]
	}
	m := &Map{
		defaults:  slices.Clone(defaults),
		numColors: numColors,
	}
	m.install(slices.Clone(defaults))
	return m
}

func (m *Map) install(entries []Entry) {
	m.entries = entries
	m.byName = make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			continue
		}
		if _, dup := m.byName[e.Name]; !dup {
			m.byName[e.Name] = i
		}
	}
}

// NumColors returns the map capacity.
func (m *Map) NumColors() int {
	return m.numColors
}

// Len returns the number of defined entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the defined entries in index order.
func (m *Map) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Defaults returns a copy of the backend default entries.
func (m *Map) Defaults() []Entry {
	return slices.Clone(m.defaults)
}

// NameToIndex returns the lowest index whose entry carries name.
func (m *Map) NameToIndex(name string) (int, bool) {
	i, ok := m.byName[name]
	return i, ok
}

// Get returns the entry at index i. Indices inside the capacity but past
// the defined entries read as unnamed black.
func (m *Map) Get(i int) (Entry, error) {
	if i < 0 || i >= m.numColors {
		return Entry{}, fmt.Errorf("get %d of %d: %w", i, m.numColors, ErrOutOfRange)
	}
	if i >= len(m.entries) {
		return Entry{}, nil
	}
	return m.entries[i], nil
}

// Set changes the channels of entry i, keeping its name.
func (m *Map) Set(i int, r, g, b uint8) error {
	if i < 0 || i >= m.numColors {
		return fmt.Errorf("set %d of %d: %w", i, m.numColors, ErrOutOfRange)
	}
	m.grow(i + 1)
	m.entries[i].Red, m.entries[i].Green, m.entries[i].Blue = r, g, b
	return nil
}

// SetEntry replaces entry i, name included.
func (m *Map) SetEntry(i int, e Entry) error {
	if i < 0 || i >= m.numColors {
		return fmt.Errorf("set %d of %d: %w", i, m.numColors, ErrOutOfRange)
	}
	m.grow(i + 1)
	entries := slices.Clone(m.entries)
	entries[i] = e
	m.install(entries)
	return nil
}

// PutMany sets every index i with i&mask == color&mask to r, g, b and
// returns how many entries changed. It is how layer colors are written
// into every plane combination that shows them.
func (m *Map) PutMany(color, mask int, r, g, b uint8) int {
	n := 0
	for i := range m.numColors {
		if i&mask != color&mask {
			continue
		}
		m.grow(i + 1)
		m.entries[i].Red, m.entries[i].Green, m.entries[i].Blue = r, g, b
		n++
	}
	return n
}

// Reset restores the backend default map.
func (m *Map) Reset() {
	m.install(slices.Clone(m.defaults))
}

// Replace installs entries as the new map after validating the capacity.
// On error the map is unchanged.
func (m *Map) Replace(entries []Entry) error {
	if len(entries) > m.numColors {
		return fmt.Errorf("replace with %d entries of %d: %w", len(entries), m.numColors, ErrOutOfRange)
	}
	m.install(slices.Clone(entries))
	return nil
}

func (m *Map) grow(n int) {
	if n > len(m.entries) {
		m.entries = append(m.entries, make([]Entry, n-len(m.entries))...)
	}
}

// Basic returns a small named palette suitable as a backend default.
func Basic() []Entry {
	return []Entry{
		{Name: "background", Red: 200, Green: 200, Blue: 200},
		{Name: "black", Red: 0, Green: 0, Blue: 0},
		{Name: "white", Red: 255, Green: 255, Blue: 255},
		{Name: "red", Red: 220, Green: 50, Blue: 47},
		{Name: "green", Red: 64, Green: 160, Blue: 43},
		{Name: "blue", Red: 38, Green: 90, Blue: 210},
		{Name: "yellow", Red: 230, Green: 200, Blue: 30},
		{Name: "cyan", Red: 42, Green: 161, Blue: 152},
	}
}
