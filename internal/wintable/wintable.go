// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wintable keeps window names, frames and stacking order. The
// dispatch layer uses it for its own window records, and backends without
// a native window system use it to answer window queries.
package wintable

import (
	"slices"

	"github.com/gogpu/gr/geom"
)

// ID identifies a window.
type ID = uint32

// Window is one table entry.
type Window struct {
	ID    ID
	Name  string
	Frame geom.Rect
}

// Table is a set of windows with a bottom-to-top stacking order.
// New windows are created on top.
type Table struct {
	windows map[ID]*Window
	stack   []ID
}

// New creates an empty table.
func New() *Table {
	return &Table{windows: make(map[ID]*Window)}
}

// Add records a window on top of the stack. Adding an existing id
// replaces its name and frame and keeps its stacking position.
func (t *Table) Add(id ID, name string, frame geom.Rect) {
	if w, ok := t.windows[id]; ok {
		w.Name, w.Frame = name, frame
		return
	}
	t.windows[id] = &Window{ID: id, Name: name, Frame: frame}
	t.stack = append(t.stack, id)
}

// Remove deletes a window. It reports whether the window existed.
func (t *Table) Remove(id ID) bool {
	if _, ok := t.windows[id]; !ok {
		return false
	}
	delete(t.windows, id)
	t.stack = slices.DeleteFunc(t.stack, func(x ID) bool { return x == id })
	return true
}

// Get returns a copy of a window.
func (t *Table) Get(id ID) (Window, bool) {
	w, ok := t.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Len returns the number of windows.
func (t *Table) Len() int {
	return len(t.stack)
}

// ByName returns the topmost window with the given name.
func (t *Table) ByName(name string) (ID, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.windows[t.stack[i]].Name == name {
			return t.stack[i], true
		}
	}
	return 0, false
}

// Configure changes a window frame.
func (t *Table) Configure(id ID, frame geom.Rect) bool {
	w, ok := t.windows[id]
	if ok {
		w.Frame = frame
	}
	return ok
}

// Rename changes a window name.
func (t *Table) Rename(id ID, name string) bool {
	w, ok := t.windows[id]
	if ok {
		w.Name = name
	}
	return ok
}

// Raise moves a window to the top of the stack.
func (t *Table) Raise(id ID) bool {
	i := slices.Index(t.stack, id)
	if i < 0 {
		return false
	}
	t.stack = append(slices.Delete(t.stack, i, i+1), id)
	return true
}

// Lower moves a window to the bottom of the stack.
func (t *Table) Lower(id ID) bool {
	i := slices.Index(t.stack, id)
	if i < 0 {
		return false
	}
	t.stack = slices.Insert(slices.Delete(t.stack, i, i+1), 0, id)
	return true
}

// Stack returns window ids from bottom to top.
func (t *Table) Stack() []ID {
	return slices.Clone(t.stack)
}

// At returns the topmost window whose frame contains p.
func (t *Table) At(p geom.Point) (ID, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if p.In(t.windows[t.stack[i]].Frame) {
			return t.stack[i], true
		}
	}
	return 0, false
}

// Each calls fn for every window from bottom to top.
func (t *Table) Each(fn func(Window)) {
	for _, id := range t.stack {
		fn(*t.windows[id])
	}
}
