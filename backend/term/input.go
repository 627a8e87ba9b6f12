// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/geom"
)

// EventPending reports whether the terminal has input waiting.
func (b *Backend) EventPending() bool {
	return b.open && b.screen.HasPendingEvent()
}

// PollEvent waits for the next terminal event, tracking the mouse for
// CursorPos. It returns nil once the backend is closed.
func (b *Backend) PollEvent() tcell.Event {
	if !b.open {
		return nil
	}
	ev := b.screen.PollEvent()
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, row := ev.Position()
		b.cursor = geom.Pt(x, b.height-1-row)
	case *tcell.EventResize:
		b.screen.Sync()
	}
	return ev
}

// CursorPos returns the mouse position. The terminal has no windows, so
// every window is the screen.
func (b *Backend) CursorPos(gr.WindowID) (geom.Point, error) {
	return b.cursor, nil
}

// CursorRootPos returns the mouse position.
func (b *Backend) CursorRootPos() (geom.Point, error) {
	return b.cursor, nil
}

// SetCursor selects a terminal cursor shape and shows the cursor at the
// mouse position. Zero hides it.
func (b *Backend) SetCursor(n int) error {
	if !b.open {
		return errNotOpen
	}
	if n < 0 || n > int(tcell.CursorStyleSteadyBar) {
		return fmt.Errorf("term: no cursor %d", n)
	}
	if n == 0 {
		b.screen.HideCursor()
		return nil
	}
	b.screen.SetCursorStyle(tcell.CursorStyle(n))
	b.screen.ShowCursor(b.cursor.X, b.height-1-b.cursor.Y)
	return nil
}

// Damaged repaints r from the mirror.
func (b *Backend) Damaged(_ gr.WindowID, r geom.Rect) error {
	if !b.open {
		return errNotOpen
	}
	b.repaint(r)
	return nil
}

// Stop hands the terminal back to the shell.
func (b *Backend) Stop() error {
	if !b.open {
		return errNotOpen
	}
	if err := b.screen.Suspend(); err != nil {
		return fmt.Errorf("term: suspend: %w", err)
	}
	return nil
}

// Resume takes the terminal over again and redraws it.
func (b *Backend) Resume() error {
	if !b.open {
		return errNotOpen
	}
	if err := b.screen.Resume(); err != nil {
		return fmt.Errorf("term: resume: %w", err)
	}
	b.repaint(b.mirror.Rect())
	b.screen.Show()
	return nil
}
