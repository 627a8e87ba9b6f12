// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"

	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/style"
)

// Glyphs is the built-in glyph set, 8x8 bitmaps with row 0 on top. The
// same bitmaps are the cursor patterns.
var Glyphs = [...]style.Pattern{
	{0xff, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0xff}, // box
	{0x81, 0x42, 0x24, 0x18, 0x18, 0x24, 0x42, 0x81}, // cross
	{0x18, 0x3c, 0x7e, 0xff, 0xff, 0x7e, 0x3c, 0x18}, // diamond
	{0x00, 0x00, 0x18, 0x3c, 0x3c, 0x18, 0x00, 0x00}, // dot
	{0x10, 0x10, 0x10, 0xff, 0x10, 0x10, 0x10, 0x10}, // plus
	{0x80, 0xc0, 0xe0, 0xf0, 0xf8, 0xe0, 0x90, 0x08}, // arrow
}

// DrawGlyph draws glyph n with its bottom-left at pos, inside clip.
func (b *Backend) DrawGlyph(n int, pos geom.Point, clip geom.Rect) error {
	if b.fb == nil {
		return errNotOpen
	}
	if n < 0 || n >= len(Glyphs) {
		return fmt.Errorf("raster: no glyph %d", n)
	}
	g := Glyphs[n]
	for row := range 8 {
		for col := range 8 {
			p := geom.Pt(pos.X+col, pos.Y+7-row)
			if g.Set(col, row) && p.In(clip) {
				b.plot(p.X, p.Y)
			}
		}
	}
	return nil
}

// SetCursor selects glyph n as the cursor pattern.
func (b *Backend) SetCursor(n int) error {
	if n < 0 || n >= len(Glyphs) {
		return fmt.Errorf("raster: no cursor %d", n)
	}
	b.cursorShape = n
	return nil
}

// CursorShape returns the glyph selected with SetCursor.
func (b *Backend) CursorShape() int {
	return b.cursorShape
}
