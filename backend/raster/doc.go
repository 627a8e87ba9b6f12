// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster provides a pixel-based backend drawing into an
// in-memory color-index framebuffer.
//
// It binds every optional slot: windows live in a wintable, backing
// stores are pixmaps owned by the backend, and the cursor and events are
// driven through Move and NextEvent. Rectangles cover their top and
// right edges (PixelCorrect 1).
//
// Import it for its side effect and select it by display type:
//
//	import _ "github.com/gogpu/gr/backend/raster"
//
//	s, err := gr.Select(gr.Hints{Display: "raster", Graphics: "out.png"})
//
// With a .png graphics hint, every Flush writes the framebuffer there.
package raster
