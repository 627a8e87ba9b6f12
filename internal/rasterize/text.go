// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rasterize

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gr/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font draws text at a few pixel sizes, caching one face per size.
type Font struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFont parses a TrueType or OpenType font.
func NewFont(ttf []byte) (*Font, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("rasterize: parse font: %w", err)
	}
	return &Font{font: f, faces: make(map[float64]font.Face)}, nil
}

var (
	defaultOnce sync.Once
	defaultFont *Font
)

// DefaultFont returns the Go Regular font, matching textsize.Default.
func DefaultFont() *Font {
	defaultOnce.Do(func() {
		f, err := NewFont(goregular.TTF)
		if err != nil {
			panic(fmt.Sprintf("rasterize: embedded font: %v", err))
		}
		defaultFont = f
	})
	return defaultFont
}

func (f *Font) face(px float64) (font.Face, error) {
	if face, ok := f.faces[px]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("rasterize: face %vpx: %w", px, err)
	}
	f.faces[px] = face
	return face, nil
}

// Text plots the glyph coverage of text at px pixels with the baseline
// starting at origin, limited to clip. It returns the pixels the glyph
// boxes span, empty for blank text.
func (f *Font) Text(text string, px float64, origin geom.Point, clip geom.Rect, plot Plotter) (geom.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(px)
	if err != nil {
		return geom.Rect{}, err
	}
	b, _ := font.BoundString(face, text)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	maxX, maxY := b.Max.X.Ceil(), b.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return geom.Rect{XBot: 0, YBot: 0, XTop: -1, YTop: -1}, nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(-minX, -minY),
	}
	d.DrawString(text)

	// Font Y grows down from the baseline; mask row 0 is font Y minY.
	xBot, yTop := origin.X+minX, origin.Y-minY
	box := geom.R(xBot, yTop-(maxY-minY)+1, xBot+(maxX-minX)-1, yTop)
	plotMask(mask, xBot, yTop, func(x, y int) {
		if geom.Pt(x, y).In(clip) {
			plot(x, y)
		}
	})
	return box, nil
}
