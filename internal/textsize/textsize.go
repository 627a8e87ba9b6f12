// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package textsize measures text for backends: it splits a string into
// bidi runs, shapes each run with HarfBuzz and reports the extent in
// whole pixels.
package textsize

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/gr/geom"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Pixels holds the pixel height of each text size, smallest first. The
// last entry is the default size.
var Pixels = [...]float64{8, 12, 16, 24, 12}

// PixelSize returns the pixel height for a text size index. Out-of-range
// sizes use the default.
func PixelSize(size int) float64 {
	if size < 0 || size >= len(Pixels) {
		return Pixels[len(Pixels)-1]
	}
	return Pixels[size]
}

// Extent is the measured size of a string in pixels.
type Extent struct {
	Width   int // advance width
	Ascent  int // above the baseline
	Descent int // below the baseline, positive
}

// Bounds returns the rectangle the text covers with its bottom-left at
// pos. It is empty for zero-width text.
func (e Extent) Bounds(pos geom.Point) geom.Rect {
	return geom.Rect{
		XBot: pos.X,
		YBot: pos.Y,
		XTop: pos.X + e.Width - 1,
		YTop: pos.Y + e.Ascent + e.Descent - 1,
	}
}

// Run is a maximal substring with one text direction.
type Run struct {
	Text string
	RTL  bool
}

// Runs splits text into bidi runs in visual order.
func Runs(text string) []Run {
	if text == "" {
		return nil
	}
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return []Run{{Text: text}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []Run{{Text: text}}
	}
	runs := make([]Run, 0, ordering.NumRuns())
	for i := range ordering.NumRuns() {
		r := ordering.Run(i)
		runs = append(runs, Run{Text: r.String(), RTL: r.Direction() == bidi.RightToLeft})
	}
	return runs
}

// Measurer shapes text with one font. It is not safe for concurrent use.
type Measurer struct {
	font   *font.Font
	shaper shaping.HarfbuzzShaper
}

// New parses a TrueType or OpenType font.
func New(ttf []byte) (*Measurer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("textsize: parse font: %w", err)
	}
	return &Measurer{font: face.Font}, nil
}

var (
	defaultOnce sync.Once
	defaultFont *font.Font
)

// Default returns a Measurer on the Go Regular font.
func Default() *Measurer {
	defaultOnce.Do(func() {
		face, err := font.ParseTTF(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("textsize: embedded font: %v", err))
		}
		defaultFont = face.Font
	})
	return &Measurer{font: defaultFont}
}

// Measure returns the extent of text at px pixels.
func (m *Measurer) Measure(text string, px float64) Extent {
	var ext Extent
	size := fixed.Int26_6(px * 64)
	face := font.NewFace(m.font)

	for _, run := range Runs(text) {
		runes := []rune(run.Text)
		dir := di.DirectionLTR
		if run.RTL {
			dir = di.DirectionRTL
		}
		out := m.shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Face:      face,
			Size:      size,
			Script:    script(runes),
			Language:  language.NewLanguage("en"),
		})
		var adv fixed.Int26_6
		for _, g := range out.Glyphs {
			adv += g.Advance
		}
		ext.Width += ceil(adv)
		ext.Ascent = max(ext.Ascent, ceil(out.LineBounds.Ascent))
		ext.Descent = max(ext.Descent, ceil(-out.LineBounds.Descent))
	}
	if text == "" {
		ext.Ascent = int(math.Ceil(px * 0.8))
		ext.Descent = int(math.Ceil(px * 0.2))
	}
	return ext
}

func script(runes []rune) language.Script {
	for _, r := range runes {
		if r != ' ' && r != '\t' {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}

func ceil(v fixed.Int26_6) int {
	return int((v + 63) >> 6)
}
