// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rasterize

import (
	"testing"

	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/style"
)

type canvas map[geom.Point]bool

func (c canvas) plot(x, y int) { c[geom.Pt(x, y)] = true }

func TestLine(t *testing.T) {
	tests := []struct {
		name    string
		seg     geom.Segment
		pattern uint16
		clip    geom.Rect
		want    int
	}{
		{"horizontal", geom.Seg(0, 0, 9, 0), 0xffff, geom.R(0, 0, 99, 99), 10},
		{"vertical reversed", geom.Seg(3, 9, 3, 0), 0xffff, geom.R(0, 0, 99, 99), 10},
		{"diagonal", geom.Seg(0, 0, 9, 9), 0xffff, geom.R(0, 0, 99, 99), 10},
		{"steep", geom.Seg(0, 0, 3, 9), 0xffff, geom.R(0, 0, 99, 99), 10},
		{"point", geom.Seg(5, 5, 5, 5), 0xffff, geom.R(0, 0, 99, 99), 1},
		{"dashed", geom.Seg(0, 0, 15, 0), 0x00ff, geom.R(0, 0, 99, 99), 8},
		{"clipped", geom.Seg(0, 0, 9, 0), 0xffff, geom.R(5, 0, 99, 99), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := canvas{}
			Line(tt.seg, tt.pattern, tt.clip, c.plot)
			if len(c) != tt.want {
				t.Errorf("Line() plotted %d pixels, want %d", len(c), tt.want)
			}
			if tt.pattern == 0xffff && tt.clip.Contains(tt.seg.Bounds()) && (!c[tt.seg.P0] || !c[tt.seg.P1]) {
				t.Error("Line() missed an endpoint")
			}
		})
	}
}

func TestPolygon_Square(t *testing.T) {
	c := canvas{}
	sq := []geom.Point{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 9, Y: 9}, {X: 0, Y: 9}}
	Polygon(sq, geom.R(0, 0, 99, 99), c.plot)

	for y := 0; y <= 8; y++ {
		for x := 0; x <= 8; x++ {
			if !c[geom.Pt(x, y)] {
				t.Fatalf("pixel (%d,%d) inside the square not plotted", x, y)
			}
		}
	}
	if c[geom.Pt(11, 5)] || c[geom.Pt(5, 11)] {
		t.Error("pixels outside the square plotted")
	}
}

func TestPolygon_ClipAndDegenerate(t *testing.T) {
	c := canvas{}
	tri := []geom.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 0, Y: 40}}
	Polygon(tri, geom.R(0, 0, 9, 9), c.plot)
	for p := range c {
		if !p.In(geom.R(0, 0, 9, 9)) {
			t.Fatalf("pixel %v outside the clip", p)
		}
	}
	if len(c) == 0 {
		t.Error("clipped triangle plotted nothing")
	}

	c = canvas{}
	Polygon(tri[:2], geom.R(0, 0, 99, 99), c.plot)
	Polygon(tri, geom.R(50, 50, 60, 60), c.plot)
	if len(c) != 0 {
		t.Errorf("degenerate or invisible polygons plotted %d pixels", len(c))
	}
}

func TestStipple(t *testing.T) {
	c := canvas{}
	checker := style.Pattern{0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55}
	Stipple(geom.R(0, 0, 7, 7), checker, geom.R(0, 0, 99, 99), c.plot)
	if len(c) != 32 {
		t.Errorf("checker plotted %d pixels, want 32", len(c))
	}
	if !c[geom.Pt(0, 0)] || c[geom.Pt(1, 0)] || !c[geom.Pt(1, 1)] {
		t.Error("checker pattern misplaced")
	}
}

func TestFont_Text(t *testing.T) {
	f := DefaultFont()
	c := canvas{}

	box, err := f.Text("Hg", 16, geom.Pt(10, 20), geom.R(0, 0, 199, 199), c.plot)
	if err != nil {
		t.Fatal(err)
	}
	if box.Empty() || len(c) == 0 {
		t.Fatalf("Text() box = %v, %d pixels", box, len(c))
	}
	if box.YTop <= 20 || box.YBot >= 20 {
		t.Errorf("box %v does not straddle the baseline of Hg", box)
	}
	for p := range c {
		if !p.In(box) {
			t.Fatalf("pixel %v outside box %v", p, box)
		}
	}

	blank, err := f.Text("  ", 16, geom.Pt(0, 0), geom.R(0, 0, 99, 99), c.plot)
	if err != nil || !blank.Empty() {
		t.Errorf("Text(blank) = %v, %v", blank, err)
	}
}

func TestArea_CornerVertices(t *testing.T) {
	sq := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	c := canvas{}
	Area(sq, geom.R(0, 0, 99, 99), c.plot)
	if len(c) != 100 {
		t.Errorf("Area() plotted %d pixels, want 100", len(c))
	}
	if c[geom.Pt(10, 5)] || c[geom.Pt(5, 10)] {
		t.Error("Area() covered the pixels past the top and right edges")
	}

	c = canvas{}
	Area(sq, geom.R(0, 0, 4, 9), c.plot)
	if len(c) != 50 {
		t.Errorf("clipped Area() plotted %d pixels, want 50", len(c))
	}
}
