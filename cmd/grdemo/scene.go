package main

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/geom"
)

//go:embed default.dstyle
var defaultStyles string

const sceneWindow = "grdemo"

// drawScene paints one of everything into the demo window, creating the
// window on first use. Styles are looked up by name so an edited style
// source changes the picture.
func drawScene(s *gr.Session) error {
	screen := s.ScreenRect()
	w, ok := s.WindowIDFromName(sceneWindow)
	if !ok {
		var err error
		if w, err = s.CreateWindow(sceneWindow, screen); err != nil {
			return err
		}
	}
	if err := s.Lock(w); err != nil {
		return err
	}

	err := paint(s, screen)
	if uerr := s.Unlock(w); err == nil {
		err = uerr
	}
	if err != nil {
		return err
	}
	s.DeliverDamage()
	return s.Flush()
}

func paint(s *gr.Session, screen geom.Rect) error {
	use := func(name string) error {
		i, ok := s.StyleIndex(name)
		if !ok {
			return fmt.Errorf("scene: no style %q", name)
		}
		return s.SetStyle(i)
	}
	// Scale the scene to the screen: a terminal is far smaller than a
	// framebuffer.
	u := max(min(screen.Width(), screen.Height())/16, 1)
	x0, y0 := screen.XBot, screen.YBot
	at := func(x, y int) geom.Point { return geom.Pt(x0+x*u, y0+y*u) }
	box := func(a, b geom.Point) geom.Rect { return geom.R(a.X, a.Y, b.X, b.Y) }

	steps := []struct {
		style string
		draw  func() error
	}{
		{"background", func() error { return s.FillRect(screen) }},
		{"red", func() error { return s.FillRect(box(at(1, 1), at(5, 4))) }},
		{"blue-outline", func() error { return s.DrawBox(box(at(6, 1), at(10, 4))) }},
		{"yellow-stipple", func() error { return s.DrawBox(box(at(11, 1), at(15, 4))) }},
		{"cyan-cross", func() error { return s.DrawBox(box(at(3, 7), at(3, 7))) }},
		{"green", func() error {
			return s.FillPolygon([]geom.Point{at(6, 6), at(10, 6), at(8, 10)})
		}},
		{"dashed", func() error { return s.DrawLine(geom.Segment{P0: at(1, 12), P1: at(15, 12)}) }},
		{"line", func() error { return s.DrawLine(geom.Segment{P0: at(11, 6), P1: at(15, 10)}) }},
		{"text", func() error {
			_, err := s.PutText("gr "+s.Descriptor().Name, at(1, 13), gr.TextDefault)
			return err
		}},
	}
	for _, st := range steps {
		if err := use(st.style); err != nil {
			return err
		}
		if err := st.draw(); err != nil && !errors.Is(err, gr.ErrPreempted) {
			return fmt.Errorf("scene: %s: %w", st.style, err)
		}
	}

	// Glyphs are optional.
	if err := s.DrawGlyph(0, at(13, 14)); err != nil && !errors.Is(err, gr.ErrNotSupported) {
		return err
	}
	return nil
}
