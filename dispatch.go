package gr

import (
	"fmt"

	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/style"
)

// SetStyle resolves style index i through the style table and color map
// and makes it the backend's current style.
func (s *Session) SetStyle(i int) error {
	if err := s.drawable("SetStyle"); err != nil {
		return err
	}
	e, ok := s.styles.Entry(i)
	if !ok {
		return fmt.Errorf("gr: set style %d: %w", i, ErrUnknownStyle)
	}
	ds := DrawStyle{
		Index:   e.Index,
		Color:   e.Color,
		Mask:    e.Mask,
		Outline: e.Outline,
		Fill:    e.Fill,
	}
	if e.Fill == style.Stipple {
		// style.NewTable rejects stipple styles with no pattern.
		ds.Stipple, _ = s.styles.Stipple(e.Stipple)
	}
	if err := s.backend.SetStyle(ds); err != nil {
		return fmt.Errorf("gr: set style %d: %w", i, err)
	}
	s.drawStyle = ds
	return nil
}

// CurrentStyle returns the style last set with SetStyle.
func (s *Session) CurrentStyle() DrawStyle {
	return s.drawStyle
}

// DrawLine draws the part of seg inside the clip.
func (s *Session) DrawLine(seg geom.Segment) error {
	if err := s.drawable("DrawLine"); err != nil {
		return err
	}
	return s.drawLine(seg)
}

func (s *Session) drawLine(seg geom.Segment) error {
	clipped, ok := s.clip.ClipLine(seg)
	if !ok {
		return nil
	}
	if err := s.backend.DrawLine(clipped); err != nil {
		return fmt.Errorf("gr: draw line: %w", err)
	}
	return nil
}

// FillRect fills the part of r inside the clip with the current style.
func (s *Session) FillRect(r geom.Rect) error {
	if err := s.drawable("FillRect"); err != nil {
		return err
	}
	return s.fillRect(r)
}

func (s *Session) fillRect(r geom.Rect) error {
	clipped, ok := s.clip.ClipRect(r)
	if !ok {
		return nil
	}
	if err := s.backend.FillRect(clipped); err != nil {
		return fmt.Errorf("gr: fill rect: %w", err)
	}
	return nil
}

// DrawBox draws r according to the current fill style: filled for solid,
// stipple and grid styles, its outline for outline styles, and outline
// plus diagonals for cross styles. A box of zero size is drawn as a cross
// of CrossRect extent centered on it.
func (s *Session) DrawBox(r geom.Rect) error {
	if err := s.drawable("DrawBox"); err != nil {
		return err
	}
	if r.Width() == 0 && r.Height() == 0 {
		c, p := s.opts.crossRect, r.Min()
		if err := s.drawLine(geom.Seg(p.X+c.XBot, p.Y, p.X+c.XTop, p.Y)); err != nil {
			return err
		}
		return s.drawLine(geom.Seg(p.X, p.Y+c.YBot, p.X, p.Y+c.YTop))
	}
	if !s.clip.ClipBox(r) {
		return nil
	}

	switch s.drawStyle.Fill {
	case style.Outline, style.Cross:
		edges := []geom.Segment{
			geom.Seg(r.XBot, r.YBot, r.XTop, r.YBot),
			geom.Seg(r.XTop, r.YBot, r.XTop, r.YTop),
			geom.Seg(r.XTop, r.YTop, r.XBot, r.YTop),
			geom.Seg(r.XBot, r.YTop, r.XBot, r.YBot),
		}
		if s.drawStyle.Fill == style.Cross {
			edges = append(edges,
				geom.Seg(r.XBot, r.YBot, r.XTop, r.YTop),
				geom.Seg(r.XBot, r.YTop, r.XTop, r.YBot))
		}
		for _, e := range edges {
			if err := s.drawLine(e); err != nil {
				return err
			}
		}
		return nil
	default:
		return s.fillRect(r)
	}
}

// FillPolygon fills the polygon through pts. The backend truncates the
// fill to the clip window it receives.
func (s *Session) FillPolygon(pts []geom.Point) error {
	if err := s.drawable("FillPolygon"); err != nil {
		return err
	}
	if len(pts) < 3 {
		return nil
	}
	bounds := geom.R(pts[0].X, pts[0].Y, pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		bounds = bounds.Union(geom.R(p.X, p.Y, p.X, p.Y))
	}
	if !s.clip.ClipBox(bounds) {
		return nil
	}
	if err := s.backend.FillPolygon(pts, s.clip.Window()); err != nil {
		return fmt.Errorf("gr: fill polygon: %w", err)
	}
	return nil
}

// PutText draws text with its bottom-left at pos and returns the bounds
// drawn, truncated to the clip.
func (s *Session) PutText(text string, pos geom.Point, size TextSize) (geom.Rect, error) {
	if err := s.drawable("PutText"); err != nil {
		return geom.Rect{}, err
	}
	r, err := s.backend.PutText(text, pos, size, s.clip.Window())
	if err != nil {
		return geom.Rect{}, fmt.Errorf("gr: put text: %w", err)
	}
	return r.Intersect(s.clip.Window()), nil
}

// DrawGlyph draws glyph n of the backend's glyph set at pos.
func (s *Session) DrawGlyph(n int, pos geom.Point) error {
	if err := s.drawable("DrawGlyph"); err != nil {
		return err
	}
	gd, ok := s.backend.(GlyphDrawer)
	if !ok || !s.bound.Has(SlotDrawGlyph) {
		return ErrNotSupported
	}
	if err := gd.DrawGlyph(n, pos, s.clip.Window()); err != nil {
		return fmt.Errorf("gr: draw glyph %d: %w", n, err)
	}
	return nil
}

// BitBlt copies the on-screen pixels of src so that its bottom-left
// corner lands on dst. The source is truncated to the screen and the
// destination to the clip; the two are cut by the same amount.
func (s *Session) BitBlt(src geom.Rect, dst geom.Point) error {
	if err := s.drawable("BitBlt"); err != nil {
		return err
	}
	clipped := src.Intersect(s.screen)
	if clipped.Empty() {
		return nil
	}
	// Offset from source to destination coordinates.
	d := dst.Sub(src.Min())
	to := clipped.Translate(d).Intersect(s.clip.Bounds())
	if to.Empty() {
		return nil
	}
	clipped = to.Translate(geom.Pt(-d.X, -d.Y))
	if err := s.backend.BitBlt(clipped, to.Min()); err != nil {
		return fmt.Errorf("gr: bitblt: %w", err)
	}
	return nil
}

// ReadPixel returns the color index on screen at p.
func (s *Session) ReadPixel(p geom.Point) (int, error) {
	if err := s.drawable("ReadPixel"); err != nil {
		return 0, err
	}
	c, err := s.backend.ReadPixel(p)
	if err != nil {
		return 0, fmt.Errorf("gr: read pixel %v: %w", p, err)
	}
	return c, nil
}

// Flush pushes buffered output to the display. It does not need a lock.
func (s *Session) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.Flush(); err != nil {
		return fmt.Errorf("gr: flush: %w", err)
	}
	return nil
}

// TextSize returns the bounds text would cover when drawn at the origin.
// It does not need a lock.
func (s *Session) TextSize(text string, size TextSize) (geom.Rect, error) {
	if s.closed {
		return geom.Rect{}, ErrClosed
	}
	r, err := s.backend.TextSize(text, size)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("gr: text size: %w", err)
	}
	return r, nil
}

// ClipTo narrows the effective clip to its intersection with r.
func (s *Session) ClipTo(r geom.Rect) {
	s.clip.ClipTo(r)
}

// ClipBox reports whether r covers any pixel of the current clip.
func (s *Session) ClipBox(r geom.Rect) bool {
	return s.clip.ClipBox(r)
}

// ClipLine returns the part of seg inside the current clip.
func (s *Session) ClipLine(seg geom.Segment) (geom.Segment, bool) {
	return s.clip.ClipLine(seg)
}

// PushClip saves the clip and narrows it to r; PopClip restores it.
func (s *Session) PushClip(r geom.Rect) {
	s.clip.Push(r)
}

// PopClip restores the clip saved by the matching PushClip.
func (s *Session) PopClip() {
	s.clip.Pop()
}

// Clip returns the effective clip rectangle.
func (s *Session) Clip() geom.Rect {
	return s.clip.Bounds()
}
