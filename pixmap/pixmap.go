// Package pixmap provides color-index pixel buffers. They hold backing
// store contents and backend framebuffers; every pixel is an index into
// the active color map.
package pixmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/spf13/afero"
)

// Pixmap is a rectangular buffer of color indices covering a pixel
// rectangle in screen coordinates. Row 0 is the bottom row (YBot).
type Pixmap struct {
	rect geom.Rect
	pix  []int
}

// New creates a pixmap covering r, edges included, filled with the
// background index.
func New(r geom.Rect) *Pixmap {
	if r.Empty() {
		return &Pixmap{rect: r}
	}
	w, h := r.Width()+1, r.Height()+1
	return &Pixmap{rect: r, pix: make([]int, w*h)}
}

// Rect returns the pixel rectangle the pixmap covers.
func (p *Pixmap) Rect() geom.Rect {
	return p.rect
}

// Width returns the number of pixel columns.
func (p *Pixmap) Width() int {
	if p.rect.Empty() {
		return 0
	}
	return p.rect.Width() + 1
}

// Height returns the number of pixel rows.
func (p *Pixmap) Height() int {
	if p.rect.Empty() {
		return 0
	}
	return p.rect.Height() + 1
}

// Pix returns the raw index data, row-major from the bottom row.
func (p *Pixmap) Pix() []int {
	return p.pix
}

func (p *Pixmap) offset(x, y int) (int, bool) {
	if !geom.Pt(x, y).In(p.rect) {
		return 0, false
	}
	return (y-p.rect.YBot)*p.Width() + (x - p.rect.XBot), true
}

// At returns the color index at (x, y). Points outside read as false.
func (p *Pixmap) At(x, y int) (int, bool) {
	i, ok := p.offset(x, y)
	if !ok {
		return 0, false
	}
	return p.pix[i], true
}

// Set stores a color index at (x, y). Points outside are ignored.
func (p *Pixmap) Set(x, y, c int) {
	if i, ok := p.offset(x, y); ok {
		p.pix[i] = c
	}
}

// Write stores c through a write mask: only the bits in mask change.
func (p *Pixmap) Write(x, y, c, mask int) {
	if i, ok := p.offset(x, y); ok {
		p.pix[i] = (p.pix[i] &^ mask) | (c & mask)
	}
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c int) {
	for i := range p.pix {
		p.pix[i] = c
	}
}

// FillRect writes c through mask into every pixel of r inside the pixmap.
func (p *Pixmap) FillRect(r geom.Rect, c, mask int) {
	r = r.Intersect(p.rect)
	if r.Empty() {
		return
	}
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			p.Write(x, y, c, mask)
		}
	}
}

// Sub returns a copy of the part of p inside r. Pixels of r outside p
// are background.
func (p *Pixmap) Sub(r geom.Rect) *Pixmap {
	out := New(r)
	out.Draw(p)
	return out
}

// Draw copies every pixel of src that lies inside p.
func (p *Pixmap) Draw(src *Pixmap) {
	r := p.rect.Intersect(src.rect)
	if r.Empty() {
		return
	}
	for y := r.YBot; y <= r.YTop; y++ {
		si, _ := src.offset(r.XBot, y)
		di, _ := p.offset(r.XBot, y)
		n := r.Width() + 1
		copy(p.pix[di:di+n], src.pix[si:si+n])
	}
}

// Shift moves the contents by d inside the pixmap's own rectangle.
// Vacated pixels are set to fill.
func (p *Pixmap) Shift(d geom.Point, fill int) {
	old := p.Moved(d)
	p.Fill(fill)
	p.Draw(old)
}

// Moved returns a copy of p translated by d.
func (p *Pixmap) Moved(d geom.Point) *Pixmap {
	return &Pixmap{rect: p.rect.Translate(d), pix: append([]int(nil), p.pix...)}
}

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	return &Pixmap{rect: p.rect, pix: append([]int(nil), p.pix...)}
}

// ToImage converts the pixmap to RGBA through the color map. The bottom
// row of the pixmap becomes the last image row.
func (p *Pixmap) ToImage(m *cmap.Map) *image.RGBA {
	w, h := p.Width(), p.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for row := range h {
		for col := range w {
			e, _ := m.Get(p.pix[row*w+col])
			img.SetRGBA(col, h-1-row, color.RGBA{R: e.Red, G: e.Green, B: e.Blue, A: 255})
		}
	}
	return img
}

// EncodePNG writes the pixmap as PNG through the color map.
func (p *Pixmap) EncodePNG(w io.Writer, m *cmap.Map) error {
	return png.Encode(w, p.ToImage(m))
}

// SavePNG saves the pixmap to a PNG file on fs.
func (p *Pixmap) SavePNG(fs afero.Fs, path string, m *cmap.Map) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("pixmap: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return p.EncodePNG(f, m)
}
