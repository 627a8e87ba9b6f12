package pixmap

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/spf13/afero"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		rect  geom.Rect
		wantW int
		wantH int
	}{
		{"single pixel", geom.R(5, 5, 5, 5), 1, 1},
		{"inclusive corners", geom.R(0, 0, 9, 4), 10, 5},
		{"empty", geom.Rect{XBot: 1, XTop: 0}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.rect)
			if p.Width() != tt.wantW || p.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", p.Width(), p.Height(), tt.wantW, tt.wantH)
			}
			if len(p.Pix()) != tt.wantW*tt.wantH {
				t.Errorf("len(Pix()) = %d", len(p.Pix()))
			}
		})
	}
}

func TestPixmap_SetAt(t *testing.T) {
	p := New(geom.R(10, 20, 13, 23))
	p.Set(10, 20, 3)
	p.Set(13, 23, 4)
	p.Set(14, 23, 9) // outside, ignored

	if c, ok := p.At(10, 20); !ok || c != 3 {
		t.Errorf("At(10,20) = %d, %v; want 3, true", c, ok)
	}
	if c, ok := p.At(13, 23); !ok || c != 4 {
		t.Errorf("At(13,23) = %d, %v; want 4, true", c, ok)
	}
	if _, ok := p.At(14, 23); ok {
		t.Error("At(14,23) should be outside")
	}
	if p.Pix()[0] != 3 {
		t.Errorf("bottom-left pixel stored at %v", p.Pix())
	}
}

func TestPixmap_WriteMask(t *testing.T) {
	p := New(geom.R(0, 0, 0, 0))
	p.Set(0, 0, 0b1010)
	p.Write(0, 0, 0b0101, 0b0011)
	if c, _ := p.At(0, 0); c != 0b1001 {
		t.Errorf("At() = %04b, want 1001", c)
	}
}

func TestPixmap_FillRectClipsToPixmap(t *testing.T) {
	p := New(geom.R(0, 0, 3, 3))
	p.FillRect(geom.R(2, 2, 10, 10), 7, -1)

	n := 0
	for _, c := range p.Pix() {
		if c == 7 {
			n++
		}
	}
	if n != 4 {
		t.Errorf("filled %d pixels, want 4", n)
	}
}

func TestPixmap_SubAndDraw(t *testing.T) {
	p := New(geom.R(0, 0, 9, 9))
	p.Set(5, 5, 2)

	sub := p.Sub(geom.R(4, 4, 12, 6))
	if c, _ := sub.At(5, 5); c != 2 {
		t.Errorf("Sub At(5,5) = %d, want 2", c)
	}
	if c, ok := sub.At(12, 6); !ok || c != 0 {
		t.Errorf("Sub At(12,6) = %d, %v; want background", c, ok)
	}

	sub.Set(6, 6, 5)
	p.Draw(sub)
	if c, _ := p.At(6, 6); c != 5 {
		t.Errorf("Draw did not copy back: At(6,6) = %d", c)
	}
}

func TestPixmap_Shift(t *testing.T) {
	p := New(geom.R(0, 0, 4, 4))
	p.Set(1, 1, 3)
	p.Set(4, 4, 8)
	p.Shift(geom.Pt(2, 0), 1)

	if c, _ := p.At(3, 1); c != 3 {
		t.Errorf("At(3,1) = %d, want shifted 3", c)
	}
	if c, _ := p.At(0, 0); c != 1 {
		t.Errorf("At(0,0) = %d, want fill 1", c)
	}
	if c, _ := p.At(4, 4); c == 8 {
		t.Error("pixel shifted off the edge is still present")
	}
}

func TestPixmap_PNG(t *testing.T) {
	m := cmap.New(8, cmap.Basic())
	red, _ := m.NameToIndex("red")

	p := New(geom.R(0, 0, 1, 1))
	p.Set(0, 0, red) // bottom-left

	img := p.ToImage(m)
	if got := img.RGBAAt(0, 1); got.R != 220 || got.A != 255 {
		t.Errorf("ToImage bottom-left = %v, want red", got)
	}

	fs := afero.NewMemMapFs()
	if err := p.SavePNG(fs, "/out.png", m); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	data, _ := afero.ReadFile(fs, "/out.png")
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds().Dx() != 2 {
		t.Errorf("decoded width = %d, want 2", decoded.Bounds().Dx())
	}
}
