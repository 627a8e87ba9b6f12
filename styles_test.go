package gr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/style"
	"github.com/spf13/afero"
)

func TestLoadStyles_DuplicateKeepsPriorTable(t *testing.T) {
	h := newHarness(t, 0)
	withStyles(t, h)
	before := h.s.Styles()

	dup := "display_styles\n0 1 0 0xffff solid 0 - a\n1 1 1 0xffff solid 0 - b\n2 1 2 0xffff solid 0 - c\n2 1 3 0xffff solid 0 - d\nend\n"
	err := h.s.LoadStyles(strings.NewReader(dup))
	if !errors.Is(err, style.ErrDuplicateIndex) {
		t.Fatalf("LoadStyles() error = %v, want ErrDuplicateIndex", err)
	}
	if h.s.Styles() != before {
		t.Error("failed LoadStyles replaced the style table")
	}
	if i, ok := h.s.StyleIndex("crossed"); !ok || i != 3 {
		t.Errorf("StyleIndex(crossed) = %d, %v after failed load", i, ok)
	}
	if msgs := h.sink.Errors(); len(msgs) != 1 {
		t.Errorf("sink errors = %q, want one report", msgs)
	}
}

func TestLoadStylesFileAndReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/styles/tech.dstyle", []byte(testStyles), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, 0, WithFs(fs))

	if err := h.s.ReloadStyles(); err == nil {
		t.Error("ReloadStyles() before any file = nil, want error")
	}
	if err := h.s.LoadStylesFile("/styles/tech.dstyle"); err != nil {
		t.Fatalf("LoadStylesFile() error = %v", err)
	}
	if h.s.Styles().Len() != 5 {
		t.Fatalf("Styles().Len() = %d, want 5", h.s.Styles().Len())
	}

	edited := strings.Replace(testStyles, "4 0010 6 0xffff stipple 1 s dotted\n", "", 1)
	if err := afero.WriteFile(fs, "/styles/tech.dstyle", []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.s.ReloadStyles(); err != nil {
		t.Fatalf("ReloadStyles() error = %v", err)
	}
	if h.s.Styles().Len() != 4 {
		t.Errorf("Styles().Len() after reload = %d, want 4", h.s.Styles().Len())
	}

	if err := h.s.LoadStylesFile("/styles/missing.dstyle"); err == nil {
		t.Error("LoadStylesFile(missing) = nil, want error")
	}
	if h.s.Styles().Len() != 4 {
		t.Error("failed LoadStylesFile replaced the table")
	}
}

func TestSetColor_PushesMap(t *testing.T) {
	h := newHarness(t, 0)

	if err := h.s.SetColor(2, 1, 2, 3); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if got := h.fb.cmap[2]; got.Red != 1 || got.Green != 2 || got.Blue != 3 || got.Name != "white" {
		t.Errorf("backend entry 2 = %+v", got)
	}

	if err := h.s.SetColor(cmap.DefaultNumColors, 0, 0, 0); !errors.Is(err, cmap.ErrOutOfRange) {
		t.Errorf("SetColor(past capacity) error = %v, want ErrOutOfRange", err)
	}
	if len(h.sink.Errors()) != 1 {
		t.Errorf("sink errors = %q", h.sink.Errors())
	}
}

func TestPutManyColors(t *testing.T) {
	h := newHarness(t, 0)

	if err := h.s.PutManyColors(1, 1, 9, 9, 9); err != nil {
		t.Fatal(err)
	}
	for i, e := range h.fb.cmap {
		odd := i&1 == 1
		if got := e.Red == 9; got != odd {
			t.Errorf("entry %d = %+v, changed %v, want %v", i, e, got, odd)
		}
	}
}

func TestColorMapLoadSaveReset(t *testing.T) {
	h := newHarness(t, 0)

	if err := h.s.LoadColorMap(strings.NewReader("#102030 0 paper\n1 2 3 1 ink\n")); err != nil {
		t.Fatalf("LoadColorMap() error = %v", err)
	}
	if len(h.fb.cmap) != 2 || h.fb.cmap[1].Name != "ink" {
		t.Errorf("backend map = %+v", h.fb.cmap)
	}

	var buf bytes.Buffer
	if err := h.s.SaveColorMap(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "paper") {
		t.Errorf("SaveColorMap() = %q", buf.String())
	}

	if err := h.s.LoadColorMap(strings.NewReader("oops\n")); err == nil {
		t.Error("LoadColorMap(bad) = nil, want error")
	}
	if h.s.ColorMap().Len() != 2 {
		t.Error("failed LoadColorMap changed the map")
	}

	if err := h.s.ResetColorMap(); err != nil {
		t.Fatal(err)
	}
	if len(h.fb.cmap) != len(cmap.Basic()) {
		t.Errorf("backend map after reset has %d entries, want %d", len(h.fb.cmap), len(cmap.Basic()))
	}
}

func TestColorMapFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := newHarness(t, 0, WithFs(fs))

	if err := h.s.SaveColorMapFile("/cmap/basic.csv"); err != nil {
		t.Fatalf("SaveColorMapFile() error = %v", err)
	}
	if err := h.s.SetColor(1, 7, 7, 7); err != nil {
		t.Fatal(err)
	}
	if err := h.s.LoadColorMapFile("/cmap/basic.csv"); err != nil {
		t.Fatalf("LoadColorMapFile() error = %v", err)
	}
	if e, _ := h.s.ColorMap().Get(1); e.Red != 0 {
		t.Errorf("entry 1 after reload = %+v, want black", e)
	}
}
