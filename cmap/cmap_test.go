package cmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"pgregory.net/rapid"
)

func TestNew(t *testing.T) {
	m := New(0, Basic())
	if m.NumColors() != DefaultNumColors {
		t.Errorf("NumColors() = %d, want %d", m.NumColors(), DefaultNumColors)
	}
	if m.Len() != len(Basic()) {
		t.Errorf("Len() = %d, want %d", m.Len(), len(Basic()))
	}

	small := New(4, Basic())
	if small.Len() != 4 {
		t.Errorf("Len() = %d, want defaults truncated to 4", small.Len())
	}
}

func TestMap_NameToIndex(t *testing.T) {
	m := New(16, []Entry{
		{Name: "background"},
		{Name: "metal1", Red: 10},
		{Name: "metal1", Red: 20},
		{},
	})

	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"background", 0, true},
		{"metal1", 1, true}, // lowest index wins
		{"Metal1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := m.NameToIndex(tt.name)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("NameToIndex(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMap_SetGet(t *testing.T) {
	m := New(8, Basic()[:2])

	if err := m.Set(5, 1, 2, 3); err != nil {
		t.Fatalf("Set(5) error = %v", err)
	}
	if m.Len() != 6 {
		t.Errorf("Len() = %d, want 6 after Set past the end", m.Len())
	}
	got, err := m.Get(5)
	if err != nil || got.Red != 1 || got.Green != 2 || got.Blue != 3 {
		t.Errorf("Get(5) = %+v, %v", got, err)
	}

	if err := m.Set(8, 0, 0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Set(8) error = %v, want ErrOutOfRange", err)
	}
	if _, err := m.Get(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Get(-1) error = %v, want ErrOutOfRange", err)
	}
	if e, err := m.Get(7); err != nil || e != (Entry{}) {
		t.Errorf("Get(7) = %+v, %v; want zero entry", e, err)
	}

	if err := m.SetEntry(3, Entry{Name: "poly", Red: 9}); err != nil {
		t.Fatal(err)
	}
	if i, ok := m.NameToIndex("poly"); !ok || i != 3 {
		t.Errorf("NameToIndex(poly) = %d, %v after SetEntry", i, ok)
	}
}

func TestMap_PutMany(t *testing.T) {
	m := New(16, nil)
	n := m.PutMany(0b0100, 0b0110, 7, 8, 9)
	if n != 4 {
		t.Errorf("PutMany() = %d entries, want 4", n)
	}
	for i := range 16 {
		e, _ := m.Get(i)
		want := i&0b0110 == 0b0100
		if (e.Red == 7) != want {
			t.Errorf("entry %d red = %d, set = %v", i, e.Red, want)
		}
	}
}

func TestMap_Reset(t *testing.T) {
	m := New(8, Basic())
	_ = m.Set(1, 99, 99, 99)
	_ = m.Load(strings.NewReader("1 2 3 0 only\n"))
	m.Reset()

	if m.Len() != len(Basic()) {
		t.Fatalf("Len() = %d after Reset", m.Len())
	}
	for i, want := range Basic() {
		if got, _ := m.Get(i); got != want {
			t.Errorf("Get(%d) = %+v, want %+v", i, got, want)
		}
	}
}

func TestMap_Load(t *testing.T) {
	src := `# a comment
#ff8000 1 orange
0 0 0 0 background
10 20 30 3 "two words"

#  another comment
`
	m := New(8, Basic())
	if err := m.Load(strings.NewReader(src)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", m.Len())
	}

	tests := []struct {
		idx  int
		want Entry
	}{
		{0, Entry{Name: "background"}},
		{1, Entry{Name: "orange", Red: 0xff, Green: 0x80}},
		{2, Entry{}},
		{3, Entry{Name: "two words", Red: 10, Green: 20, Blue: 30}},
	}
	for _, tt := range tests {
		if got, _ := m.Get(tt.idx); got != tt.want {
			t.Errorf("Get(%d) = %+v, want %+v", tt.idx, got, tt.want)
		}
	}
}

func TestMap_LoadErrorsLeaveMapUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		line    int
	}{
		{"bad channel", "300 0 0 1 x\n", ErrParse, 1},
		{"missing index", "1 2 3\n", ErrParse, 1},
		{"index past capacity", "0 0 0 0 a\n1 1 1 8 b\n", ErrOutOfRange, 2},
		{"duplicate index", "0 0 0 2 a\n#000000 2 b\n", ErrDuplicateIndex, 2},
		{"bad quote", `0 0 0 0 "open` + "\n", ErrParse, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(8, Basic())
			before := m.Entries()

			err := m.Load(strings.NewReader(tt.src))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			var le *LoadError
			if !errors.As(err, &le) || le.Line != tt.line {
				t.Errorf("Load() error = %#v, want line %d", err, tt.line)
			}
			if got := m.Entries(); len(got) != len(before) || got[0] != before[0] {
				t.Errorf("map changed after failed Load: %v", got)
			}
		})
	}
}

func TestMap_CSVRoundTrip(t *testing.T) {
	m := New(8, []Entry{
		{Name: "background", Red: 1, Green: 2, Blue: 3},
		{Name: "comma, name", Red: 4},
		{},
		{Name: "last", Blue: 255},
	})

	var buf bytes.Buffer
	if err := m.SaveCSV(&buf); err != nil {
		t.Fatalf("SaveCSV() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "index,name,red,green,blue") {
		t.Errorf("SaveCSV() header = %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	want := m.Entries()
	m.Reset()
	_ = m.Set(0, 9, 9, 9)
	if err := m.LoadCSV(&buf); err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	got := m.Entries()
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMap_LoadCSVDuplicate(t *testing.T) {
	m := New(8, Basic())
	src := "index,name,red,green,blue\n1,a,0,0,0\n1,b,0,0,0\n"
	if err := m.LoadCSV(strings.NewReader(src)); !errors.Is(err, ErrDuplicateIndex) {
		t.Errorf("LoadCSV() error = %v, want ErrDuplicateIndex", err)
	}
}

func TestMap_FileFormatByExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(8, Basic())

	for _, path := range []string{"/maps/std.cmap", "/maps/std.csv"} {
		if err := m.SaveFile(fs, path); err != nil {
			t.Fatalf("SaveFile(%s) error = %v", path, err)
		}
		other := New(8, nil)
		if err := other.LoadFile(fs, path); err != nil {
			t.Fatalf("LoadFile(%s) error = %v", path, err)
		}
		if other.Len() != m.Len() {
			t.Errorf("LoadFile(%s) Len() = %d, want %d", path, other.Len(), m.Len())
		}
	}

	data, _ := afero.ReadFile(fs, "/maps/std.csv")
	if !bytes.HasPrefix(data, []byte("index,")) {
		t.Errorf("csv file starts with %q", data[:10])
	}
	if err := m.LoadFile(fs, "/maps/missing.cmap"); err == nil {
		t.Error("LoadFile() of missing file should fail")
	}
}

// TestPropertySaveResetLoad verifies save; reset; load restores the exact
// entry sequence in both formats.
func TestPropertySaveResetLoad(t *testing.T) {
	nameGen := rapid.StringOfN(rapid.RuneFrom([]rune("abcXYZ019 _-#\"")), 0, 12, -1)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 32).Draw(t, "n")
		entries := make([]Entry, n)
		for i := range entries {
			entries[i] = Entry{
				Name:  nameGen.Draw(t, "name"),
				Red:   rapid.Uint8().Draw(t, "r"),
				Green: rapid.Uint8().Draw(t, "g"),
				Blue:  rapid.Uint8().Draw(t, "b"),
			}
		}
		csv := rapid.Bool().Draw(t, "csv")

		m := New(64, Basic())
		if err := m.Replace(entries); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		save, load := m.Save, m.Load
		if csv {
			save, load = m.SaveCSV, m.LoadCSV
		}
		if err := save(&buf); err != nil {
			t.Fatal(err)
		}
		m.Reset()
		if err := load(&buf); err != nil {
			t.Fatalf("load error = %v\n%s", err, buf.String())
		}

		got := m.Entries()
		if len(got) != len(entries) {
			t.Fatalf("Len() = %d, want %d", len(got), len(entries))
		}
		for i := range entries {
			if got[i] != entries[i] {
				t.Fatalf("entry %d = %+v, want %+v", i, got[i], entries[i])
			}
		}
	})
}
