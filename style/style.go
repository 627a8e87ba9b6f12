// Package style holds the display style table: the line and fill styles
// every draw operation is resolved through.
//
// A table is loaded once from a style source and is immutable afterwards;
// a reload builds a new Table and swaps it in only when loading succeeds.
package style

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"
)

// FillStyle selects how an area drawn with a style is filled.
type FillStyle int

const (
	// Solid fills every pixel.
	Solid FillStyle = iota
	// Cross draws the outline and both diagonals.
	Cross
	// Outline draws the outline only.
	Outline
	// Stipple fills through the entry's stipple pattern.
	Stipple
	// Grid draws a grid; only meaningful for grid styles.
	Grid
)

var fillNames = [...]string{"solid", "cross", "outline", "stipple", "grid"}

func (f FillStyle) String() string {
	if f >= 0 && int(f) < len(fillNames) {
		return fillNames[f]
	}
	return fmt.Sprintf("FillStyle(%d)", int(f))
}

// ParseFillStyle parses a fill style name, case-insensitively.
func ParseFillStyle(s string) (FillStyle, error) {
	for i, n := range fillNames {
		if strings.EqualFold(n, s) {
			return FillStyle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fill style %q", s)
}

// SolidOutline is the dash pattern of a continuous line.
const SolidOutline uint16 = 0xffff

// Entry is one row of the style table.
type Entry struct {
	Index     int
	Mask      int       // write mask applied to Color
	Color     int       // color map index
	Outline   uint16    // line dash pattern, one bit per pixel
	Fill      FillStyle
	Stipple   int  // stipple pattern number, used with Fill == Stipple
	ShortName rune // single-key name, 0 for none
	LongName  string
}

// Pattern is an 8x8 stipple pattern, one byte per row.
type Pattern [8]uint8

// Set reports whether the pattern covers pixel (x, y).
func (p Pattern) Set(x, y int) bool {
	return p[y&7]&(0x80>>(x&7)) != 0
}

// Table is an immutable style table with its stipple patterns.
type Table struct {
	entries  []Entry
	stipples map[int]Pattern
	byLong   map[string]int
	byShort  map[rune]int
}

// NewTable builds a table from entries ordered by index. It returns a
// *LoadError if the indices are not dense from 0 or a stipple style
// names a pattern the table does not define.
func NewTable(entries []Entry, stipples map[int]Pattern) (*Table, error) {
	t := &Table{
		entries:  slices.Clone(entries),
		stipples: make(map[int]Pattern, len(stipples)),
		byLong:   make(map[string]int, len(entries)),
		byShort:  make(map[rune]int),
	}
	for n, p := range stipples {
		t.stipples[n] = p
	}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.Index] {
			return nil, &LoadError{Err: ErrDuplicateIndex, Msg: fmt.Sprintf("index %d defined twice", e.Index)}
		}
		seen[e.Index] = true
	}
	slices.SortFunc(t.entries, func(a, b Entry) int { return a.Index - b.Index })
	for i, e := range t.entries {
		if e.Index != i {
			return nil, &LoadError{Err: ErrIndexGap, Msg: fmt.Sprintf("index %d missing", i)}
		}
		if e.Fill == Stipple {
			if _, ok := t.stipples[e.Stipple]; !ok {
				return nil, &LoadError{Err: ErrParse, Msg: fmt.Sprintf("style %d: stipple %d not defined", i, e.Stipple)}
			}
		}
		if e.LongName != "" {
			if _, dup := t.byLong[e.LongName]; !dup {
				t.byLong[e.LongName] = i
			}
		}
		if e.ShortName != 0 {
			if _, dup := t.byShort[e.ShortName]; !dup {
				t.byShort[e.ShortName] = i
			}
		}
	}
	return t, nil
}

// Len returns the number of styles.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entry returns the style with the given index.
func (t *Table) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of all styles in index order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Stipple returns stipple pattern n.
func (t *Table) Stipple(n int) (Pattern, bool) {
	p, ok := t.stipples[n]
	return p, ok
}

// StippleNumbers returns the defined pattern numbers in ascending order.
func (t *Table) StippleNumbers() []int {
	nums := make([]int, 0, len(t.stipples))
	for n := range t.stipples {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// IndexFromName looks a style up by exact, case-sensitive long name, then
// by short name when name is a single character.
func (t *Table) IndexFromName(name string) (int, bool) {
	if i, ok := t.byLong[name]; ok {
		return i, true
	}
	r := []rune(name)
	if len(r) == 1 {
		i, ok := t.byShort[r[0]]
		return i, ok
	}
	return 0, false
}

// minSuggestScore is the lowest Jaro-Winkler similarity Suggest accepts.
const minSuggestScore = 0.8

// Suggest returns the long name closest to name, for "did you mean"
// messages after a failed lookup.
func (t *Table) Suggest(name string) (string, bool) {
	best, bestScore := "", float32(0)
	for _, e := range t.entries {
		if e.LongName == "" {
			continue
		}
		score := edlib.JaroWinklerSimilarity(strings.ToLower(name), strings.ToLower(e.LongName))
		if score > bestScore {
			best, bestScore = e.LongName, score
		}
	}
	if bestScore < minSuggestScore {
		return "", false
	}
	return best, true
}
