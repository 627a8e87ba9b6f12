package cmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"
)

// Load errors.
var (
	ErrParse          = errors.New("cmap: parse error")
	ErrDuplicateIndex = errors.New("cmap: duplicate index")
)

// LoadError describes why a color map source was rejected.
type LoadError struct {
	Line int // 1-based source line, 0 if unknown
	Err  error
	Msg  string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("cmap: line %d: %s", e.Line, e.Msg)
	}
	return "cmap: " + e.Msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load replaces the map with the text source read from r.
//
// Each non-blank line is either
//
//	red green blue index [name]
//	#rrggbb index [name]
//
// Lines starting with '#' that are not a hex color are comments. Names
// containing white space are written quoted. The map is left unchanged if
// any line is rejected.
func (m *Map) Load(r io.Reader) error {
	entries, err := m.parseText(r)
	if err != nil {
		return err
	}
	m.install(entries)
	return nil
}

func (m *Map) parseText(r io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		seen    = make(map[int]bool)
		sc      = bufio.NewScanner(r)
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var (
			e    Entry
			idx  int
			rest string
			err  error
		)
		if line[0] == '#' {
			hex, after := cut(line)
			rr, gg, bb, ok := parseHex(hex)
			if !ok {
				continue // comment
			}
			e.Red, e.Green, e.Blue = rr, gg, bb
			idx, rest, err = parseIndex(after)
		} else {
			e, rest, err = parseChannels(line)
			if err == nil {
				idx, rest, err = parseIndex(rest)
			}
		}
		if err != nil {
			return nil, &LoadError{Line: lineNo, Err: ErrParse, Msg: err.Error()}
		}
		if e.Name, err = parseName(rest); err != nil {
			return nil, &LoadError{Line: lineNo, Err: ErrParse, Msg: err.Error()}
		}

		if idx < 0 || idx >= m.numColors {
			return nil, &LoadError{Line: lineNo, Err: ErrOutOfRange,
				Msg: fmt.Sprintf("index %d outside 0..%d", idx, m.numColors-1)}
		}
		if seen[idx] {
			return nil, &LoadError{Line: lineNo, Err: ErrDuplicateIndex,
				Msg: fmt.Sprintf("index %d defined twice", idx)}
		}
		seen[idx] = true
		if idx >= len(entries) {
			entries = append(entries, make([]Entry, idx+1-len(entries))...)
		}
		entries[idx] = e
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cmap: read: %w", err)
	}
	return entries, nil
}

func cut(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func parseChannels(line string) (Entry, string, error) {
	var ch [3]uint8
	rest := line
	for i := range ch {
		var f string
		f, rest = cut(rest)
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Entry{}, "", fmt.Errorf("channel %q: want 0..255", f)
		}
		ch[i] = uint8(v)
	}
	return Entry{Red: ch[0], Green: ch[1], Blue: ch[2]}, rest, nil
}

func parseIndex(s string) (int, string, error) {
	f, rest := cut(s)
	if f == "" {
		return 0, "", errors.New("missing index")
	}
	idx, err := strconv.Atoi(f)
	if err != nil {
		return 0, "", fmt.Errorf("index %q is not a number", f)
	}
	return idx, rest, nil
}

func parseName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		name, err := strconv.Unquote(s)
		if err != nil {
			return "", fmt.Errorf("bad quoted name %s", s)
		}
		return name, nil
	}
	return s, nil
}

// parseHex parses "#rrggbb".
func parseHex(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexDigit(s[1+2*i])
		lo, ok2 := hexDigit(s[2+2*i])
		if !ok1 || !ok2 {
			return 0, 0, 0, false
		}
		v[i] = hi<<4 | lo
	}
	return v[0], v[1], v[2], true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Save writes every defined entry in the text format accepted by Load.
func (m *Map) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, e := range m.entries {
		fmt.Fprintf(bw, "%d %d %d %d", e.Red, e.Green, e.Blue, i)
		if e.Name != "" {
			bw.WriteByte(' ')
			bw.WriteString(formatName(e.Name))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cmap: save: %w", err)
	}
	return nil
}

func formatName(name string) string {
	if strings.ContainsAny(name, " \t\"\n\r") || name != strings.TrimSpace(name) {
		return strconv.Quote(name)
	}
	return name
}

// csvEntry is the row layout of the CSV format.
type csvEntry struct {
	Index int    `csv:"index"`
	Name  string `csv:"name"`
	Red   uint8  `csv:"red"`
	Green uint8  `csv:"green"`
	Blue  uint8  `csv:"blue"`
}

// LoadCSV replaces the map with CSV rows carrying the header
// index,name,red,green,blue. The map is unchanged on error.
func (m *Map) LoadCSV(r io.Reader) error {
	var rows []csvEntry
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return &LoadError{Err: ErrParse, Msg: err.Error()}
	}

	var entries []Entry
	seen := make(map[int]bool, len(rows))
	for n, row := range rows {
		line := n + 2 // header is line 1
		if row.Index < 0 || row.Index >= m.numColors {
			return &LoadError{Line: line, Err: ErrOutOfRange,
				Msg: fmt.Sprintf("index %d outside 0..%d", row.Index, m.numColors-1)}
		}
		if seen[row.Index] {
			return &LoadError{Line: line, Err: ErrDuplicateIndex,
				Msg: fmt.Sprintf("index %d defined twice", row.Index)}
		}
		seen[row.Index] = true
		if row.Index >= len(entries) {
			entries = append(entries, make([]Entry, row.Index+1-len(entries))...)
		}
		entries[row.Index] = Entry{Name: row.Name, Red: row.Red, Green: row.Green, Blue: row.Blue}
	}
	m.install(entries)
	return nil
}

// SaveCSV writes every defined entry as CSV.
func (m *Map) SaveCSV(w io.Writer) error {
	rows := make([]csvEntry, len(m.entries))
	for i, e := range m.entries {
		rows[i] = csvEntry{Index: i, Name: e.Name, Red: e.Red, Green: e.Green, Blue: e.Blue}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("cmap: save csv: %w", err)
	}
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// LoadFile loads a color map from path on fs, choosing the format from
// the file extension (.csv or text).
func (m *Map) LoadFile(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("cmap: open %s: %w", path, err)
	}
	defer f.Close()

	if isCSV(path) {
		return m.LoadCSV(f)
	}
	return m.Load(f)
}

// SaveFile writes the map to path on fs in the format given by the
// file extension.
func (m *Map) SaveFile(fs afero.Fs, path string) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("cmap: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cmap: close %s: %w", path, cerr)
		}
	}()

	if isCSV(path) {
		return m.SaveCSV(f)
	}
	return m.Save(f)
}
