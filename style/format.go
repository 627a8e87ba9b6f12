package style

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load errors.
var (
	ErrParse          = errors.New("style: parse error")
	ErrDuplicateIndex = errors.New("style: duplicate index")
	ErrIndexGap       = errors.New("style: indices not contiguous")
)

// LoadError describes why a style source was rejected.
type LoadError struct {
	Line int // 1-based source line, 0 if unknown
	Err  error
	Msg  string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("style: line %d: %s", e.Line, e.Msg)
	}
	return "style: " + e.Msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

const (
	sectionStyles   = "display_styles"
	sectionStipples = "stipples"
	sectionEnd      = "end"
)

// Load parses a text style source:
//
//	display_styles
//	# index mask color outline fill stipple short long-name
//	0 0377 0 0xffff solid 0 - background
//	end
//	stipples
//	1 88 44 22 11 88 44 22 11
//	end
//
// Masks and outlines accept Go number prefixes (0x, 0 for octal). A short
// name of "-" means none. Unknown sections are skipped up to their "end".
func Load(r io.Reader) (*Table, error) {
	var (
		entries  []Entry
		stipples = make(map[int]Pattern)
		seen     = make(map[int]bool)
		section  string
		lineNo   int
		sc       = bufio.NewScanner(r)
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		parseErr := func(format string, args ...any) error {
			return &LoadError{Line: lineNo, Err: ErrParse, Msg: fmt.Sprintf(format, args...)}
		}

		if section == "" {
			if strings.ContainsAny(line, " \t") {
				return nil, parseErr("expected section name, got %q", line)
			}
			section = line
			continue
		}
		if line == sectionEnd {
			section = ""
			continue
		}

		switch section {
		case sectionStyles:
			e, err := parseEntry(line)
			if err != nil {
				return nil, parseErr("%v", err)
			}
			if seen[e.Index] {
				return nil, &LoadError{Line: lineNo, Err: ErrDuplicateIndex,
					Msg: fmt.Sprintf("index %d defined twice", e.Index)}
			}
			seen[e.Index] = true
			entries = append(entries, e)
		case sectionStipples:
			n, p, err := parseStipple(line)
			if err != nil {
				return nil, parseErr("%v", err)
			}
			if _, dup := stipples[n]; dup {
				return nil, &LoadError{Line: lineNo, Err: ErrDuplicateIndex,
					Msg: fmt.Sprintf("stipple %d defined twice", n)}
			}
			stipples[n] = p
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("style: read: %w", err)
	}
	if section != "" {
		return nil, &LoadError{Line: lineNo, Err: ErrParse, Msg: fmt.Sprintf("section %s missing end", section)}
	}
	return NewTable(entries, stipples)
}

func parseEntry(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return Entry{}, fmt.Errorf("want 8 fields, got %d", len(fields))
	}
	var (
		e   Entry
		err error
	)
	if e.Index, err = strconv.Atoi(fields[0]); err != nil || e.Index < 0 {
		return Entry{}, fmt.Errorf("index %q: want non-negative number", fields[0])
	}
	mask, err := strconv.ParseInt(fields[1], 0, 32)
	if err != nil {
		return Entry{}, fmt.Errorf("mask %q is not a number", fields[1])
	}
	e.Mask = int(mask)
	if e.Color, err = strconv.Atoi(fields[2]); err != nil {
		return Entry{}, fmt.Errorf("color %q is not a number", fields[2])
	}
	outline, err := strconv.ParseUint(fields[3], 0, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("outline %q: want 16-bit pattern", fields[3])
	}
	e.Outline = uint16(outline)
	if e.Fill, err = parseFill(fields[4]); err != nil {
		return Entry{}, err
	}
	stipple, err := strconv.Atoi(fields[5])
	if err != nil {
		return Entry{}, fmt.Errorf("stipple %q is not a number", fields[5])
	}
	e.Stipple = stipple
	if e.ShortName, err = parseShort(fields[6]); err != nil {
		return Entry{}, err
	}

	// The long name is the rest of the line after the seventh field.
	rest := line
	for range 7 {
		rest = strings.TrimLeft(rest, " \t")
		rest = rest[strings.IndexAny(rest, " \t"):]
	}
	if e.LongName, err = parseLong(strings.TrimSpace(rest)); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func parseFill(s string) (FillStyle, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(fillNames) {
			return 0, fmt.Errorf("fill style %d out of range", n)
		}
		return FillStyle(n), nil
	}
	return ParseFillStyle(s)
}

func parseShort(s string) (rune, error) {
	if s == "-" {
		return 0, nil
	}
	if strings.HasPrefix(s, "'") {
		u, err := strconv.Unquote(s)
		if err != nil || utf8.RuneCountInString(u) != 1 {
			return 0, fmt.Errorf("bad short name %s", s)
		}
		r, _ := utf8.DecodeRuneInString(u)
		return r, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("short name %q must be one character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func parseLong(s string) (string, error) {
	if strings.HasPrefix(s, `"`) {
		u, err := strconv.Unquote(s)
		if err != nil {
			return "", fmt.Errorf("bad long name %s", s)
		}
		return u, nil
	}
	return s, nil
}

func parseStipple(line string) (int, Pattern, error) {
	fields := strings.Fields(line)
	if len(fields) != 9 {
		return 0, Pattern{}, fmt.Errorf("stipple wants number and 8 rows, got %d fields", len(fields))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, Pattern{}, fmt.Errorf("stipple number %q", fields[0])
	}
	var p Pattern
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return 0, Pattern{}, fmt.Errorf("stipple row %q: want hex byte", f)
		}
		p[i] = uint8(v)
	}
	return n, p, nil
}

// Save writes the table in the text format read by Load.
func (t *Table) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, sectionStyles)
	fmt.Fprintln(bw, "# index mask color outline fill stipple short long-name")
	for _, e := range t.entries {
		fmt.Fprintf(bw, "%d %s %d 0x%04x %s %d %s %s\n",
			e.Index, formatMask(e.Mask), e.Color, e.Outline, e.Fill, e.Stipple,
			formatShort(e.ShortName), formatLong(e.LongName))
	}
	fmt.Fprintln(bw, sectionEnd)

	if len(t.stipples) > 0 {
		fmt.Fprintln(bw, sectionStipples)
		for _, n := range t.StippleNumbers() {
			p := t.stipples[n]
			fmt.Fprintf(bw, "%d", n)
			for _, row := range p {
				fmt.Fprintf(bw, " %02x", row)
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, sectionEnd)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("style: save: %w", err)
	}
	return nil
}

// formatMask writes masks in octal, the way plane masks are usually read.
func formatMask(m int) string {
	if m < 0 {
		return strconv.Itoa(m)
	}
	return "0" + strconv.FormatInt(int64(m), 8)
}

func formatShort(r rune) string {
	switch {
	case r == 0:
		return "-"
	case r == ' ':
		return `'\x20'`
	case r == '-' || r == '\'' || r == '"' || !strconv.IsPrint(r):
		return strconv.QuoteRune(r)
	}
	return string(r)
}

func formatLong(s string) string {
	if s == "" || strings.ContainsAny(s, "\"\n\r") || s != strings.TrimSpace(s) {
		return strconv.Quote(s)
	}
	return s
}

type yamlEntry struct {
	Index   int    `yaml:"index"`
	Mask    int    `yaml:"mask"`
	Color   int    `yaml:"color"`
	Outline uint16 `yaml:"outline"`
	Fill    string `yaml:"fill"`
	Stipple int    `yaml:"stipple"`
	Short   string `yaml:"short,omitempty"`
	Long    string `yaml:"long"`
}

type yamlStipple struct {
	Num  int   `yaml:"num"`
	Rows []int `yaml:"rows,flow"`
}

type yamlDoc struct {
	Styles   []yamlEntry   `yaml:"styles"`
	Stipples []yamlStipple `yaml:"stipples,omitempty"`
}

// LoadYAML parses a YAML style source with a "styles" list and an
// optional "stipples" list.
func LoadYAML(r io.Reader) (*Table, error) {
	var doc yamlDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Err: ErrParse, Msg: err.Error()}
	}

	entries := make([]Entry, 0, len(doc.Styles))
	seen := make(map[int]bool, len(doc.Styles))
	for i, y := range doc.Styles {
		fill, err := ParseFillStyle(y.Fill)
		if err != nil {
			return nil, &LoadError{Err: ErrParse, Msg: fmt.Sprintf("style %d: %v", i, err)}
		}
		var short rune
		if y.Short != "" {
			if utf8.RuneCountInString(y.Short) != 1 {
				return nil, &LoadError{Err: ErrParse, Msg: fmt.Sprintf("style %d: short name %q", i, y.Short)}
			}
			short, _ = utf8.DecodeRuneInString(y.Short)
		}
		if seen[y.Index] {
			return nil, &LoadError{Err: ErrDuplicateIndex, Msg: fmt.Sprintf("index %d defined twice", y.Index)}
		}
		seen[y.Index] = true
		entries = append(entries, Entry{
			Index: y.Index, Mask: y.Mask, Color: y.Color, Outline: y.Outline,
			Fill: fill, Stipple: y.Stipple, ShortName: short, LongName: y.Long,
		})
	}

	stipples := make(map[int]Pattern, len(doc.Stipples))
	for _, s := range doc.Stipples {
		if len(s.Rows) != len(Pattern{}) {
			return nil, &LoadError{Err: ErrParse, Msg: fmt.Sprintf("stipple %d: want 8 rows", s.Num)}
		}
		if _, dup := stipples[s.Num]; dup {
			return nil, &LoadError{Err: ErrDuplicateIndex, Msg: fmt.Sprintf("stipple %d defined twice", s.Num)}
		}
		var p Pattern
		for i, row := range s.Rows {
			if row < 0 || row > 0xff {
				return nil, &LoadError{Err: ErrParse, Msg: fmt.Sprintf("stipple %d: row %d out of range", s.Num, row)}
			}
			p[i] = uint8(row)
		}
		stipples[s.Num] = p
	}
	return NewTable(entries, stipples)
}

// SaveYAML writes the table in the YAML format read by LoadYAML.
func (t *Table) SaveYAML(w io.Writer) error {
	var doc yamlDoc
	for _, e := range t.entries {
		y := yamlEntry{
			Index: e.Index, Mask: e.Mask, Color: e.Color, Outline: e.Outline,
			Fill: e.Fill.String(), Stipple: e.Stipple, Long: e.LongName,
		}
		if e.ShortName != 0 {
			y.Short = string(e.ShortName)
		}
		doc.Styles = append(doc.Styles, y)
	}
	for _, n := range t.StippleNumbers() {
		p := t.stipples[n]
		rows := make([]int, len(p))
		for i, row := range p {
			rows[i] = int(row)
		}
		doc.Stipples = append(doc.Stipples, yamlStipple{Num: n, Rows: rows})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("style: save yaml: %w", err)
	}
	return enc.Close()
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFile reads a style table from path on fs. Files ending in .yaml or
// .yml are YAML; everything else is the text format.
func LoadFile(fs afero.Fs, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("style: open %s: %w", path, err)
	}
	defer f.Close()

	if isYAML(path) {
		return LoadYAML(f)
	}
	return Load(f)
}
