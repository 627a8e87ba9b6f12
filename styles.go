package gr

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/style"
)

// Styles returns the current style table.
func (s *Session) Styles() *style.Table {
	return s.styles
}

// StyleIndex looks up a style by long or short name.
func (s *Session) StyleIndex(name string) (int, bool) {
	return s.styles.IndexFromName(name)
}

// LoadStyles replaces the style table with the text source read from r.
// On failure the error is reported to the sink and the current table is
// kept.
func (s *Session) LoadStyles(r io.Reader) error {
	t, err := style.Load(r)
	if err != nil {
		return s.reportError(err)
	}
	s.installStyles(t, "")
	return nil
}

// LoadStylesFile loads a style table from path (text or YAML by
// extension) and remembers path for ReloadStyles.
func (s *Session) LoadStylesFile(path string) error {
	t, err := style.LoadFile(s.opts.fs, path)
	if err != nil {
		return s.reportError(err)
	}
	s.installStyles(t, path)
	return nil
}

// ReloadStyles reloads the file last given to LoadStylesFile.
func (s *Session) ReloadStyles() error {
	if s.stylesPath == "" {
		return s.reportError(errors.New("gr: reload styles: no style file loaded"))
	}
	return s.LoadStylesFile(s.stylesPath)
}

func (s *Session) installStyles(t *style.Table, path string) {
	s.styles = t
	if path != "" {
		s.stylesPath = path
	}
	Logger().Info("gr: styles loaded", "styles", t.Len(), "path", path)
}

// ColorMap returns the session color map. Callers changing it directly
// must call PushColorMap afterwards.
func (s *Session) ColorMap() *cmap.Map {
	return s.cmap
}

// ColorIndex returns the index of the named color.
func (s *Session) ColorIndex(name string) (int, bool) {
	return s.cmap.NameToIndex(name)
}

// PushColorMap sends the color map to the backend.
func (s *Session) PushColorMap() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.SetColorMap(s.cmap.Entries()); err != nil {
		return s.reportError(fmt.Errorf("gr: set color map: %w", err))
	}
	return nil
}

// SetColor changes entry i and pushes the map. Indices at or past the
// map capacity fail with cmap.ErrOutOfRange.
func (s *Session) SetColor(i int, r, g, b uint8) error {
	if err := s.cmap.Set(i, r, g, b); err != nil {
		return s.reportError(err)
	}
	return s.PushColorMap()
}

// PutManyColors sets every entry matching color under mask and pushes
// the map.
func (s *Session) PutManyColors(color, mask int, r, g, b uint8) error {
	s.cmap.PutMany(color, mask, r, g, b)
	return s.PushColorMap()
}

// ResetColorMap restores the backend default map.
func (s *Session) ResetColorMap() error {
	s.cmap.Reset()
	return s.PushColorMap()
}

// LoadColorMap replaces the map with the text source read from r. The map
// is unchanged on failure.
func (s *Session) LoadColorMap(r io.Reader) error {
	if err := s.cmap.Load(r); err != nil {
		return s.reportError(err)
	}
	return s.PushColorMap()
}

// LoadColorMapFile loads the map from path, as CSV when it ends in .csv.
func (s *Session) LoadColorMapFile(path string) error {
	if err := s.cmap.LoadFile(s.opts.fs, path); err != nil {
		return s.reportError(err)
	}
	return s.PushColorMap()
}

// SaveColorMap writes the map in the text format.
func (s *Session) SaveColorMap(w io.Writer) error {
	return s.cmap.Save(w)
}

// SaveColorMapFile writes the map to path, as CSV when it ends in .csv.
func (s *Session) SaveColorMapFile(path string) error {
	if err := s.cmap.SaveFile(s.opts.fs, path); err != nil {
		return s.reportError(err)
	}
	return nil
}
