// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config reads the startup configuration of a gr host: the four
// display hints, the style and color-map sources, and where the error
// sink writes.
//
// The file is TOML, by default $XDG_CONFIG_HOME/gr/gr.toml. A missing
// file yields Defaults; fields absent from the file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/textio"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	// AppName is the directory under $XDG_CONFIG_HOME.
	AppName = "gr"
	// File is the name of the configuration file.
	File = "gr.toml"
	// Env overrides the configuration file path.
	Env = "GR_CONFIG"
	// SchemaVersion is written to new files and checked on load.
	SchemaVersion = 1
)

// ErrSchema is returned when the file was written for another schema.
var ErrSchema = errors.New("config: schema version mismatch")

// Values is the content of a configuration file.
type Values struct {
	ConfigSchema int     `toml:"config_schema" validate:"eq=1"`
	Display      Display `toml:"display"`
	Sources      Sources `toml:"sources,omitempty"`
	Log          Log     `toml:"log"`
}

// Display holds the startup hints. Empty fields are guessed by
// gr.GuessHints.
type Display struct {
	Graphics     string `toml:"graphics,omitempty"`
	Mouse        string `toml:"mouse,omitempty"`
	Type         string `toml:"type,omitempty" validate:"omitempty,alphanum"`
	Monitor      string `toml:"monitor,omitempty"`
	GridMultiple int    `toml:"grid_multiple,omitempty" validate:"gte=0,lte=64"`
}

// Sources names the style and color-map files loaded after selection.
type Sources struct {
	Styles   string `toml:"styles,omitempty"`
	ColorMap string `toml:"color_map,omitempty"`
	Watch    bool   `toml:"watch"`
}

// Log configures the textio sink.
type Log struct {
	File       string `toml:"file,omitempty"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"gte=1,lte=1024"`
	MaxBackups int    `toml:"max_backups" validate:"gte=0,lte=100"`
	Console    bool   `toml:"console"`
	Debug      bool   `toml:"debug"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Values {
	return Values{
		ConfigSchema: SchemaVersion,
		Log: Log{
			MaxSizeMB:  1,
			MaxBackups: 2,
			Console:    true,
		},
	}
}

// Hints converts the display section to selection hints.
func (v Values) Hints() gr.Hints {
	return gr.Hints{
		Graphics: v.Display.Graphics,
		Mouse:    v.Display.Mouse,
		Display:  v.Display.Type,
		Monitor:  v.Display.Monitor,
	}
}

// SinkOptions converts the log section to textio options. Console output
// goes to console when enabled.
func (v Values) SinkOptions(console io.Writer) textio.Options {
	opts := textio.Options{
		File:       v.Log.File,
		MaxSize:    v.Log.MaxSizeMB,
		MaxBackups: v.Log.MaxBackups,
	}
	if v.Log.Console {
		opts.Console = console
	}
	return opts
}

// DefaultPath returns $GR_CONFIG, or gr.toml in the XDG config directory.
func DefaultPath() string {
	if p := os.Getenv(Env); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppName, File)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges.
func (v Values) Validate() error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.StructField() == "ConfigSchema" {
				return fmt.Errorf("%w: got %v, expecting %d", ErrSchema, fe.Value(), SchemaVersion)
			}
			return fmt.Errorf("config: invalid %s: %q fails %s", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Parse decodes TOML on top of Defaults and validates the result.
func Parse(data []byte) (Values, error) {
	v := Defaults()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return Values{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Values{}, err
	}
	return v, nil
}

// Load reads the file at path from fs. A missing file is not an error and
// yields Defaults.
func Load(fs afero.Fs, path string) (Values, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Values{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return Values{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Save writes v to path, creating its directory.
func Save(fs afero.Fs, path string, v Values) error {
	if err := v.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
