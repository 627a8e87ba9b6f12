package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDemo(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	t.Setenv("GR_CONFIG", "/nonexistent/gr.toml")
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut, fs)
	return out.String(), err
}

func TestBackends(t *testing.T) {
	out, err := runDemo(t, nil, "backends")
	require.NoError(t, err)
	for _, name := range []string{"null", "raster", "wgpu", "term"} {
		assert.Contains(t, out, name)
	}
	assert.True(t, strings.HasPrefix(out, "NAME"))
}

func TestDrawRasterWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.png")
	out, err := runDemo(t, nil, "--display", "raster", "draw", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "drew scene on raster")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestDrawUsesConfiguredDisplay(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/gr.toml",
		[]byte("config_schema = 1\n[display]\ntype = \"minimal\"\n[log]\nmax_size_mb = 1\nconsole = false\n"), 0o600))

	out, err := runDemo(t, fs, "-c", "/cfg/gr.toml", "draw")
	require.NoError(t, err)
	assert.Contains(t, out, "drew scene on null")
}

func TestDrawBadStyleSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s/broken.dstyle", []byte("display_styles\n0 0377\n"), 0o600))

	_, err := runDemo(t, fs, "-d", "null", "draw", "--styles", "/s/broken.dstyle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load styles")
}

func TestBadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/gr.toml", []byte("config_schema = 2\n"), 0o600))
	_, err := runDemo(t, fs, "-c", "/cfg/gr.toml", "backends")
	assert.Error(t, err)
}

func TestCmapCSV(t *testing.T) {
	out, err := runDemo(t, nil, "-d", "null", "cmap", "--csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "index,name,red,green,blue"), out)
	assert.Contains(t, out, "background")
}

func TestStylesCheck(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s/default.dstyle", []byte(defaultStyles), 0o600))

	out, err := runDemo(t, fs, "styles", "check", "/s/default.dstyle")
	require.NoError(t, err)
	assert.Contains(t, out, "yellow-stipple")

	out, err = runDemo(t, fs, "styles", "check", "--yaml", "/s/default.dstyle")
	require.NoError(t, err)
	assert.Contains(t, out, "stipples")
}

func TestStylesFindSuggests(t *testing.T) {
	out, err := runDemo(t, nil, "styles", "find", "r")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2\tred"), out)

	_, err = runDemo(t, nil, "styles", "find", "yelow-stipple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "yellow-stipple"`)
}
