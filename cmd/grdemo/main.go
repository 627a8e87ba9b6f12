// Command grdemo exercises the gr dispatch layer on any registered
// backend.
//
//	grdemo backends
//	grdemo draw --display raster --out demo.png
//	grdemo draw --display term --watch
//	grdemo cmap --display raster --csv
//	grdemo styles check my.dstyle
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/config"
	"github.com/gogpu/gr/textio"
	"github.com/spf13/afero"

	_ "github.com/gogpu/gr/backend/null"
	_ "github.com/gogpu/gr/backend/raster"
	_ "github.com/gogpu/gr/backend/term"
	_ "github.com/gogpu/gr/backend/wgpu"
)

type cli struct {
	Config  string `short:"c" help:"Configuration file." type:"path"`
	Display string `short:"d" help:"Display type, overriding the configuration."`
	Verbose bool   `short:"v" help:"Log gr lifecycle events to stderr."`

	Backends backendsCmd `cmd:"" help:"List registered backends."`
	Draw     drawCmd     `cmd:"" help:"Draw the demo scene."`
	Cmap     cmapCmd     `cmd:"" help:"Print a backend's default color map."`
	Styles   stylesCmd   `cmd:"" help:"Inspect style sources."`
}

// env is bound into every command's Run.
type env struct {
	out  io.Writer
	fs   afero.Fs
	cfg  config.Values
	sink *textio.Logger
}

// hints returns the configured hints with the --display override.
func (e *env) hints(display string) gr.Hints {
	h := e.cfg.Hints()
	if display != "" {
		h.Display = display
	}
	return h
}

func (e *env) selectBackend(h gr.Hints, opts ...gr.Option) (*gr.Session, error) {
	opts = append([]gr.Option{
		gr.WithSink(e.sink),
		gr.WithFs(e.fs),
		gr.WithGridMultiple(e.cfg.Display.GridMultiple),
	}, opts...)
	s, err := gr.Select(h, opts...)
	if err != nil {
		return nil, fmt.Errorf("select backend: %w", err)
	}
	return s, nil
}

func run(args []string, out, errOut io.Writer, fs afero.Fs) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("grdemo"),
		kong.Description("Draw through the gr device-independent graphics layer."),
		kong.Writers(out, errOut),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	path := c.Config
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(fs, path)
	if err != nil {
		return err
	}

	sink := textio.New(cfg.SinkOptions(errOut))
	defer func() { _ = sink.Close() }()

	if c.Verbose || cfg.Log.Debug {
		level := slog.LevelInfo
		if cfg.Log.Debug {
			level = slog.LevelDebug
		}
		gr.SetLogger(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))
		defer gr.SetLogger(nil)
	}

	return kctx.Run(&env{out: out, fs: fs, cfg: cfg, sink: sink}, &c)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, afero.NewOsFs()); err != nil {
		fmt.Fprintln(os.Stderr, "grdemo:", err)
		os.Exit(1)
	}
}
