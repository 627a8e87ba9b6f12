package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/style"
	"github.com/gogpu/gr/watch"
)

type backendsCmd struct{}

func (backendsCmd) Run(e *env) error {
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tALIASES\tPRIORITY\tPIXEL\tAVAILABLE\tOPTIONAL SLOTS")
	for _, name := range gr.List() {
		d, ok := gr.Lookup(name)
		if !ok {
			continue
		}
		available := d.Available == nil || d.Available()
		var optional []string
		for _, slot := range d.Slots.List() {
			if !slot.Mandatory() {
				optional = append(optional, slot.String())
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%v\t%d\n",
			d.Name, strings.Join(d.Aliases, ","), d.Priority, d.PixelCorrect, available, len(optional))
	}
	return tw.Flush()
}

type drawCmd struct {
	Out      string `short:"o" help:"PNG file written by the raster backend (its graphics device)."`
	StyleSrc string `name:"styles" help:"Style source; the built-in table when empty." type:"path"`
	ColorSrc string `name:"cmap" help:"Color-map source loaded after selection." type:"path"`
	Watch    bool   `short:"w" help:"Redraw when the style or color-map source changes."`
}

func (d *drawCmd) Run(e *env, c *cli) error {
	stylePath := firstNonEmpty(d.StyleSrc, e.cfg.Sources.Styles)
	cmapPath := firstNonEmpty(d.ColorSrc, e.cfg.Sources.ColorMap)

	h := e.hints(c.Display)
	if d.Out != "" {
		h.Graphics = d.Out
	}
	s, err := e.selectBackend(h)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := loadSources(s, stylePath, cmapPath); err != nil {
		return err
	}
	if err := drawScene(s); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "drew scene on %s (%s)\n", s.Descriptor().Name, s.ScreenRect())

	if !d.Watch && !e.cfg.Sources.Watch {
		return nil
	}
	if stylePath == "" && cmapPath == "" {
		return fmt.Errorf("draw: --watch needs a style or color-map source")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watchAndRedraw(ctx, s, stylePath, cmapPath)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func loadSources(s *gr.Session, stylePath, cmapPath string) error {
	var err error
	if stylePath != "" {
		err = s.LoadStylesFile(stylePath)
	} else {
		err = s.LoadStyles(strings.NewReader(defaultStyles))
	}
	if err != nil {
		return fmt.Errorf("load styles: %w", err)
	}
	if cmapPath != "" {
		if err := s.LoadColorMapFile(cmapPath); err != nil {
			return fmt.Errorf("load color map: %w", err)
		}
	}
	return nil
}

// watchAndRedraw reloads and redraws on every request until ctx ends.
// Reload failures are reported to the sink and the old sources kept.
func watchAndRedraw(ctx context.Context, s *gr.Session, stylePath, cmapPath string) error {
	w, err := watch.New(watch.WithLogger(gr.Logger()))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if stylePath != "" {
		if err := w.Add(stylePath, watch.Styles); err != nil {
			return err
		}
	}
	if cmapPath != "" {
		if err := w.Add(cmapPath, watch.ColorMap); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case req, ok := <-w.Requests():
			if !ok {
				return nil
			}
			switch req.Kind {
			case watch.Styles:
				err = s.ReloadStyles()
			case watch.ColorMap:
				err = s.LoadColorMapFile(req.Path)
			}
			if err != nil {
				continue
			}
			s.WindowChanged()
			if err := drawScene(s); err != nil {
				return err
			}
		}
	}
}

type cmapCmd struct {
	CSV bool `help:"Write CSV instead of the text format."`
}

func (m *cmapCmd) Run(e *env, c *cli) error {
	s, err := e.selectBackend(e.hints(c.Display))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	if m.CSV {
		return s.ColorMap().SaveCSV(e.out)
	}
	return s.SaveColorMap(e.out)
}

type stylesCmd struct {
	Check stylesCheckCmd `cmd:"" help:"Load a style source and print its table."`
	Find  stylesFindCmd  `cmd:"" help:"Look a style up by name."`
}

type stylesCheckCmd struct {
	File string `arg:"" help:"Style source (text or .yaml)." type:"path"`
	YAML bool   `help:"Print the table as YAML."`
}

func (sc *stylesCheckCmd) Run(e *env) error {
	t, err := style.LoadFile(e.fs, sc.File)
	if err != nil {
		return err
	}
	if sc.YAML {
		return t.SaveYAML(e.out)
	}
	return t.Save(e.out)
}

type stylesFindCmd struct {
	Name string `arg:"" help:"Long name, or a one-character short name."`
	File string `help:"Style source; the built-in table when empty." type:"path"`
}

func (sf *stylesFindCmd) Run(e *env) error {
	var (
		t   *style.Table
		err error
	)
	if sf.File != "" {
		t, err = style.LoadFile(e.fs, sf.File)
	} else {
		t, err = style.Load(strings.NewReader(defaultStyles))
	}
	if err != nil {
		return err
	}
	i, ok := t.IndexFromName(sf.Name)
	if !ok {
		if near, ok := t.Suggest(sf.Name); ok {
			return fmt.Errorf("no style %q, did you mean %q?", sf.Name, near)
		}
		return fmt.Errorf("no style %q", sf.Name)
	}
	entry, _ := t.Entry(i)
	fmt.Fprintf(e.out, "%d\t%s\tcolor %d\t%s\n", i, entry.LongName, entry.Color, entry.Fill)
	return nil
}
