// Command colorbook replays a pointer script against a colouring session
// and writes the exported picture.
//
// Usage:
//
//	colorbook -list
//	colorbook -template flower -script fill.yaml -format jpeg
//	colorbook -width 800 -height 600 -script doodle.yaml -output doodle.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/catalog"
	"github.com/gogpu/colorbook/engine"
	"github.com/gogpu/colorbook/export"
	_ "github.com/gogpu/colorbook/export/pdf"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "colorbook:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("colorbook", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := defaultConfig()
	var (
		configPath = fs.String("config", "", "TOML configuration `file`")
		list       = fs.Bool("list", false, "list the built-in templates and exit")
	)
	fs.StringVar(&cfg.Template, "template", cfg.Template, "template id or SVG `file`; empty for free draw")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "free-draw canvas width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "free-draw canvas height")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "YAML pointer script `file`")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output `file`; defaults to the suggested name")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "export format: "+strings.Join(export.Formats(), ", "))
	fs.Float64Var(&cfg.Scale, "scale", cfg.Scale, "export scale factor")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log debug messages")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath != "" {
		// Flags given on the command line win over the file.
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		fileCfg := cfg
		if err := loadConfig(*configPath, &fileCfg); err != nil {
			return err
		}
		cfg = merge(fileCfg, cfg, set)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	colorbook.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer colorbook.SetLogger(nil)

	if *list {
		for _, t := range catalog.Default().List() {
			fmt.Fprintf(stdout, "%s\t%s\n", t.ID, t.Name)
		}
		return nil
	}

	exportOpts := []export.Option{export.WithFormat(cfg.Format), export.WithScale(cfg.Scale)}
	if cfg.Background != "" {
		bg, err := colorbook.ParseHex(cfg.Background)
		if err != nil {
			return fmt.Errorf("background %q: %w", cfg.Background, err)
		}
		exportOpts = append(exportOpts, export.WithBackground(bg))
	}

	e := engine.New(
		engine.WithCanvasSize(cfg.Width, cfg.Height),
		engine.WithExportOptions(exportOpts...),
		engine.WithListener(notify),
	)
	if err := selectTemplate(e, cfg.Template); err != nil {
		return err
	}

	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return err
		}
		script, err := readScript(f)
		f.Close()
		if err != nil {
			return err
		}
		script.Play(e)
	}

	data, name, err := e.Export()
	if err != nil {
		return err
	}
	out := cfg.Output
	if out == "" {
		out = name
	}
	return os.WriteFile(out, data, 0o644)
}

// selectTemplate resolves ref as a catalog id, then as an SVG file.
func selectTemplate(e *engine.Engine, ref string) error {
	if ref == "" {
		return nil
	}
	if t, ok := catalog.Default().Lookup(ref); ok {
		return e.SelectTemplate(t)
	}
	doc, err := os.ReadFile(ref)
	if err != nil {
		return fmt.Errorf("template %q: %w", ref, catalog.ErrNotFound)
	}
	name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	return e.LoadTemplate(name, string(doc))
}

// merge returns file with the flags named in set taken from flags.
func merge(file, flags Config, set map[string]bool) Config {
	if set["template"] {
		file.Template = flags.Template
	}
	if set["width"] {
		file.Width = flags.Width
	}
	if set["height"] {
		file.Height = flags.Height
	}
	if set["script"] {
		file.Script = flags.Script
	}
	if set["output"] {
		file.Output = flags.Output
	}
	if set["format"] {
		file.Format = flags.Format
	}
	if set["scale"] {
		file.Scale = flags.Scale
	}
	if set["v"] {
		file.Verbose = flags.Verbose
	}
	return file
}

func notify(ev engine.Event) {
	log := colorbook.Logger()
	switch ev.Kind {
	case engine.EventFill, engine.EventErase:
		log.Info("region "+strings.ToLower(ev.Kind.String()), "region", ev.Region, "color", colorbook.Hex(ev.Color))
	case engine.EventStroke:
		log.Info("stroke", "tool", ev.Tool.String(), "end", fmt.Sprintf("%.0f,%.0f", ev.Point.X, ev.Point.Y))
	case engine.EventExport:
		if ev.Pending {
			log.Info("export started", "file", ev.FileName, "id", ev.ExportID.String())
			return
		}
		log.Info("saved", "file", ev.FileName)
	default:
		log.Info(strings.ToLower(ev.Kind.String()), "mode", ev.Mode.String())
	}
}
