// Command texpaint runs a paint script against an image and writes the
// result.
//
// Usage:
//
//	texpaint -in photo.png -script edits.toml -out painted.png -preview thumb.png
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gogpu/texpaint"
	_ "github.com/gogpu/texpaint/gpu" // enable GPU kernels
	"golang.org/x/term"
)

const mainTarget = "main"

type config struct {
	in          string
	out         string
	script      string
	config      string
	preview     string
	previewSize int
	cpu         bool
	verbose     bool
}

func main() {
	var c config
	flag.StringVar(&c.in, "in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
	flag.StringVar(&c.out, "out", "painted.png", "output image")
	flag.StringVar(&c.script, "script", "", "TOML script of paint operations")
	flag.StringVar(&c.config, "config", "", "TOML engine configuration")
	flag.StringVar(&c.preview, "preview", "", "optional thumbnail output")
	flag.IntVar(&c.previewSize, "preview-size", 256, "thumbnail bounding box in pixels")
	flag.BoolVar(&c.cpu, "cpu", false, "disable the GPU accelerator")
	flag.BoolVar(&c.verbose, "v", false, "debug logging")
	flag.Parse()

	texpaint.SetLogger(newLogger(os.Stderr, c.verbose))

	if err := run(c); err != nil {
		fmt.Fprintln(os.Stderr, "texpaint:", err)
		os.Exit(1)
	}
}

// newLogger uses the text handler on a terminal and JSON otherwise.
func newLogger(w *os.File, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(handlerFor(w, term.IsTerminal(int(w.Fd())), level))
}

func handlerFor(w io.Writer, tty bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if tty {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func run(c config) error {
	if c.in == "" {
		return fmt.Errorf("-in is required")
	}
	cfg := texpaint.DefaultConfig()
	if c.config != "" {
		var err error
		if cfg, err = texpaint.LoadConfig(c.config); err != nil {
			return err
		}
	}
	if c.cpu {
		cfg.GPU = false
	}
	var s Script
	if c.script != "" {
		var err error
		if s, err = LoadScript(c.script); err != nil {
			return err
		}
	}
	paths := map[string]string{mainTarget: c.in}
	for name, p := range s.Targets {
		paths[name] = p
	}

	binding := newMemBinding(fileLoader(paths))
	result, err := paint(binding, cfg, s)
	if err != nil {
		return err
	}

	img := result.ToNRGBA()
	if err := imaging.Save(img, c.out); err != nil {
		return fmt.Errorf("save %s: %w", c.out, err)
	}
	texpaint.Logger().Info("image saved", "path", c.out, "width", result.Width(), "height", result.Height())

	if c.preview != "" {
		thumb := imaging.Fit(img, c.previewSize, c.previewSize, imaging.Lanczos)
		if err := imaging.Save(thumb, c.preview); err != nil {
			return fmt.Errorf("save %s: %w", c.preview, err)
		}
	}
	return nil
}

// paint binds the main target, runs s and returns the image shown on the
// target that is bound at the end.
func paint(binding *memBinding, cfg texpaint.Config, s Script) (*texpaint.ImageBuffer, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	display := &repaintCounter{}
	eng, err := texpaint.New(binding, append(opts, texpaint.WithDisplay(display))...)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	if err := eng.Bind(texpaint.TargetDescriptor{Target: mainTarget}); err != nil {
		return nil, err
	}
	texpaint.Logger().Info("engine ready", "accelerator", eng.AcceleratorName(), "steps", len(s.Steps))
	if err := s.Run(eng); err != nil {
		return nil, err
	}
	texpaint.Logger().Debug("script finished", "repaints", display.n, "pushes", binding.pushes,
		"undo", eng.UndoDepth(), "redo", eng.RedoDepth())
	return binding.preview().Clone(), nil
}
