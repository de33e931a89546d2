package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gogpu/texpaint"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func memLoader(images map[string]image.Image) func(string) (image.Image, error) {
	return func(name string) (image.Image, error) {
		img, ok := images[name]
		if !ok {
			return nil, errUnknownTarget
		}
		return img, nil
	}
}

func cpuConfig() texpaint.Config {
	c := texpaint.DefaultConfig()
	c.GPU = false
	return c
}

func TestDecodeScript(t *testing.T) {
	s, err := DecodeScript(`
[targets]
other = "other.png"

[[step]]
op = "stroke"
points = [[0.1, 0.5], [0.2, 0.5]]
radius = 3
color = "#00ff00"

[[step]]
op = "adjust"
kind = "global"
channel = "brightness"
value = 0.5
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 2 || s.Targets["other"] != "other.png" {
		t.Fatalf("script = %+v", s)
	}
	if s.Steps[0].Radius == nil || *s.Steps[0].Radius != 3 || len(s.Steps[0].Points) != 2 {
		t.Errorf("stroke step = %+v", s.Steps[0])
	}
	if s.Steps[1].Value != 0.5 {
		t.Errorf("adjust value = %v", s.Steps[1].Value)
	}
}

func TestPaintScript(t *testing.T) {
	tests := []struct {
		name   string
		script string
		check  func(t *testing.T, img *texpaint.ImageBuffer)
	}{
		{
			name:   "empty",
			script: ``,
			check: func(t *testing.T, img *texpaint.ImageBuffer) {
				if got := img.At(4, 4); got != (texpaint.RGBA{R: 1, G: 1, B: 1, A: 1}) {
					t.Errorf("pixel = %v, want white", got)
				}
			},
		},
		{
			name: "fill",
			script: `
[[step]]
op = "fill"
u = 0.5
v = 0.5
color = "#0000ff"
`,
			check: func(t *testing.T, img *texpaint.ImageBuffer) {
				if got := img.At(0, 7); got != (texpaint.RGBA{B: 1, A: 1}) {
					t.Errorf("pixel = %v, want blue", got)
				}
			},
		},
		{
			name: "brush then undo",
			script: `
[[step]]
op = "brush"
u = 0.5
v = 0.5
radius = 2
color = "#ff0000"

[[step]]
op = "undo"
`,
			check: func(t *testing.T, img *texpaint.ImageBuffer) {
				if got := img.At(4, 4); got != (texpaint.RGBA{R: 1, G: 1, B: 1, A: 1}) {
					t.Errorf("pixel = %v, want white", got)
				}
			},
		},
		{
			name: "global brightness",
			script: `
[[step]]
op = "adjust"
kind = "global"
channel = "brightness"
value = 0
`,
			check: func(t *testing.T, img *texpaint.ImageBuffer) {
				if got := img.At(1, 1); got != (texpaint.RGBA{A: 1}) {
					t.Errorf("pixel = %v, want black", got)
				}
			},
		},
		{
			name: "switch target",
			script: `
[[step]]
op = "bind"
target = "other"
`,
			check: func(t *testing.T, img *texpaint.ImageBuffer) {
				if img.Width() != 4 {
					t.Errorf("width = %d, want 4", img.Width())
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeScript(tt.script)
			if err != nil {
				t.Fatal(err)
			}
			b := newMemBinding(memLoader(map[string]image.Image{
				mainTarget: solid(8, 8, color.NRGBA{255, 255, 255, 255}),
				"other":    solid(4, 4, color.NRGBA{0, 0, 0, 255}),
			}))
			img, err := paint(b, cpuConfig(), s)
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, img)
		})
	}
}

func TestPaintScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   error
	}{
		{"unknown op", "[[step]]\nop = \"smudge\"\n", texpaint.ErrInvalidArgument},
		{"bad kind", "[[step]]\nop = \"reset\"\nkind = \"nope\"\n", texpaint.ErrInvalidArgument},
		{"bad region", "[[step]]\nop = \"invert\"\nregion = \"edges\"\n", texpaint.ErrInvalidArgument},
		{"bad point", "[[step]]\nop = \"stroke\"\npoints = [[0.5]]\n", texpaint.ErrInvalidArgument},
		{"unknown target", "[[step]]\nop = \"bind\"\ntarget = \"missing\"\n", errUnknownTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeScript(tt.script)
			if err != nil {
				t.Fatal(err)
			}
			b := newMemBinding(memLoader(map[string]image.Image{
				mainTarget: solid(4, 4, color.NRGBA{255, 255, 255, 255}),
			}))
			_, err = paint(b, cpuConfig(), s)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if err != nil && !strings.Contains(err.Error(), "step 1") {
				t.Errorf("err = %v, want step number", err)
			}
		})
	}
}

func TestMemBinding(t *testing.T) {
	b := newMemBinding(memLoader(map[string]image.Image{
		mainTarget: solid(3, 2, color.NRGBA{10, 20, 30, 255}),
	}))
	if err := b.Rebind(texpaint.TargetDescriptor{Target: "missing"}); !errors.Is(err, errUnknownTarget) {
		t.Errorf("Rebind(missing) = %v", err)
	}
	if err := b.Rebind(texpaint.TargetDescriptor{Target: mainTarget}); err != nil {
		t.Fatal(err)
	}
	if w, h := b.Dimensions(); w != 3 || h != 2 {
		t.Errorf("Dimensions() = %dx%d", w, h)
	}
	base, _ := b.BaseImage()
	if b.preview() != base {
		t.Error("preview without push is not the base image")
	}

	buf, _ := texpaint.NewImageBuffer(3, 2)
	if err := b.PushPreview(buf); err != nil {
		t.Fatal(err)
	}
	buf.Fill(texpaint.RGBA{R: 1, A: 1})
	if b.preview().At(0, 0) == buf.At(0, 0) {
		t.Error("pushed preview aliases the engine buffer")
	}
	if err := b.ReleasePreview(); err != nil {
		t.Fatal(err)
	}
	if b.preview() != base {
		t.Error("release did not restore the base image")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	if err := imaging.Save(solid(16, 8, color.NRGBA{255, 255, 255, 255}), in); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "edits.toml")
	err := os.WriteFile(script, []byte(`
[[step]]
op = "invert"
region = "all"
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	c := config{
		in:          in,
		out:         filepath.Join(dir, "out.png"),
		script:      script,
		preview:     filepath.Join(dir, "thumb.png"),
		previewSize: 4,
		cpu:         true,
	}
	if err := run(c); err != nil {
		t.Fatal(err)
	}

	out, err := imaging.Open(c.out)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, _ := out.At(3, 3).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("output pixel = %d,%d,%d, want black", r, g, b)
	}
	thumb, err := imaging.Open(c.preview)
	if err != nil {
		t.Fatal(err)
	}
	if got := thumb.Bounds().Size(); got != image.Pt(4, 2) {
		t.Errorf("thumbnail size = %v, want 4x2", got)
	}
}

func TestRunRequiresInput(t *testing.T) {
	if err := run(config{}); err == nil {
		t.Error("run without -in succeeded")
	}
}

func TestHandlerFor(t *testing.T) {
	var buf bytes.Buffer
	slog.New(handlerFor(&buf, false, slog.LevelInfo)).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("non-terminal output is not JSON: %q", buf.String())
	}
	buf.Reset()
	slog.New(handlerFor(&buf, true, slog.LevelInfo)).Debug("hidden")
	slog.New(handlerFor(&buf, true, slog.LevelInfo)).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") || strings.Contains(buf.String(), "hidden") {
		t.Errorf("terminal output = %q", buf.String())
	}
}
