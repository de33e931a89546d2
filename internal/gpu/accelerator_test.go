//go:build !nogpu

package gpu

import (
	"errors"
	"image"
	"log/slog"
	"testing"

	"github.com/gogpu/texpaint"
	"github.com/gogpu/texpaint/internal/pixel"
)

func TestAcceleratorNotReady(t *testing.T) {
	a := &Accelerator{}
	if a.Name() != "wgpu" {
		t.Errorf("Name() = %q", a.Name())
	}
	if a.Capabilities() != 0 {
		t.Errorf("Capabilities() = %b, want 0 before Init", a.Capabilities())
	}

	tile := newTile(t, 3, 3, false)
	err := a.PaintBrush(tile, texpaint.BrushDab{Center: image.Pt(4, 5), Radius: 1, Strength: 1})
	if !errors.Is(err, texpaint.ErrUnavailable) {
		t.Errorf("PaintBrush() = %v, want ErrUnavailable", err)
	}
	if tile.Mask.Any() {
		t.Error("failed dispatch wrote the tile")
	}
	a.Close()
}

func TestAcceleratorIdentityAdjustmentNeedsNoDevice(t *testing.T) {
	a := &Accelerator{}
	src, _ := pixel.NewBuffer(2, 2)
	src.Fill(texpaint.RGBA{R: 0.3, G: 0.6, B: 0.9, A: 1})
	dst, _ := pixel.NewBuffer(2, 2)
	if err := a.ApplyColorAdjustment(dst, src, texpaint.IdentityAdjustment()); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Error("identity adjustment is not an exact copy")
	}
}

func TestAcceleratorSizeMismatch(t *testing.T) {
	a := &Accelerator{}
	b1, _ := pixel.NewBuffer(2, 2)
	b2, _ := pixel.NewBuffer(3, 2)
	m, _ := pixel.NewMask(2, 2)
	checks := map[string]error{
		"adjust":     a.ApplyColorAdjustment(b1, b2, texpaint.IdentityAdjustment()),
		"opacity":    a.ApplyPaintOpacity(b1, b2, b1, m, 1),
		"clear":      a.ClearWithMask(b2, b2, m),
		"nonpainted": a.ApplyColorAdjustmentToNonPaintedAreas(b1, b1, nil),
	}
	for name, err := range checks {
		if !errors.Is(err, texpaint.ErrFallbackToCPU) {
			t.Errorf("%s: err = %v, want ErrFallbackToCPU", name, err)
		}
	}
}

func TestAcceleratorSetDeviceProviderRejectsNonHAL(t *testing.T) {
	a := &Accelerator{}
	if err := a.SetDeviceProvider(struct{}{}); err == nil {
		t.Error("SetDeviceProvider accepted a provider without HAL types")
	}
}

func TestAcceleratorSetLogger(t *testing.T) {
	a := &Accelerator{}
	if a.log() != texpaint.Logger() {
		t.Error("default logger is not texpaint.Logger()")
	}
	l := slog.Default()
	a.SetLogger(l)
	if a.log() != l {
		t.Error("SetLogger did not replace the logger")
	}
	a.SetLogger(nil)
	if a.log() != texpaint.Logger() {
		t.Error("SetLogger(nil) did not restore texpaint.Logger()")
	}
}

// TestAcceleratorMatchesCPU runs every kernel on a real device when one is
// available.
func TestAcceleratorMatchesCPU(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping GPU test in short mode")
	}
	a := &Accelerator{}
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.Capabilities() == 0 {
		t.Skip("no GPU device available")
	}

	const w, h = 7, 5
	orig, _ := pixel.NewBuffer(w, h)
	for i := 0; i < orig.Len(); i++ {
		f := float32(i) / float32(orig.Len())
		orig.SetIndex(i, texpaint.RGBA{R: f, G: 1 - f, B: 0.5, A: 1})
	}
	adj := texpaint.IdentityAdjustment()
	adj.Hue, adj.Saturation, adj.Gamma = 0.2, 1.4, 0.7

	var cpu texpaint.CPUDispatch
	want, _ := pixel.NewBuffer(w, h)
	got, _ := pixel.NewBuffer(w, h)
	if err := cpu.ApplyColorAdjustment(want, orig, adj); err != nil {
		t.Fatal(err)
	}
	if err := a.ApplyColorAdjustment(got, orig, adj); err != nil {
		t.Fatalf("GPU ApplyColorAdjustment: %v", err)
	}
	assertNear(t, "adjust", got, want)

	gpuTile, cpuTile := newTile(t, w, h, true), newTile(t, w, h, true)
	gpuTile.Original.CopyFrom(orig)
	cpuTile.Original.CopyFrom(orig)
	d := texpaint.BrushDab{
		Center: image.Pt(6, 7), Radius: 2, Strength: 0.6,
		Color: texpaint.RGBA{R: 1, A: 1}, Raw: texpaint.RGBA{G: 1, A: 1},
	}
	if err := cpu.PaintBrush(cpuTile, d); err != nil {
		t.Fatal(err)
	}
	if err := a.PaintBrush(gpuTile, d); err != nil {
		t.Fatalf("GPU PaintBrush: %v", err)
	}
	assertNear(t, "brush working", gpuTile.Working, cpuTile.Working)
	if !gpuTile.Mask.Equal(cpuTile.Mask) {
		t.Error("brush masks differ")
	}
	if gpuTile.Visited.Count() != cpuTile.Visited.Count() {
		t.Errorf("visited = %d, want %d", gpuTile.Visited.Count(), cpuTile.Visited.Count())
	}

	got.CopyFrom(want)
	if err := cpu.ApplyPaintOpacity(want, orig, cpuTile.ColorLayer, cpuTile.Mask, 0.8); err != nil {
		t.Fatal(err)
	}
	if err := a.ApplyPaintOpacity(got, orig, gpuTile.ColorLayer, gpuTile.Mask, 0.8); err != nil {
		t.Fatalf("GPU ApplyPaintOpacity: %v", err)
	}
	assertNear(t, "opacity", got, want)
}

func assertNear(t *testing.T, name string, got, want *pixel.Buffer) {
	t.Helper()
	g, w := got.Pix(), want.Pix()
	for i := range w {
		if d := g[i] - w[i]; d > 1e-3 || d < -1e-3 {
			t.Fatalf("%s: component %d = %v, want %v", name, i, g[i], w[i])
		}
	}
}
