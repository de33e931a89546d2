//go:build !nogpu

package gpu

import (
	"image"
	"testing"
	"unsafe"

	"github.com/gogpu/texpaint"
	"github.com/gogpu/texpaint/internal/pixel"
)

func TestKernelParamsLayout(t *testing.T) {
	var p kernelParams
	if got := unsafe.Sizeof(p); got != 96 {
		t.Fatalf("sizeof(kernelParams) = %d, want 96", got)
	}
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Hue", unsafe.Offsetof(p.Hue), 16},
		{"Color", unsafe.Offsetof(p.Color), 32},
		{"Raw", unsafe.Offsetof(p.Raw), 48},
		{"CenterX", unsafe.Offsetof(p.CenterX), 64},
		{"OriginY", unsafe.Offsetof(p.OriginY), 80},
		{"Opacity", unsafe.Offsetof(p.Opacity), 88},
	}
	for _, tt := range offsets {
		if tt.got != tt.want {
			t.Errorf("offset of %s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if len(p.bytes()) != 96 {
		t.Errorf("len(bytes()) = %d, want 96", len(p.bytes()))
	}
}

func TestPackFloatsRoundTrip(t *testing.T) {
	in := []float32{0, 1, -0.5, 0.001, 3.25}
	out := make([]float32, len(in))
	unpackFloats(packFloats(in), out)
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func newTile(t *testing.T, w, h int, visited bool) *texpaint.BrushTile {
	t.Helper()
	tile := &texpaint.BrushTile{Origin: image.Pt(3, 4)}
	tile.Working, _ = pixel.NewBuffer(w, h)
	tile.Original, _ = pixel.NewBuffer(w, h)
	tile.ColorLayer, _ = pixel.NewBuffer(w, h)
	tile.Mask, _ = pixel.NewMask(w, h)
	if visited {
		tile.Visited = pixel.NewBitset(w * h)
	}
	return tile
}

func TestBrushTileRecords(t *testing.T) {
	tile := newTile(t, 3, 2, true)
	tile.Working.Set(1, 1, texpaint.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 1})
	tile.ColorLayer.Set(2, 0, texpaint.RGBA{B: 1, A: 1})
	tile.Mask.Set(1, 1, 0.5)
	tile.Visited.Add(4)

	rec := packBrushTile(tile)
	if len(rec) != 6*brushStride {
		t.Fatalf("len = %d, want %d", len(rec), 6*brushStride)
	}
	if rec[4*brushStride+8] != 0.5 || rec[4*brushStride+9] != 1 {
		t.Errorf("record 4 mask/visited = %v/%v", rec[4*brushStride+8], rec[4*brushStride+9])
	}

	// Simulate an erase of pixel 4 and a paint of pixel 0.
	r4 := rec[4*brushStride:]
	for i := 0; i < 10; i++ {
		r4[i] = 0
	}
	rec[8] = 1
	rec[9] = 1
	unpackBrushTile(rec, tile)

	if tile.Mask.At(1, 1) != 0 || tile.Visited.Has(4) {
		t.Error("erase record not unpacked")
	}
	if tile.Mask.At(0, 0) != 1 || !tile.Visited.Has(0) {
		t.Error("paint record not unpacked")
	}
	if got := tile.ColorLayer.At(2, 0); got != (texpaint.RGBA{B: 1, A: 1}) {
		t.Errorf("untouched color = %v", got)
	}
}

func TestSelectionTileRecords(t *testing.T) {
	tile := &texpaint.BrushTile{}
	tile.Mask, _ = pixel.NewMask(2, 2)
	tile.Mask.Set(1, 0, 0.7)

	rec := packSelectionTile(tile)
	if rec[2] != 0.7 || rec[3] != 0 {
		t.Errorf("record 1 = %v/%v", rec[2], rec[3])
	}
	rec[6] = 1
	unpackSelectionTile(rec, tile)
	if tile.Mask.At(1, 1) != 1 || tile.Mask.At(1, 0) != 0.7 {
		t.Error("selection records not unpacked")
	}
}

func TestBrushParams(t *testing.T) {
	tests := []struct {
		name    string
		erase   bool
		visited bool
		flags   uint32
	}{
		{"paint", false, false, 0},
		{"erase", true, false, flagErase},
		{"stroke paint", false, true, flagDedup},
		{"stroke erase", true, true, flagErase | flagDedup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := newTile(t, 5, 4, tt.visited)
			d := texpaint.BrushDab{Center: image.Pt(5, 6), Radius: 2, Strength: 0.25, Erase: tt.erase}
			p := brushParams(tile, d)
			if p.Flags != tt.flags {
				t.Errorf("Flags = %b, want %b", p.Flags, tt.flags)
			}
			if p.Count != 20 || p.TileWidth != 5 || p.OriginX != 3 || p.OriginY != 4 || p.Radius != 2 {
				t.Errorf("params = %+v", p)
			}
		})
	}
}
