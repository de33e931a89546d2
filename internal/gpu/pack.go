//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/gogpu/texpaint"
)

// kernelParams mirrors the Params uniform in common.wgsl (96 bytes).
type kernelParams struct {
	Count      uint32
	TileWidth  uint32
	Mode       uint32
	Flags      uint32
	Hue        float32
	Saturation float32
	Brightness float32
	Gamma      float32
	Color      [4]float32
	Raw        [4]float32
	CenterX    int32
	CenterY    int32
	Radius     int32
	OriginX    int32
	OriginY    int32
	Strength   float32
	Opacity    float32
	_          uint32
}

// Brush flags.
const (
	flagErase uint32 = 1 << iota
	flagDedup
)

// Composite modes.
const (
	modePaintOpacity uint32 = iota
	modeNonPainted
	modeClearWithMask
)

// Per-pixel float counts of the brush tile records.
const (
	brushStride     = 12
	selectionStride = 2
)

func (p *kernelParams) bytes() []byte {
	return structToBytes(unsafe.Pointer(p), unsafe.Sizeof(*p)) //nolint:gosec // safe struct access
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}

func rgba4(c texpaint.RGBA) [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func adjustParams(n int, adj texpaint.ColorAdjustment) kernelParams {
	return kernelParams{
		Count:      uint32(n), //nolint:gosec // pixel counts fit uint32
		Hue:        adj.Hue,
		Saturation: adj.Saturation,
		Brightness: adj.Brightness,
		Gamma:      adj.Gamma,
	}
}

func brushParams(t *texpaint.BrushTile, d texpaint.BrushDab) kernelParams {
	w, h := t.Mask.Width(), t.Mask.Height()
	p := kernelParams{
		Count:     uint32(w * h), //nolint:gosec // tile sizes fit uint32
		TileWidth: uint32(w),     //nolint:gosec // tile sizes fit uint32
		Color:     rgba4(d.Color),
		Raw:       rgba4(d.Raw),
		CenterX:   int32(d.Center.X), //nolint:gosec // canvas coordinates fit int32
		CenterY:   int32(d.Center.Y), //nolint:gosec // canvas coordinates fit int32
		Radius:    int32(d.Radius),   //nolint:gosec // radius fits int32
		OriginX:   int32(t.Origin.X), //nolint:gosec // canvas coordinates fit int32
		OriginY:   int32(t.Origin.Y), //nolint:gosec // canvas coordinates fit int32
		Strength:  d.Strength,
	}
	if d.Erase {
		p.Flags |= flagErase
	}
	if t.Visited != nil {
		p.Flags |= flagDedup
	}
	return p
}

// packFloats serializes f as little-endian float32 values.
func packFloats(f []float32) []byte {
	out := make([]byte, len(f)*4)
	for i, v := range f {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// unpackFloats deserializes little-endian float32 values into dst.
func unpackFloats(b []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
}

// packBrushTile lays out the paint tile as brushStride floats per pixel.
func packBrushTile(t *texpaint.BrushTile) []float32 {
	n := t.Mask.Width() * t.Mask.Height()
	out := make([]float32, n*brushStride)
	work, layer, alpha := t.Working.Pix(), t.ColorLayer.Pix(), t.Mask.Alpha()
	for i := 0; i < n; i++ {
		r := out[i*brushStride : (i+1)*brushStride]
		copy(r[0:4], work[i*4:i*4+4])
		copy(r[4:8], layer[i*4:i*4+4])
		r[8] = alpha[i]
		if t.Visited != nil && t.Visited.Has(i) {
			r[9] = 1
		}
	}
	return out
}

// unpackBrushTile writes brush records back into t.
func unpackBrushTile(rec []float32, t *texpaint.BrushTile) {
	n := t.Mask.Width() * t.Mask.Height()
	work, layer, alpha := t.Working.Pix(), t.ColorLayer.Pix(), t.Mask.Alpha()
	for i := 0; i < n; i++ {
		r := rec[i*brushStride : (i+1)*brushStride]
		copy(work[i*4:i*4+4], r[0:4])
		copy(layer[i*4:i*4+4], r[4:8])
		alpha[i] = r[8]
		setVisited(t, i, r[9])
	}
}

func packSelectionTile(t *texpaint.BrushTile) []float32 {
	alpha := t.Mask.Alpha()
	out := make([]float32, len(alpha)*selectionStride)
	for i, a := range alpha {
		out[i*selectionStride] = a
		if t.Visited != nil && t.Visited.Has(i) {
			out[i*selectionStride+1] = 1
		}
	}
	return out
}

func unpackSelectionTile(rec []float32, t *texpaint.BrushTile) {
	alpha := t.Mask.Alpha()
	for i := range alpha {
		alpha[i] = rec[i*selectionStride]
		setVisited(t, i, rec[i*selectionStride+1])
	}
}

func setVisited(t *texpaint.BrushTile, i int, v float32) {
	if t.Visited == nil {
		return
	}
	if v != 0 {
		t.Visited.Add(i)
	} else {
		t.Visited.Remove(i)
	}
}
