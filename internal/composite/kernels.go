package composite

import (
	"github.com/gogpu/texpaint/internal/blend"
	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/pixel"
)

// The functions below are the CPU forms of the named compute kernels. Run
// in the order ApplyColorAdjustment (global on original, painted on the
// color layer), ApplyPaintOpacity, ApplyToNonPainted they produce the same
// result as Recompute.

// ApplyColorAdjustment writes Transform(src, adj) into dst.
func ApplyColorAdjustment(dst, src *pixel.Buffer, adj color.Adjustment) error {
	return color.TransformBuffer(dst, src, adj)
}

// ApplyPaintOpacity writes the painted branch of the compositing law into
// every covered pixel of dst. adjustedLayer is the color layer after the
// painted-area adjustment; its alpha is the raw layer alpha.
func ApplyPaintOpacity(dst, original, adjustedLayer *pixel.Buffer, mask *pixel.Mask, opacity float32) error {
	if !dst.SameSize(original) || !dst.SameSize(adjustedLayer) || !maskFits(mask, dst) {
		return pixel.ErrSizeMismatch
	}
	alpha := mask.Alpha()
	for i, m := range alpha {
		if m <= pixel.CoverageThreshold {
			continue
		}
		orig := original.AtIndex(i)
		paint := orig
		if c := adjustedLayer.AtIndex(i); c.A > pixel.CoverageThreshold {
			paint = c
		}
		dst.SetIndex(i, blend.StrengthBlend(paint, m*opacity, orig))
	}
	return nil
}

// ApplyToNonPainted copies adjusted into every uncovered pixel of dst.
func ApplyToNonPainted(dst, adjusted *pixel.Buffer, mask *pixel.Mask) error {
	if !dst.SameSize(adjusted) || !maskFits(mask, dst) {
		return pixel.ErrSizeMismatch
	}
	for i, m := range mask.Alpha() {
		if m <= pixel.CoverageThreshold {
			dst.SetIndex(i, adjusted.AtIndex(i))
		}
	}
	return nil
}

// ClearWithMask restores original into every covered pixel of dst.
func ClearWithMask(dst, original *pixel.Buffer, mask *pixel.Mask) error {
	if !dst.SameSize(original) || !maskFits(mask, dst) {
		return pixel.ErrSizeMismatch
	}
	for i, m := range mask.Alpha() {
		if m > pixel.CoverageThreshold {
			dst.SetIndex(i, original.AtIndex(i))
		}
	}
	return nil
}

// Region selects the pixels InvertColors touches.
type Region uint8

const (
	Painted Region = iota
	Unpainted
	All
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case Painted:
		return "painted"
	case Unpainted:
		return "unpainted"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// Invert inverts the RGB of the pixels of dst selected by region and
// reports how many changed.
func Invert(dst *pixel.Buffer, mask *pixel.Mask, region Region) (int, error) {
	if !maskFits(mask, dst) {
		return 0, pixel.ErrSizeMismatch
	}
	n := 0
	for i, m := range mask.Alpha() {
		covered := m > pixel.CoverageThreshold
		switch {
		case region == All,
			region == Painted && covered,
			region == Unpainted && !covered:
			dst.SetIndex(i, blend.Invert(dst.AtIndex(i)))
			n++
		}
	}
	return n, nil
}

// SelectionPreview writes working into dst and, for every pixel covered by
// selection, either the selection adjustment or the selection tint.
func SelectionPreview(dst, working *pixel.Buffer, selection *pixel.Mask, adj color.Adjustment) error {
	if !dst.SameSize(working) || !maskFits(selection, dst) {
		return pixel.ErrSizeMismatch
	}
	tint := adj.IsIdentity()
	for i, m := range selection.Alpha() {
		c := working.AtIndex(i)
		if m > pixel.CoverageThreshold {
			if tint {
				c = blend.StrengthBlend(SelectionTint, m*SelectionTint.A, c)
			} else {
				c = color.Transform(c, adj)
			}
		}
		dst.SetIndex(i, c)
	}
	return nil
}

func maskFits(m *pixel.Mask, b *pixel.Buffer) bool {
	return m != nil && b != nil && m.Width() == b.Width() && m.Height() == b.Height()
}
