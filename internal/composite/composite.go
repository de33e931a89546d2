// Package composite implements the compositing law that derives the working
// image from the original image, the paint mask and the paint color layer,
// together with the full-buffer kernels used on the CPU path.
//
// Per pixel:
//
//	mask <= 0.001: working = Transform(original, global)
//	otherwise:     working = StrengthBlend(paint, mask*opacity, original)
//
// where paint is Transform(colorLayer, painted) when the color layer's alpha
// is above 0.001 and original otherwise.
package composite

import (
	"image"

	"github.com/gogpu/texpaint/internal/blend"
	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/parallel"
	"github.com/gogpu/texpaint/internal/pixel"
)

// SelectionTint is drawn over selected pixels when the selection
// adjustment is identity.
var SelectionTint = pixel.RGBA{R: 0.4, G: 0.4, B: 1, A: 0.6}

// Layers groups the buffers the compositing law reads and writes.
type Layers struct {
	Working    *pixel.Buffer
	Original   *pixel.Buffer
	ColorLayer *pixel.Buffer
	Mask       *pixel.Mask
}

func (l Layers) validate() error {
	if l.Working == nil || l.Original == nil || l.ColorLayer == nil || l.Mask == nil {
		return pixel.ErrSizeMismatch
	}
	if !l.Working.SameSize(l.Original) || !l.Working.SameSize(l.ColorLayer) ||
		l.Mask.Width() != l.Working.Width() || l.Mask.Height() != l.Working.Height() {
		return pixel.ErrSizeMismatch
	}
	return nil
}

// Params are the scalar inputs to the compositing law.
type Params struct {
	Opacity float32
	Global  color.Adjustment
	Painted color.Adjustment

	// Workers runs large regions in bands. Nil runs on the caller.
	Workers *parallel.WorkerPool
}

// Pixel evaluates the compositing law for one pixel.
func Pixel(original, colorLayer pixel.RGBA, mask float32, p Params) pixel.RGBA {
	if mask <= pixel.CoverageThreshold {
		return color.Transform(original, p.Global)
	}
	paint := original
	if colorLayer.A > pixel.CoverageThreshold {
		paint = color.Transform(colorLayer, p.Painted)
	}
	return blend.StrengthBlend(paint, mask*p.Opacity, original)
}

// Recompute rewrites Working inside region from the other layers.
// An empty region means the whole buffer.
func Recompute(l Layers, p Params, region image.Rectangle) error {
	if err := l.validate(); err != nil {
		return err
	}
	bounds := l.Working.Bounds()
	if region.Empty() {
		region = bounds
	}
	region = region.Intersect(bounds)

	w := bounds.Dx()
	alpha := l.Mask.Alpha()
	parallel.Rows(p.Workers, region, func(band image.Rectangle) {
		for y := band.Min.Y; y < band.Max.Y; y++ {
			for x := band.Min.X; x < band.Max.X; x++ {
				i := y*w + x
				l.Working.SetIndex(i, Pixel(l.Original.AtIndex(i), l.ColorLayer.AtIndex(i), alpha[i], p))
			}
		}
	})
	return nil
}

// Deviates reports whether any Working pixel inside region differs from the
// compositing law by more than eps in some component. An empty region means
// the whole buffer.
func Deviates(l Layers, p Params, region image.Rectangle, eps float32) (bool, error) {
	if err := l.validate(); err != nil {
		return false, err
	}
	bounds := l.Working.Bounds()
	if region.Empty() {
		region = bounds
	}
	region = region.Intersect(bounds)

	w := bounds.Dx()
	alpha := l.Mask.Alpha()
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			i := y*w + x
			want := Pixel(l.Original.AtIndex(i), l.ColorLayer.AtIndex(i), alpha[i], p)
			got := l.Working.AtIndex(i)
			if pixel.Abs(got.R-want.R) > eps || pixel.Abs(got.G-want.G) > eps ||
				pixel.Abs(got.B-want.B) > eps || pixel.Abs(got.A-want.A) > eps {
				return true, nil
			}
		}
	}
	return false, nil
}
