// Package color implements the color-correction transform applied to the
// global, painted-area and selection-preview regions.
//
// The transform runs in a fixed order: gamma, then hue and saturation in
// HSV space, then brightness. All components are float32 in [0,1].
package color

import (
	"math"

	"github.com/gogpu/texpaint/internal/pixel"
)

// Parameter ranges.
const (
	HueMin        = -0.5
	HueMax        = 0.5
	SaturationMin = 0
	SaturationMax = 2
	BrightnessMin = 0
	BrightnessMax = 2
	GammaMin      = 0.01
	GammaMax      = 2
)

// identityEpsilon mirrors the tolerance used to decide whether an
// adjustment is visibly active.
const identityEpsilon = 1e-6

// Channel names one adjustment parameter.
type Channel uint8

const (
	Hue Channel = iota
	Saturation
	Brightness
	Gamma
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case Hue:
		return "hue"
	case Saturation:
		return "saturation"
	case Brightness:
		return "brightness"
	case Gamma:
		return "gamma"
	default:
		return "unknown"
	}
}

// ParseChannel returns the channel for name.
func ParseChannel(name string) (Channel, bool) {
	for c := Hue; c <= Gamma; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Adjustment holds one set of color-correction parameters.
type Adjustment struct {
	Hue        float32 // [-0.5, 0.5]
	Saturation float32 // [0, 2]
	Brightness float32 // [0, 2]
	Gamma      float32 // [0.01, 2]
}

// Identity returns the adjustment that leaves colors unchanged.
func Identity() Adjustment {
	return Adjustment{Saturation: 1, Brightness: 1, Gamma: 1}
}

// IsIdentity reports whether a leaves colors unchanged.
func (a Adjustment) IsIdentity() bool {
	return near(a.Hue, 0) && near(a.Saturation, 1) && near(a.Brightness, 1) && near(a.Gamma, 1)
}

// Get returns the value of channel c.
func (a Adjustment) Get(c Channel) float32 {
	switch c {
	case Hue:
		return a.Hue
	case Saturation:
		return a.Saturation
	case Brightness:
		return a.Brightness
	case Gamma:
		return a.Gamma
	}
	return 0
}

// With returns a copy of a with channel c set to v, clamped to the
// channel's range.
func (a Adjustment) With(c Channel, v float32) Adjustment {
	switch c {
	case Hue:
		a.Hue = pixel.Clamp[float32](v, HueMin, HueMax)
	case Saturation:
		a.Saturation = pixel.Clamp[float32](v, SaturationMin, SaturationMax)
	case Brightness:
		a.Brightness = pixel.Clamp[float32](v, BrightnessMin, BrightnessMax)
	case Gamma:
		a.Gamma = pixel.Clamp[float32](v, GammaMin, GammaMax)
	}
	return a
}

// Clamped returns a with every channel clamped to its range.
func (a Adjustment) Clamped() Adjustment {
	for c := Hue; c <= Gamma; c++ {
		a = a.With(c, a.Get(c))
	}
	return a
}

func near(a, b float32) bool {
	return pixel.Abs(a-b) < identityEpsilon
}

// Transform applies adj to c. Alpha is unchanged.
// An identity adjustment returns c exactly.
func Transform(c pixel.RGBA, adj Adjustment) pixel.RGBA {
	if adj.IsIdentity() {
		return c
	}

	gamma := float64(pixel.Clamp[float32](adj.Gamma, GammaMin, GammaMax))
	r := float32(math.Pow(float64(pixel.Clamp01(c.R)), gamma))
	g := float32(math.Pow(float64(pixel.Clamp01(c.G)), gamma))
	b := float32(math.Pow(float64(pixel.Clamp01(c.B)), gamma))

	h, s, v := RGBToHSV(r, g, b)
	h = wrap01(h + adj.Hue)
	s = pixel.Clamp01(s * adj.Saturation)
	r, g, b = HSVToRGB(h, s, v)

	return pixel.RGBA{
		R: pixel.Clamp01(r * adj.Brightness),
		G: pixel.Clamp01(g * adj.Brightness),
		B: pixel.Clamp01(b * adj.Brightness),
		A: c.A,
	}
}

// TransformBuffer writes Transform(src[i], adj) into dst for every pixel.
// dst and src may be the same buffer.
func TransformBuffer(dst, src *pixel.Buffer, adj Adjustment) error {
	if !dst.SameSize(src) {
		return pixel.ErrSizeMismatch
	}
	if adj.IsIdentity() {
		if dst != src {
			copy(dst.Pix(), src.Pix())
		}
		return nil
	}
	for i := 0; i < src.Len(); i++ {
		dst.SetIndex(i, Transform(src.AtIndex(i), adj))
	}
	return nil
}

// wrap01 maps h into [0,1).
func wrap01(h float32) float32 {
	h = float32(math.Mod(float64(h), 1))
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}
