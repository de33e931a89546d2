// Package blend provides the pixel blend laws used when painting.
//
// StrengthBlend composites a paint color of alpha=strength over a
// destination color with straight-alpha source-over. It is the only law
// the paint, fill and composite passes use to combine paint with the
// original image.
package blend

import "github.com/gogpu/texpaint/internal/pixel"

// MinAlpha is the output alpha at or below which StrengthBlend returns
// transparent.
const MinAlpha = 0.001

// StrengthBlend composites src (with its alpha replaced by strength) over dst.
//
//	outA = s + dst.A*(1-s)
//	rgb  = (src*s + dst*dst.A*(1-s)) / outA
func StrengthBlend(src pixel.RGBA, strength float32, dst pixel.RGBA) pixel.RGBA {
	sa := strength
	inv := 1 - sa
	outA := sa + dst.A*inv
	if outA <= MinAlpha {
		return pixel.Transparent
	}
	da := dst.A * inv
	return pixel.RGBA{
		R: (src.R*sa + dst.R*da) / outA,
		G: (src.G*sa + dst.G*da) / outA,
		B: (src.B*sa + dst.B*da) / outA,
		A: outA,
	}
}

// Invert returns 1-c for each RGB channel, leaving alpha unchanged.
func Invert(c pixel.RGBA) pixel.RGBA {
	return pixel.RGBA{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B, A: c.A}
}
