package paint

import (
	"image"

	"github.com/gogpu/texpaint/internal/pixel"
)

// Symmetry mirrors dabs across a vertical axis.
type Symmetry struct {
	Enabled    bool
	AxisLocked bool
	Axis       float32 // axis position in [0,1] of the canvas width
}

// Active reports whether dabs are mirrored.
func (s Symmetry) Active() bool {
	return s.Enabled && s.AxisLocked
}

// Mirror returns the mirrored center of c on a canvas of width w. ok is
// false when symmetry is inactive, the mirror falls outside the canvas or
// coincides with c.
func (s Symmetry) Mirror(c image.Point, w int) (image.Point, bool) {
	if !s.Active() {
		return image.Point{}, false
	}
	axis := s.Axis * float32(w-1)
	mx := pixel.Round(2*axis - float32(c.X))
	if mx < 0 || mx >= w || mx == c.X {
		return image.Point{}, false
	}
	return image.Pt(mx, c.Y), true
}

// Centers returns c followed by its mirror when there is one.
func (s Symmetry) Centers(c image.Point, w int) []image.Point {
	if m, ok := s.Mirror(c, w); ok {
		return []image.Point{c, m}
	}
	return []image.Point{c}
}
