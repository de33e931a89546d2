package paint

import (
	"image"

	"github.com/gogpu/texpaint/internal/pixel"
)

// Stroke tracks the pixels painted between Begin and End so a pixel is
// painted at most once per stroke.
type Stroke struct {
	active  bool
	visited *pixel.Bitset
	size    image.Point
}

// Begin starts a stroke on a w×h canvas with an empty visited set.
func (s *Stroke) Begin(w, h int) {
	if s.visited == nil {
		s.visited = pixel.NewBitset(w * h)
	} else {
		s.visited.Reset(w * h)
	}
	s.size = image.Pt(w, h)
	s.active = true
}

// End finishes the stroke and clears the visited set.
func (s *Stroke) End() {
	if s.visited != nil {
		s.visited.Reset(s.visited.Len())
	}
	s.active = false
}

// Active reports whether a stroke is in progress.
func (s *Stroke) Active() bool { return s.active }

// Visited returns the canvas-indexed visited set, or nil outside a stroke.
func (s *Stroke) Visited() *pixel.Bitset {
	if !s.active {
		return nil
	}
	return s.visited
}

// Local extracts the visited flags of r into a box-local set.
// It returns nil outside a stroke.
func (s *Stroke) Local(r image.Rectangle) *pixel.Bitset {
	if !s.active {
		return nil
	}
	local := pixel.NewBitset(r.Dx() * r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if s.visited.Has(y*s.size.X + x) {
				local.Add((y-r.Min.Y)*r.Dx() + (x - r.Min.X))
			}
		}
	}
	return local
}

// Merge writes the box-local flags of r back into the stroke.
func (s *Stroke) Merge(r image.Rectangle, local *pixel.Bitset) {
	if !s.active || local == nil {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := y*s.size.X + x
			if local.Has((y-r.Min.Y)*r.Dx() + (x - r.Min.X)) {
				s.visited.Add(i)
			} else {
				s.visited.Remove(i)
			}
		}
	}
}
