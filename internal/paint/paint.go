// Package paint applies circular brush dabs to the paint layers.
//
// A dab touches every pixel whose Euclidean distance from the center is at
// most the radius. Painting writes the blended color into the working image,
// the strength into the paint mask and the raw brush color into the color
// layer. Erasing restores the original pixel and clears mask and color.
//
// Dabs operate on a Tile: box-local copies of the layers around the dab, so
// the same code serves both the in-place CPU path and the staged path whose
// result is only committed once the whole dab succeeded.
package paint

import (
	"image"
	"math"

	"github.com/gogpu/texpaint/internal/blend"
	"github.com/gogpu/texpaint/internal/pixel"
)

// UV is a normalized texture coordinate.
type UV struct {
	U, V float32
}

// Finite reports whether both coordinates are neither NaN nor infinite.
func (uv UV) Finite() bool {
	for _, v := range [2]float32{uv.U, uv.V} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// coordLimit bounds pixel coordinates so that far off-canvas positions
// stay representable after rounding and radius arithmetic.
const coordLimit = 1 << 24

// Center converts uv to pixel coordinates on a w×h canvas. Coordinates far
// outside the canvas are clamped to ±coordLimit; uv must be finite.
func Center(uv UV, w, h int) image.Point {
	return image.Pt(
		pixel.Round(pixel.Clamp(uv.U*float32(w-1), -coordLimit, coordLimit)),
		pixel.Round(pixel.Clamp(uv.V*float32(h-1), -coordLimit, coordLimit)),
	)
}

// Box returns the bounding box of a dab clipped to a w×h canvas.
func Box(center image.Point, radius, w, h int) image.Rectangle {
	radius = min(radius, coordLimit)
	r := image.Rect(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1)
	return r.Intersect(image.Rect(0, 0, w, h))
}

// Params describes one dab.
type Params struct {
	Center   image.Point // canvas coordinates
	Radius   int
	Color    pixel.RGBA // blended into the working image
	Raw      pixel.RGBA // stored in the color layer
	Strength float32
	Erase    bool
}

// Inside reports whether canvas pixel (x, y) lies within the dab.
func (p Params) Inside(x, y int) bool {
	dx := float32(x - p.Center.X)
	dy := float32(y - p.Center.Y)
	r := float32(p.Radius)
	return dx*dx+dy*dy <= r*r
}

func (p Params) rect() image.Rectangle {
	c, r := p.Center, p.Radius
	return image.Rect(c.X-r, c.Y-r, c.X+r+1, c.Y+r+1)
}

// Tile is a rectangular window onto the paint layers. Buffers are indexed
// locally; Origin is the canvas position of the tile's top-left pixel.
type Tile struct {
	Origin     image.Point
	Working    *pixel.Buffer
	Original   *pixel.Buffer
	ColorLayer *pixel.Buffer
	Mask       *pixel.Mask

	// Visited holds the pixels already painted in the current stroke,
	// indexed locally. Nil outside a stroke.
	Visited *pixel.Bitset
}

// Bounds returns the canvas rectangle covered by the tile.
func (t *Tile) Bounds() image.Rectangle {
	return image.Rectangle{
		Min: t.Origin,
		Max: t.Origin.Add(image.Pt(t.Mask.Width(), t.Mask.Height())),
	}
}

// Dab applies p to the tile and returns the number of pixels written.
func Dab(t *Tile, p Params) int {
	r := p.rect().Intersect(t.Bounds())
	w := t.Mask.Width()
	alpha := t.Mask.Alpha()
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !p.Inside(x, y) {
				continue
			}
			i := (y-t.Origin.Y)*w + (x - t.Origin.X)
			if p.Erase {
				t.Working.SetIndex(i, t.Original.AtIndex(i))
				alpha[i] = 0
				t.ColorLayer.SetIndex(i, pixel.Transparent)
				if t.Visited != nil {
					t.Visited.Remove(i)
				}
				n++
				continue
			}
			if t.Visited != nil {
				if t.Visited.Has(i) {
					continue
				}
				t.Visited.Add(i)
			}
			t.Working.SetIndex(i, blend.StrengthBlend(p.Color, p.Strength, t.Original.AtIndex(i)))
			alpha[i] = p.Strength
			t.ColorLayer.SetIndex(i, p.Raw)
			n++
		}
	}
	return n
}

// SelectionDab applies p to a tile whose Mask is the selection mask. Only
// Mask and Visited are used: painting writes the strength, erasing clears.
func SelectionDab(t *Tile, p Params) int {
	r := p.rect().Intersect(t.Bounds())
	w := t.Mask.Width()
	alpha := t.Mask.Alpha()
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !p.Inside(x, y) {
				continue
			}
			i := (y-t.Origin.Y)*w + (x - t.Origin.X)
			if p.Erase {
				alpha[i] = 0
				if t.Visited != nil {
					t.Visited.Remove(i)
				}
				n++
				continue
			}
			if t.Visited != nil {
				if t.Visited.Has(i) {
					continue
				}
				t.Visited.Add(i)
			}
			alpha[i] = p.Strength
			n++
		}
	}
	return n
}
