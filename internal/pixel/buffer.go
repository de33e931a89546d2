// Package pixel provides the float32 pixel storage shared by the paint,
// fill, composite and history packages.
//
// A Buffer stores straight (non-premultiplied) RGBA in [0,1], four float32
// values per pixel, row by row with no padding. A Mask stores a single
// alpha/coverage value per pixel. Both keep their backing slice when their
// contents are replaced, so references held by collaborators stay valid
// across undo and redo.
package pixel

import (
	"errors"
	"image"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")

	// ErrSizeMismatch is returned when two buffers must share dimensions but don't.
	ErrSizeMismatch = errors.New("pixel: buffer size mismatch")
)

// CoverageThreshold is the alpha above which a mask pixel counts as covered.
const CoverageThreshold = 0.001

// RGBA is a straight-alpha color with float32 components in [0,1].
type RGBA struct {
	R, G, B, A float32
}

// Transparent is the zero color.
var Transparent = RGBA{}

// Buffer is a rectangular RGBA float32 pixel buffer.
type Buffer struct {
	width  int
	height int
	pix    []float32 // 4 floats per pixel
}

// NewBuffer creates a zeroed buffer with the given dimensions.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}, nil
}

// Width returns the buffer width.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer dimensions as an image.Rectangle.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Pix returns the raw pixel data (R, G, B, A per pixel).
func (b *Buffer) Pix() []float32 { return b.pix }

// Len returns the number of pixels.
func (b *Buffer) Len() int { return b.width * b.height }

// At returns the color at (x, y), or Transparent outside the buffer.
func (b *Buffer) At(x, y int) RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Transparent
	}
	return b.AtIndex(y*b.width + x)
}

// AtIndex returns the color of the i-th pixel.
func (b *Buffer) AtIndex(i int) RGBA {
	p := b.pix[i*4 : i*4+4 : i*4+4]
	return RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set sets the color at (x, y). Coordinates outside the buffer are ignored.
func (b *Buffer) Set(x, y int, c RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.SetIndex(y*b.width+x, c)
}

// SetIndex sets the color of the i-th pixel.
func (b *Buffer) SetIndex(i int, c RGBA) {
	p := b.pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Clear sets every pixel to Transparent.
func (b *Buffer) Clear() {
	clear(b.pix)
}

// SameSize reports whether o has the same dimensions as b.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.width == o.width && b.height == o.height
}

// CopyFrom copies src into b. Both buffers must have the same dimensions;
// b keeps its backing slice.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if !b.SameSize(src) {
		return ErrSizeMismatch
	}
	copy(b.pix, src.pix)
	return nil
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]float32, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Resize changes the buffer dimensions in place and zeroes its contents.
// The *Buffer itself stays the same object.
func (b *Buffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	n := width * height * 4
	if cap(b.pix) >= n {
		b.pix = b.pix[:n]
		clear(b.pix)
	} else {
		b.pix = make([]float32, n)
	}
	b.width, b.height = width, height
	return nil
}

// SubBuffer returns a copy of the pixels inside r (clipped to the buffer).
func (b *Buffer) SubBuffer(r image.Rectangle) (*Buffer, error) {
	r = r.Intersect(b.Bounds())
	sub, err := NewBuffer(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := b.pix[(y*b.width+r.Min.X)*4 : (y*b.width+r.Max.X)*4]
		copy(sub.pix[(y-r.Min.Y)*sub.width*4:], src)
	}
	return sub, nil
}

// Blit copies src into b with its top-left corner at at.
// Pixels falling outside b are dropped.
func (b *Buffer) Blit(src *Buffer, at image.Point) {
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(src.width, src.height))}.Intersect(b.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := y - at.Y
		sx := r.Min.X - at.X
		row := src.pix[(sy*src.width+sx)*4 : (sy*src.width+sx+r.Dx())*4]
		copy(b.pix[(y*b.width+r.Min.X)*4:], row)
	}
}

// Equal reports whether both buffers have identical size and contents.
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameSize(o) {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}
