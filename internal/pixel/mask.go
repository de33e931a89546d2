package pixel

import "image"

// Mask is an alpha-only buffer. Values range from 0 (uncovered) to 1.
type Mask struct {
	width  int
	height int
	alpha  []float32
}

// NewMask creates an empty mask with the given dimensions.
func NewMask(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Mask{
		width:  width,
		height: height,
		alpha:  make([]float32, width*height),
	}, nil
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Alpha returns the raw coverage values, one per pixel.
func (m *Mask) Alpha() []float32 { return m.alpha }

// At returns the mask value at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.alpha[y*m.width+x]
}

// Set sets the mask value at (x, y). Coordinates outside the mask are ignored.
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.alpha[y*m.width+x] = v
}

// Covered reports whether (x, y) is inside the mask with alpha above
// CoverageThreshold.
func (m *Mask) Covered(x, y int) bool {
	return m.At(x, y) > CoverageThreshold
}

// Any reports whether at least one pixel is covered.
func (m *Mask) Any() bool {
	for _, a := range m.alpha {
		if a > CoverageThreshold {
			return true
		}
	}
	return false
}

// Clear resets every value to 0.
func (m *Mask) Clear() {
	clear(m.alpha)
}

// SameSize reports whether o has the same dimensions as m.
func (m *Mask) SameSize(o *Mask) bool {
	return o != nil && m.width == o.width && m.height == o.height
}

// CopyFrom copies src into m, keeping m's backing slice.
func (m *Mask) CopyFrom(src *Mask) error {
	if !m.SameSize(src) {
		return ErrSizeMismatch
	}
	copy(m.alpha, src.alpha)
	return nil
}

// Clone creates a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	alpha := make([]float32, len(m.alpha))
	copy(alpha, m.alpha)
	return &Mask{width: m.width, height: m.height, alpha: alpha}
}

// Resize changes the mask dimensions in place and clears it.
func (m *Mask) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	n := width * height
	if cap(m.alpha) >= n {
		m.alpha = m.alpha[:n]
		clear(m.alpha)
	} else {
		m.alpha = make([]float32, n)
	}
	m.width, m.height = width, height
	return nil
}

// SubMask returns a copy of the values inside r (clipped to the mask).
func (m *Mask) SubMask(r image.Rectangle) (*Mask, error) {
	r = r.Intersect(m.Bounds())
	sub, err := NewMask(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(sub.alpha[(y-r.Min.Y)*sub.width:], m.alpha[y*m.width+r.Min.X:y*m.width+r.Max.X])
	}
	return sub, nil
}

// Blit copies src into m with its top-left corner at at.
func (m *Mask) Blit(src *Mask, at image.Point) {
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(src.width, src.height))}.Intersect(m.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := y - at.Y
		sx := r.Min.X - at.X
		copy(m.alpha[y*m.width+r.Min.X:], src.alpha[sy*src.width+sx:sy*src.width+sx+r.Dx()])
	}
}

// Equal reports whether both masks have identical size and contents.
func (m *Mask) Equal(o *Mask) bool {
	if !m.SameSize(o) {
		return false
	}
	for i := range m.alpha {
		if m.alpha[i] != o.alpha[i] {
			return false
		}
	}
	return true
}
