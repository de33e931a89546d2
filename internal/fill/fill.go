// Package fill implements the bucket fills: color-similarity, boundary-region
// and selection fills.
//
// All fills are 4-connected, stack based and track visited pixels in a
// bitset. Membership is always evaluated against the live buffers while the
// result is written to staged copies, so the caller can drop the result
// when nothing changed or commit it in one step. Mirrored pixels are tested
// for membership like any other pixel.
package fill

import (
	"errors"
	"image"

	"github.com/gogpu/texpaint/internal/blend"
	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/pixel"
)

// ErrSeedOutside is returned when the seed lies outside the canvas.
var ErrSeedOutside = errors.New("fill: seed outside canvas")

// BoundaryThreshold is the per-channel tolerance used to keep a fill seeded
// on painted pixels within pixels of similar color.
const BoundaryThreshold = 0.98

// Mode selects the fill algorithm.
type Mode uint8

const (
	ColorSimilarity Mode = iota
	BoundaryRegion
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ColorSimilarity:
		return "color"
	case BoundaryRegion:
		return "boundary"
	default:
		return "unknown"
	}
}

// Layers are the live buffers a fill reads.
type Layers struct {
	Working    *pixel.Buffer
	Original   *pixel.Buffer
	ColorLayer *pixel.Buffer
	Mask       *pixel.Mask

	// Pool supplies staging buffers. A nil Pool allocates.
	Pool *pixel.Pool
}

// Params describes one fill.
type Params struct {
	Seed      image.Point
	Color     pixel.RGBA // blended into the working image
	Raw       pixel.RGBA // stored in the color layer
	Strength  float32
	Threshold float32 // color-similarity only
	Symmetry  paint.Symmetry
}

// Result holds the staged buffers of a fill. The caller owns them and
// must either commit or Release them.
type Result struct {
	Working    *pixel.Buffer
	ColorLayer *pixel.Buffer
	Mask       *pixel.Mask
	Changed    int
	pool       *pixel.Pool
}

// Release returns the staged buffers to the pool.
func (r *Result) Release() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.PutBuffer(r.Working)
	r.pool.PutBuffer(r.ColorLayer)
	r.pool.PutMask(r.Mask)
	r.Working, r.ColorLayer, r.Mask = nil, nil, nil
}

// Within reports whether every RGBA channel of a and b differs by less
// than threshold.
func Within(a, b pixel.RGBA, threshold float32) bool {
	return pixel.Abs(a.R-b.R) < threshold &&
		pixel.Abs(a.G-b.G) < threshold &&
		pixel.Abs(a.B-b.B) < threshold &&
		pixel.Abs(a.A-b.A) < threshold
}

// IsBoundary reports whether (x, y) is a covered pixel with an uncovered
// 4-neighbour or on the canvas edge. Positions outside the mask count as
// boundary.
func IsBoundary(m *pixel.Mask, x, y int) bool {
	if x < 0 || x >= m.Width() || y < 0 || y >= m.Height() {
		return true
	}
	if !m.Covered(x, y) {
		return false
	}
	for _, d := range dirs {
		nx, ny := x+d.X, y+d.Y
		if nx < 0 || nx >= m.Width() || ny < 0 || ny >= m.Height() {
			return true
		}
		if !m.Covered(nx, ny) {
			return true
		}
	}
	return false
}

// ColorSimilarityFill floods pixels whose working color is within
// p.Threshold of the seed's. It is a no-op when the seed already matches
// p.Color within the threshold.
func ColorSimilarityFill(l Layers, p Params) (*Result, error) {
	if err := l.check(p.Seed); err != nil {
		return nil, err
	}
	w := l.Working.Width()
	seedColor := l.Working.At(p.Seed.X, p.Seed.Y)
	if Within(seedColor, p.Color, p.Threshold) {
		return &Result{}, nil
	}
	member := func(i int) bool {
		return Within(l.Working.AtIndex(i), seedColor, p.Threshold)
	}
	return l.run(p, w, member)
}

// BoundaryRegionFill floods the region around the seed delimited by paint
// boundaries. A covered seed floods covered, non-boundary pixels of similar
// working color; an uncovered seed floods uncovered pixels. Seeding on a
// boundary pixel is a no-op.
func BoundaryRegionFill(l Layers, p Params) (*Result, error) {
	if err := l.check(p.Seed); err != nil {
		return nil, err
	}
	if IsBoundary(l.Mask, p.Seed.X, p.Seed.Y) {
		return &Result{}, nil
	}
	w := l.Working.Width()
	alpha := l.Mask.Alpha()
	var member func(i int) bool
	if l.Mask.Covered(p.Seed.X, p.Seed.Y) {
		seedColor := l.Working.At(p.Seed.X, p.Seed.Y)
		member = func(i int) bool {
			return alpha[i] > pixel.CoverageThreshold &&
				!IsBoundary(l.Mask, i%w, i/w) &&
				Within(l.Working.AtIndex(i), seedColor, BoundaryThreshold)
		}
	} else {
		member = func(i int) bool {
			return alpha[i] <= pixel.CoverageThreshold
		}
	}
	return l.run(p, w, member)
}

func (l Layers) check(seed image.Point) error {
	if l.Working == nil || l.Original == nil || l.ColorLayer == nil || l.Mask == nil {
		return pixel.ErrSizeMismatch
	}
	if !l.Working.SameSize(l.Original) || !l.Working.SameSize(l.ColorLayer) ||
		l.Mask.Width() != l.Working.Width() || l.Mask.Height() != l.Working.Height() {
		return pixel.ErrSizeMismatch
	}
	if !seed.In(l.Working.Bounds()) {
		return ErrSeedOutside
	}
	return nil
}

func (l Layers) stage() (*Result, error) {
	pool := l.Pool
	if pool == nil {
		pool = pixel.NewPool(0)
	}
	r := &Result{pool: pool}
	var err error
	if r.Working, err = pool.CloneBuffer(l.Working); err != nil {
		return nil, err
	}
	if r.ColorLayer, err = pool.CloneBuffer(l.ColorLayer); err != nil {
		r.Release()
		return nil, err
	}
	if r.Mask, err = pool.CloneMask(l.Mask); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (l Layers) run(p Params, w int, member func(i int) bool) (*Result, error) {
	r, err := l.stage()
	if err != nil {
		return nil, err
	}
	h := l.Working.Height()
	written := pixel.NewBitset(w * h)
	stagedAlpha := r.Mask.Alpha()

	write := func(i int) {
		if written.Has(i) {
			return
		}
		written.Add(i)
		c := blend.StrengthBlend(p.Color, p.Strength, l.Original.AtIndex(i))
		if c != r.Working.AtIndex(i) || stagedAlpha[i] != p.Strength || r.ColorLayer.AtIndex(i) != p.Raw {
			r.Changed++
		}
		r.Working.SetIndex(i, c)
		stagedAlpha[i] = p.Strength
		r.ColorLayer.SetIndex(i, p.Raw)
	}

	flood(w, h, p.Seed, member, func(i int) {
		write(i)
		if m, ok := p.Symmetry.Mirror(image.Pt(i%w, i/w), w); ok {
			if mi := m.Y*w + m.X; member(mi) {
				write(mi)
			}
		}
	})
	return r, nil
}
