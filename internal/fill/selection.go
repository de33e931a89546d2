package fill

import (
	"image"

	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/pixel"
)

// SelectionFill floods the uncovered pixels of sel around seed with
// strength and returns the staged mask and the number of changed pixels.
// A covered seed is a no-op. pool may be nil.
func SelectionFill(sel *pixel.Mask, seed image.Point, strength float32, sym paint.Symmetry, pool *pixel.Pool) (*pixel.Mask, int, error) {
	if !seed.In(sel.Bounds()) {
		return nil, 0, ErrSeedOutside
	}
	if sel.Covered(seed.X, seed.Y) {
		return nil, 0, nil
	}
	if pool == nil {
		pool = pixel.NewPool(0)
	}
	staged, err := pool.CloneMask(sel)
	if err != nil {
		return nil, 0, err
	}
	w, h := sel.Width(), sel.Height()
	live := sel.Alpha()
	out := staged.Alpha()
	member := func(i int) bool { return live[i] <= pixel.CoverageThreshold }

	changed := 0
	write := func(i int) {
		if out[i] != strength {
			out[i] = strength
			changed++
		}
	}
	flood(w, h, seed, member, func(i int) {
		write(i)
		if m, ok := sym.Mirror(image.Pt(i%w, i/w), w); ok {
			if mi := m.Y*w + m.X; member(mi) {
				write(mi)
			}
		}
	})
	return staged, changed, nil
}
