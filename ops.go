package texpaint

import (
	"fmt"

	"github.com/gogpu/texpaint/internal/composite"
	"github.com/gogpu/texpaint/internal/pixel"
)

// ClearPaintedAreas restores the original image under the paint mask and
// clears the mask and the paint color layer. It is a no-op when nothing is
// painted.
func (e *Engine) ClearPaintedAreas() error {
	if err := e.ready(); err != nil {
		return err
	}
	if !e.mask.Any() {
		return nil
	}
	if err := e.record("clear painted"); err != nil {
		return err
	}
	if err := e.clearWithMask(); err != nil {
		return err
	}
	e.mask.Clear()
	e.colorLayer.Clear()
	e.recompute()
	e.present()
	return nil
}

// InvertColors inverts the RGB of the working image in region. The working
// image stays detached from the compositing law until the next change that
// recomputes it.
func (e *Engine) InvertColors(region Region) error {
	if err := e.ready(); err != nil {
		return err
	}
	if region > RegionAll {
		return fmt.Errorf("%w: region %d", ErrInvalidArgument, region)
	}
	if countRegion(e, region) == 0 {
		return nil
	}
	if err := e.record("invert " + region.String()); err != nil {
		return err
	}
	n, err := composite.Invert(e.working, e.mask, region)
	if err != nil {
		return err
	}
	e.detached = true
	Logger().Debug("colors inverted", "region", region.String(), "pixels", n)
	e.present()
	return nil
}

func countRegion(e *Engine, region Region) int {
	if region == RegionAll {
		return e.working.Len()
	}
	n := 0
	for _, m := range e.mask.Alpha() {
		if (m > pixel.CoverageThreshold) == (region == RegionPainted) {
			n++
		}
	}
	return n
}
