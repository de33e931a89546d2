package texpaint

import (
	"fmt"
	"image"

	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/fill"
	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/pixel"
)

// FillSettings returns the current bucket fill settings.
func (e *Engine) FillSettings() FillState { return e.fill }

// SetFill replaces the bucket fill settings. Threshold is clamped to [0,1].
func (e *Engine) SetFill(f FillState) {
	f.Threshold = pixel.Clamp01(f.Threshold)
	e.fill = f
}

// BucketFill flood-fills from uv with the current brush color and strength
// using f, and makes f the current fill settings.
//
// In selection mode the fill floods uncovered selection pixels. Seeds
// outside the canvas and fills that change no pixel are no-ops and record
// nothing.
func (e *Engine) BucketFill(uv UV, f FillState) error {
	if err := e.ready(); err != nil {
		return err
	}
	if f.Mode > FillBoundaryRegion {
		return fmt.Errorf("%w: fill mode %d", ErrInvalidArgument, f.Mode)
	}
	if !uv.Finite() {
		return fmt.Errorf("%w: uv %v", ErrInvalidArgument, uv)
	}
	e.SetFill(f)

	w, h := e.original.Width(), e.original.Height()
	seed := paint.Center(uv, w, h)
	if seed.X < 0 || seed.X >= w || seed.Y < 0 || seed.Y >= h {
		return nil
	}

	if e.selectionMode {
		return e.selectionFill(seed)
	}

	adjusted := e.brush.Color
	if painted := e.adj[AdjustPainted]; !painted.IsIdentity() {
		adjusted = color.Transform(e.brush.Color, painted)
	}
	l := fill.Layers{
		Working:    e.working,
		Original:   e.original,
		ColorLayer: e.colorLayer,
		Mask:       e.mask,
		Pool:       e.pool,
	}
	p := fill.Params{
		Seed:      seed,
		Color:     adjusted,
		Raw:       e.brush.Color,
		Strength:  e.brush.Strength,
		Threshold: e.fill.Threshold,
		Symmetry:  e.symmetry,
	}

	var res *fill.Result
	var err error
	switch e.fill.Mode {
	case FillBoundaryRegion:
		res, err = fill.BoundaryRegionFill(l, p)
	default:
		res, err = fill.ColorSimilarityFill(l, p)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
	}
	defer res.Release()
	if res.Changed == 0 {
		Logger().Debug("fill changed nothing", "mode", e.fill.Mode.String(), "x", seed.X, "y", seed.Y)
		return nil
	}

	if err := e.record(e.fill.Mode.String() + " fill"); err != nil {
		return err
	}
	e.working.CopyFrom(res.Working)
	e.colorLayer.CopyFrom(res.ColorLayer)
	e.mask.CopyFrom(res.Mask)
	Logger().Debug("fill committed", "mode", e.fill.Mode.String(), "pixels", res.Changed)
	e.detachIfOffLaw(image.Rectangle{})
	e.present()
	return nil
}

func (e *Engine) selectionFill(seed image.Point) error {
	staged, changed, err := fill.SelectionFill(e.selection, seed, e.brush.Strength, e.symmetry, e.pool)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
	}
	if staged == nil {
		return nil
	}
	defer e.pool.PutMask(staged)
	if changed == 0 {
		return nil
	}
	if err := e.record("selection fill"); err != nil {
		return err
	}
	e.selection.CopyFrom(staged)
	e.present()
	return nil
}
