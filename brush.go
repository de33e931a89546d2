package texpaint

import (
	"fmt"
	"image"

	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/pixel"
)

// StrokeBegin starts a brush stroke. Inside a stroke every pixel is painted
// at most once and the whole stroke is undone as one step.
func (e *Engine) StrokeBegin() error {
	if err := e.ready(); err != nil {
		return err
	}
	w, h := e.original.Width(), e.original.Height()
	e.stroke.Begin(w, h)
	e.strokeRecorded = false
	return nil
}

// StrokeEnd finishes the current stroke.
func (e *Engine) StrokeEnd() error {
	if e.closed {
		return ErrClosed
	}
	e.stroke.End()
	e.strokeRecorded = false
	return nil
}

// CancelInput ends any stroke or adjustment drag in progress, for example
// when the host loses focus.
func (e *Engine) CancelInput() {
	e.endInput()
}

// Brush returns the current brush.
func (e *Engine) Brush() BrushState { return e.brush }

// SetBrush replaces the current brush. Radius is clamped to be
// non-negative and strength to [0,1].
func (e *Engine) SetBrush(b BrushState) {
	e.brush = normalizeBrush(b)
}

func normalizeBrush(b BrushState) BrushState {
	b.Radius = max(b.Radius, 0)
	b.Strength = pixel.Clamp01(b.Strength)
	return b
}

// ApplyBrush applies one dab of b at uv and makes b the current brush.
//
// In paint mode the dab paints or erases the paint layers; in selection
// mode it paints or erases the selection mask. With symmetry active the
// dab is repeated at the mirrored center. Outside a stroke every dab is
// its own undo step; inside a stroke only the first dab records one.
func (e *Engine) ApplyBrush(uv UV, b BrushState) error {
	if err := e.ready(); err != nil {
		return err
	}
	if b.Radius < 0 {
		return fmt.Errorf("%w: brush radius %d", ErrInvalidArgument, b.Radius)
	}
	if !uv.Finite() {
		return fmt.Errorf("%w: uv %v", ErrInvalidArgument, uv)
	}
	b = normalizeBrush(b)
	e.brush = b

	w, h := e.original.Width(), e.original.Height()
	center := paint.Center(uv, w, h)
	centers := e.symmetry.Centers(center, w)

	var touched image.Rectangle
	for _, c := range centers {
		touched = touched.Union(paint.Box(c, b.Radius, w, h))
	}
	if touched.Empty() {
		return nil
	}

	if !e.stroke.Active() || !e.strokeRecorded {
		if err := e.record(brushLabel(b, e.selectionMode)); err != nil {
			return err
		}
		e.strokeRecorded = e.stroke.Active()
	}

	adjusted := b.Color
	if painted := e.adj[AdjustPainted]; !painted.IsIdentity() {
		adjusted = color.Transform(b.Color, painted)
	}

	kernel, run := KernelPaintBrush, runPaintBrush
	if e.selectionMode {
		kernel, run = KernelSelectionPaint, runSelectionPaint
		if b.Erase {
			kernel, run = KernelSelectionErase, runSelectionErase
		}
	}
	for _, c := range centers {
		d := paint.Params{
			Center:   c,
			Radius:   b.Radius,
			Color:    adjusted,
			Raw:      b.Color,
			Strength: b.Strength,
			Erase:    b.Erase,
		}
		if err := e.brushKernel(kernel, d, run); err != nil {
			return err
		}
	}
	if !e.selectionMode {
		e.detachIfOffLaw(touched)
	}
	e.present()
	return nil
}

func brushLabel(b BrushState, selection bool) string {
	switch {
	case selection && b.Erase:
		return "selection erase"
	case selection:
		return "selection paint"
	case b.Erase:
		return "erase"
	default:
		return "paint"
	}
}

// Symmetry returns the symmetry settings.
func (e *Engine) Symmetry() Symmetry { return e.symmetry }

// SetSymmetry replaces the symmetry settings. A change of the axis
// position is recorded for undo.
func (e *Engine) SetSymmetry(s Symmetry) error {
	if e.closed {
		return ErrClosed
	}
	s.Axis = pixel.Clamp01(s.Axis)
	if s == e.symmetry {
		return nil
	}
	if s.Axis != e.symmetry.Axis && e.bound {
		if err := e.recordAdjustment("symmetry axis"); err != nil {
			return err
		}
	}
	e.symmetry = s
	return nil
}
