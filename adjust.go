package texpaint

import (
	"fmt"

	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/pixel"
)

// ColorAdjustmentOf returns the adjustment of kind k.
func (e *Engine) ColorAdjustmentOf(k AdjustmentKind) ColorAdjustment {
	if k > AdjustSelection {
		return color.Identity()
	}
	return e.adj[k]
}

// BeginAdjustment starts a slider drag: of all parameter changes until
// EndAdjustment only the first records an undo snapshot.
func (e *Engine) BeginAdjustment() {
	e.adjusting = true
	e.adjustRecorded = false
}

// EndAdjustment ends a slider drag.
func (e *Engine) EndAdjustment() {
	e.adjusting = false
	e.adjustRecorded = false
}

// recordAdjustment records a snapshot for a parameter change, once per
// drag.
func (e *Engine) recordAdjustment(label string) error {
	if !e.bound {
		return nil
	}
	if e.adjusting && e.adjustRecorded {
		return nil
	}
	if err := e.record(label); err != nil {
		return err
	}
	e.adjustRecorded = e.adjusting
	return nil
}

// SetColorAdjustment sets one channel of the adjustment of kind k. The
// value is clamped to the channel's range. Global and painted-area changes
// recompute the working image; selection changes refresh the preview.
func (e *Engine) SetColorAdjustment(k AdjustmentKind, ch Channel, v float32) error {
	if e.closed {
		return ErrClosed
	}
	if k > AdjustSelection {
		return fmt.Errorf("%w: adjustment kind %d", ErrInvalidArgument, k)
	}
	if ch > color.Gamma {
		return fmt.Errorf("%w: channel %d", ErrInvalidArgument, ch)
	}
	next := e.adj[k].With(ch, v)
	if next == e.adj[k] {
		return nil
	}
	if err := e.recordAdjustment(k.String() + " " + ch.String()); err != nil {
		return err
	}
	e.adj[k] = next
	e.adjustmentChanged(k)
	return nil
}

// ResetColorAdjustment restores the adjustment of kind k to identity as a
// single undo step.
func (e *Engine) ResetColorAdjustment(k AdjustmentKind) error {
	if e.closed {
		return ErrClosed
	}
	if k > AdjustSelection {
		return fmt.Errorf("%w: adjustment kind %d", ErrInvalidArgument, k)
	}
	if e.adj[k] == color.Identity() {
		return nil
	}
	if e.bound {
		if err := e.record("reset " + k.String() + " adjustment"); err != nil {
			return err
		}
	}
	e.adj[k] = color.Identity()
	e.adjustmentChanged(k)
	return nil
}

func (e *Engine) adjustmentChanged(k AdjustmentKind) {
	if !e.bound {
		return
	}
	if k != AdjustSelection {
		e.recompute()
	}
	e.present()
}

// PaintOpacity returns the paint opacity.
func (e *Engine) PaintOpacity() float32 { return e.opacity }

// SetPaintOpacity sets the opacity paint is composited with, clamped to
// [0,1], and recomputes the working image.
func (e *Engine) SetPaintOpacity(v float32) error {
	if e.closed {
		return ErrClosed
	}
	v = pixel.Clamp01(v)
	if v == e.opacity {
		return nil
	}
	if err := e.recordAdjustment("paint opacity"); err != nil {
		return err
	}
	e.opacity = v
	if e.bound {
		e.recompute()
		e.present()
	}
	return nil
}
