package texpaint

import (
	"fmt"

	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/pixel"
)

// snapshot is a deep copy of the engine state. Its buffers come from the
// engine pool and go back there on Release.
type snapshot struct {
	target TargetDescriptor

	original   *pixel.Buffer
	working    *pixel.Buffer
	colorLayer *pixel.Buffer
	mask       *pixel.Mask
	selection  *pixel.Mask // set only in selection mode

	brushStrength float32
	symmetryAxis  float32
	opacity       float32
	adj           [3]color.Adjustment
	selectionMode bool
	detached      bool

	pool *pixel.Pool
}

// Valid reports whether every buffer is present and all share one size.
func (s *snapshot) Valid() bool {
	if s == nil || s.original == nil || s.working == nil || s.colorLayer == nil || s.mask == nil {
		return false
	}
	w, h := s.original.Width(), s.original.Height()
	if w <= 0 || h <= 0 || !s.original.SameSize(s.working) || !s.original.SameSize(s.colorLayer) {
		return false
	}
	if s.mask.Width() != w || s.mask.Height() != h {
		return false
	}
	if s.selectionMode != (s.selection != nil) {
		return false
	}
	if s.selection != nil && (s.selection.Width() != w || s.selection.Height() != h) {
		return false
	}
	return true
}

// Release returns the buffers to the pool. It is safe to call twice.
func (s *snapshot) Release() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.PutBuffer(s.original)
	s.pool.PutBuffer(s.working)
	s.pool.PutBuffer(s.colorLayer)
	s.pool.PutMask(s.mask)
	s.pool.PutMask(s.selection)
	s.original, s.working, s.colorLayer = nil, nil, nil
	s.mask, s.selection = nil, nil
}

// capture copies the live state into a new snapshot.
func (e *Engine) capture() (*snapshot, error) {
	if !e.bound {
		return nil, ErrNotBound
	}
	s := &snapshot{
		target:        e.target,
		brushStrength: e.brush.Strength,
		symmetryAxis:  e.symmetry.Axis,
		opacity:       e.opacity,
		adj:           e.adj,
		selectionMode: e.selectionMode,
		detached:      e.detached,
		pool:          e.pool,
	}
	var err error
	if s.original, err = e.pool.CloneBuffer(e.original); err != nil {
		return nil, captureErr(s, err)
	}
	if s.working, err = e.pool.CloneBuffer(e.working); err != nil {
		return nil, captureErr(s, err)
	}
	if s.colorLayer, err = e.pool.CloneBuffer(e.colorLayer); err != nil {
		return nil, captureErr(s, err)
	}
	if s.mask, err = e.pool.CloneMask(e.mask); err != nil {
		return nil, captureErr(s, err)
	}
	if e.selectionMode {
		if s.selection, err = e.pool.CloneMask(e.selection); err != nil {
			return nil, captureErr(s, err)
		}
	}
	return s, nil
}

func captureErr(s *snapshot, err error) error {
	s.Release()
	return fmt.Errorf("%w: snapshot: %w", ErrBufferAllocation, err)
}

// apply makes s the live state. Nothing is changed when the target cannot
// be restored.
func (e *Engine) apply(s *snapshot) error {
	w, h := s.original.Width(), s.original.Height()
	if err := e.checkBudget(w, h); err != nil {
		return err
	}
	if s.target != e.target {
		e.releasePreview()
		if err := e.binding.Rebind(s.target); err != nil {
			if rerr := e.binding.Rebind(e.target); rerr != nil {
				Logger().Warn("restore current target failed", "target", e.target.Target, "err", rerr)
			}
			e.present()
			return fmt.Errorf("texpaint: rebind %q: %w", s.target.Target, err)
		}
		Logger().Info("target restored", "from", e.target.Target, "to", s.target.Target)
		e.target = s.target
	}
	if err := e.resize(w, h); err != nil {
		return err
	}

	e.brush.Strength = s.brushStrength
	e.symmetry.Axis = s.symmetryAxis
	e.opacity = s.opacity
	e.adj = s.adj
	e.detached = s.detached

	e.original.CopyFrom(s.original)
	e.working.CopyFrom(s.working)
	e.colorLayer.CopyFrom(s.colorLayer)
	e.mask.CopyFrom(s.mask)

	if s.selectionMode {
		if e.selection == nil {
			sel, err := e.pool.Mask(w, h)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
			}
			e.selection = sel
		}
		e.selection.CopyFrom(s.selection)
		e.selectionMode = true
	} else if e.selectionMode {
		e.leaveSelection()
	}

	if !e.detached {
		e.recompute()
	}
	e.endInput()
	e.present()
	return nil
}
