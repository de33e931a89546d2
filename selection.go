package texpaint

import "fmt"

// SelectionMode reports whether brush and fill edit the selection mask.
func (e *Engine) SelectionMode() bool { return e.selectionMode }

// EnterSelectionMode starts editing an empty selection mask. While in
// selection mode the selection preview is shown instead of the working
// image.
func (e *Engine) EnterSelectionMode() error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.selectionMode {
		return nil
	}
	w, h := e.original.Width(), e.original.Height()
	if err := e.checkBudget(w, h); err != nil {
		return err
	}
	sel, err := e.pool.Mask(w, h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
	}
	if err := e.record("enter selection"); err != nil {
		e.pool.PutMask(sel)
		return err
	}
	e.endInput()
	e.selection = sel
	e.selectionMode = true
	Logger().Debug("selection mode entered")
	e.present()
	return nil
}

// ExitSelectionMode discards the selection mask and shows the working
// image again.
func (e *Engine) ExitSelectionMode() error {
	if err := e.ready(); err != nil {
		return err
	}
	if !e.selectionMode {
		return nil
	}
	if err := e.record("exit selection"); err != nil {
		return err
	}
	e.endInput()
	e.leaveSelection()
	Logger().Debug("selection mode exited")
	e.present()
	return nil
}

func (e *Engine) leaveSelection() {
	if e.selection != nil {
		e.pool.PutMask(e.selection)
	}
	e.selection = nil
	e.preview = nil
	e.selectionMode = false
}

// SelectionPreview renders the working image with the selection
// adjustment, or the selection tint, applied to selected pixels. The
// returned buffer is a copy.
func (e *Engine) SelectionPreview() (*ImageBuffer, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if !e.selectionMode {
		return nil, ErrNotSelectionMode
	}
	if err := e.renderSelectionPreview(); err != nil {
		return nil, err
	}
	return e.preview.Clone(), nil
}
