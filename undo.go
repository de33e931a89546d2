package texpaint

import (
	"errors"
	"fmt"
)

// Undo restores the state before the most recent operation. It is a no-op
// when there is nothing to undo.
func (e *Engine) Undo() error {
	return e.step("undo", e.history.Undo)
}

// Redo reapplies the most recently undone operation. It is a no-op when
// there is nothing to redo.
func (e *Engine) Redo() error {
	return e.step("redo", e.history.Redo)
}

type stepFunc func(capture func() (*snapshot, error), apply func(*snapshot) error) (string, bool, error)

func (e *Engine) step(name string, fn stepFunc) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.endInput()
	label, ok, err := fn(e.capture, e.apply)
	if err != nil {
		if errors.Is(err, ErrCorruptSnapshot) {
			Logger().Warn("discarded corrupt snapshot", "op", name, "label", label, "err", err)
		}
		return fmt.Errorf("texpaint: %s: %w", name, err)
	}
	if ok {
		Logger().Debug("history step", "op", name, "label", label,
			"undo", e.history.UndoLen(), "redo", e.history.RedoLen())
	}
	return nil
}

// CanUndo reports whether Undo would change anything.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// UndoLabel names the operation Undo would revert, or "".
func (e *Engine) UndoLabel() string { return e.history.UndoLabel() }

// RedoLabel names the operation Redo would reapply, or "".
func (e *Engine) RedoLabel() string { return e.history.RedoLabel() }

// UndoDepth returns the number of undo steps available.
func (e *Engine) UndoDepth() int { return e.history.UndoLen() }

// RedoDepth returns the number of redo steps available.
func (e *Engine) RedoDepth() int { return e.history.RedoLen() }
