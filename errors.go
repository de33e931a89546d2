package texpaint

import (
	"errors"

	"github.com/gogpu/texpaint/internal/history"
)

// Common errors returned by Engine operations.
var (
	// ErrNotBound is returned when an operation needs a bound target.
	ErrNotBound = errors.New("texpaint: no target bound")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("texpaint: engine closed")

	// ErrBufferAllocation is returned when a buffer would exceed the
	// configured pixel budget or could not be allocated. State is untouched.
	ErrBufferAllocation = errors.New("texpaint: buffer allocation failed")

	// ErrCorruptSnapshot is returned when an undo or redo snapshot fails
	// validation. The snapshot is discarded and state is untouched.
	ErrCorruptSnapshot = history.ErrCorruptSnapshot

	// ErrInvalidArgument is returned for out-of-range enum values.
	ErrInvalidArgument = errors.New("texpaint: invalid argument")

	// ErrNotSelectionMode is returned by SelectionPreview outside
	// selection mode.
	ErrNotSelectionMode = errors.New("texpaint: not in selection mode")
)
