package texpaint

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator could not run a kernel for
// this call. The engine transparently retries the call on the CPU.
var ErrFallbackToCPU = errors.New("texpaint: falling back to CPU")

// ErrUnavailable indicates the accelerator can no longer run any kernel,
// for example after the device was lost. The engine stops using it.
var ErrUnavailable = errors.New("texpaint: accelerator unavailable")

// Kernel is a bit set of compute kernels.
type Kernel uint32

const (
	// KernelPaintBrush paints or erases a brush dab.
	KernelPaintBrush Kernel = 1 << iota

	// KernelSelectionPaint paints a dab into the selection mask.
	KernelSelectionPaint

	// KernelSelectionErase erases a dab from the selection mask.
	KernelSelectionErase

	// KernelColorAdjustment transforms a whole buffer.
	KernelColorAdjustment

	// KernelPaintOpacity composites painted pixels.
	KernelPaintOpacity

	// KernelClearWithMask restores original pixels under the paint mask.
	KernelClearWithMask

	// KernelNonPainted copies adjusted pixels into unpainted areas.
	KernelNonPainted

	// AllKernels is the full kernel set.
	AllKernels = KernelPaintBrush | KernelSelectionPaint | KernelSelectionErase |
		KernelColorAdjustment | KernelPaintOpacity | KernelClearWithMask | KernelNonPainted
)

// Has reports whether every kernel in k2 is in k.
func (k Kernel) Has(k2 Kernel) bool { return k&k2 == k2 }

// String returns a short name for single kernels.
func (k Kernel) String() string {
	switch k {
	case KernelPaintBrush:
		return "PaintBrush"
	case KernelSelectionPaint:
		return "SelectionPaint"
	case KernelSelectionErase:
		return "SelectionErase"
	case KernelColorAdjustment:
		return "ApplyColorAdjustment"
	case KernelPaintOpacity:
		return "ApplyPaintOpacity"
	case KernelClearWithMask:
		return "ClearWithMask"
	case KernelNonPainted:
		return "ApplyColorAdjustmentToNonPaintedAreas"
	default:
		return "Kernel(multiple)"
	}
}

// ComputeDispatch runs the engine's pixel kernels. The CPU implementation
// is always available; a GPU implementation can be registered with
// RegisterAccelerator.
//
// Brush kernels operate on a box-local tile and only write into the tile.
// Buffer kernels write the whole dst buffer. On error the engine discards
// whatever the kernel wrote and runs the CPU kernel instead.
//
// Implementations should be provided by backend packages. Users opt in to
// GPU acceleration via blank import:
//
//	import _ "github.com/gogpu/texpaint/gpu"
type ComputeDispatch interface {
	// Name returns the implementation name (e.g., "cpu", "wgpu").
	Name() string

	// Init initializes resources. Called once during registration.
	Init() error

	// Close releases resources.
	Close()

	// Capabilities reports the kernels this implementation can run.
	Capabilities() Kernel

	// PaintBrush paints or erases a dab on a paint tile.
	PaintBrush(t *BrushTile, d BrushDab) error

	// SelectionPaint writes a dab into a selection tile.
	SelectionPaint(t *BrushTile, d BrushDab) error

	// SelectionErase clears a dab from a selection tile.
	SelectionErase(t *BrushTile, d BrushDab) error

	// ApplyColorAdjustment writes src transformed by adj into dst.
	ApplyColorAdjustment(dst, src *ImageBuffer, adj ColorAdjustment) error

	// ApplyPaintOpacity composites covered pixels of dst from original and
	// the adjusted color layer.
	ApplyPaintOpacity(dst, original, adjustedLayer *ImageBuffer, mask *AlphaMask, opacity float32) error

	// ClearWithMask restores original into covered pixels of dst.
	ClearWithMask(dst, original *ImageBuffer, mask *AlphaMask) error

	// ApplyColorAdjustmentToNonPaintedAreas copies adjusted into uncovered
	// pixels of dst.
	ApplyColorAdjustmentToNonPaintedAreas(dst, adjusted *ImageBuffer, mask *AlphaMask) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with the host application.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   ComputeDispatch
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one. Init is called during registration; if it fails the
// accelerator is not registered and the error is returned.
//
// Engines created after registration resolve the accelerator's
// capabilities once, in New.
func RegisterAccelerator(a ComputeDispatch) error {
	if a == nil {
		return errors.New("texpaint: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Info("accelerator registered", "name", a.Name(), "kernels", uint32(a.Capabilities()))
	return nil
}

// Accelerator returns the registered GPU accelerator, or nil if none.
func Accelerator() ComputeDispatch {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. It is a no-op when no accelerator is registered or it does
// not support device sharing.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
