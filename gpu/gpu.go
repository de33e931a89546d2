//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for texpaint.
//
// Import this package to run the brush, selection, color adjustment and
// compositing kernels on the GPU. The accelerator uses wgpu/hal compute
// shaders with the Vulkan backend.
//
// If no device is available the accelerator reports no kernels and every
// engine stays on the CPU kernels, which produce the same results.
//
// Usage:
//
//	import _ "github.com/gogpu/texpaint/gpu" // enable GPU kernels
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texpaint"
	gpuimpl "github.com/gogpu/texpaint/internal/gpu"
)

func init() {
	if err := texpaint.RegisterAccelerator(&gpuimpl.Accelerator{}); err != nil {
		texpaint.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a separate
// GPU instance next to the host application's renderer.
//
// The provider must also implement gpucontext.HalProvider for direct HAL
// access. Engines created before the call keep their resolved kernel set.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return texpaint.SetAcceleratorDeviceProvider(provider)
}
