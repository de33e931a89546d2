//go:build !nogpu

// Package gpu runs the texpaint pixel kernels on the GPU.
//
// It uses the gogpu/wgpu HAL directly (zero CGO) with the Vulkan backend.
// Kernels are written in WGSL, compiled to SPIR-V with gogpu/naga and
// dispatched as one compute pass per call:
//
//   - brush: paint or erase one dab on a box-local tile
//   - selection: paint or erase one dab on a selection tile
//   - adjust: gamma, hue, saturation and brightness over a whole buffer
//   - composite: paint opacity, non-painted and clear-with-mask passes
//
// Brush tiles are packed into per-pixel records so that the working
// image, color layer, mask and stroke visited bits are updated together.
//
// Every kernel has a CPU twin in the texpaint root package. Results match
// within float tolerance; any dispatch error is reported as
// texpaint.ErrFallbackToCPU and the engine reruns the call on the CPU.
package gpu
