//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources. Every kernel is compiled together with
// the shared declarations in common.wgsl.

//go:embed shaders/common.wgsl
var commonShaderSource string

//go:embed shaders/brush.wgsl
var brushShaderSource string

//go:embed shaders/selection.wgsl
var selectionShaderSource string

//go:embed shaders/adjust.wgsl
var adjustShaderSource string

//go:embed shaders/composite.wgsl
var compositeShaderSource string

// pipelineID names one compute pipeline.
type pipelineID int

const (
	pipelineBrush pipelineID = iota
	pipelineSelection
	pipelineAdjust
	pipelineComposite
	pipelineCount
)

// String returns the pipeline label.
func (p pipelineID) String() string {
	switch p {
	case pipelineBrush:
		return "brush"
	case pipelineSelection:
		return "selection"
	case pipelineAdjust:
		return "adjust"
	case pipelineComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// shaderSource returns the full WGSL source of pipeline p.
func shaderSource(p pipelineID) string {
	switch p {
	case pipelineBrush:
		return commonShaderSource + brushShaderSource
	case pipelineSelection:
		return commonShaderSource + selectionShaderSource
	case pipelineAdjust:
		return commonShaderSource + adjustShaderSource
	case pipelineComposite:
		return commonShaderSource + compositeShaderSource
	}
	return ""
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// createShaderModule compiles pipeline p and creates its HAL module.
func createShaderModule(device hal.Device, p pipelineID) (hal.ShaderModule, error) {
	code, err := compileSPIRV(shaderSource(p))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "texpaint_" + p.String(),
		Source: hal.ShaderSource{SPIRV: code},
	})
}
