// Package shader compiles WGSL shape shaders for the render pipelines.
package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Compile translates WGSL source to SPIR-V words via naga.
func Compile(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, err
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// NewModule creates a HAL shader module from WGSL source. The source is
// compiled to SPIR-V first; if the translator rejects it, the WGSL is
// passed to the HAL directly so backends with native WGSL support still
// work. Errors are wrapped with the module label.
func NewModule(device hal.Device, label, wgslSource string) (hal.ShaderModule, error) {
	code, err := Compile(wgslSource)
	if err == nil {
		m, merr := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  label,
			Source: hal.ShaderSource{SPIRV: code},
		})
		if merr != nil {
			return nil, fmt.Errorf("shader %q: %w", label, merr)
		}
		return m, nil
	}

	m, merr := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: wgslSource},
	})
	if merr != nil {
		return nil, fmt.Errorf("shader %q: compile: %v: %w", label, err, merr)
	}
	return m, nil
}
