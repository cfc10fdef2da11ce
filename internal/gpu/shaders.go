//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// keepShaderSource is the WGSL compute shader shared by both accelerated
// operations.
//
//go:embed shaders/keep.wgsl
var keepShaderSource string

// Shader modes, written to Params.mode.
const (
	modeKeepYellow uint32 = 0
	modeGrayscale  uint32 = 1
)

// workgroupSize matches @workgroup_size in keep.wgsl.
const workgroupSize = 8

// KeepShaderSource returns the WGSL source of the compute shader.
func KeepShaderSource() string {
	return keepShaderSource
}

// CompileShaderToSPIRV compiles WGSL source to SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}
