package filter

import (
	"image"

	"github.com/gogpu/colorkeep"
)

// Grayscale replaces every pixel with its BT.601 luma, preserving alpha.
type Grayscale struct {
	// DisableGPU forces the CPU path even when an accelerator is registered.
	DisableGPU bool
}

// Apply implements Filter. Whole-image work is offered to the GPU
// accelerator first.
func (f *Grayscale) Apply(src, dst *colorkeep.Pixmap, bounds image.Rectangle) {
	r, ok := clipBounds(src, dst, bounds)
	if !ok {
		return
	}
	if !f.DisableGPU && wholeImage(src, dst, r) && tryGPU(src, dst, colorkeep.AccelGrayscale) {
		return
	}
	NewGrayscaleMatrix().Apply(src, dst, r)
}

// FragmentShader returns the GLSL ES fragment shader for a plain 2D
// texture that implements the filter.
func (f *Grayscale) FragmentShader() string {
	return grayscaleFragmentShader
}
