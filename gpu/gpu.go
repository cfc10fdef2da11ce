//go:build !nogpu

// Package gpu registers the wgpu/hal compute accelerator for colorkeep
// filters.
//
// Registration is cheap: the device is opened on the first accelerated
// filter call. If that fails (no Vulkan device available), the accelerator
// stays registered and runs its CPU mirror, so importing this package never
// changes results beyond float32 rounding at classification boundaries.
//
// Usage:
//
//	import _ "github.com/gogpu/colorkeep/gpu" // enable GPU acceleration
package gpu

import (
	"errors"

	"github.com/gogpu/colorkeep"
	gpuimpl "github.com/gogpu/colorkeep/internal/gpu"
	"github.com/gogpu/gpucontext"
)

func init() {
	if err := colorkeep.RegisterAccelerator(&gpuimpl.KeepAccelerator{}); err != nil {
		colorkeep.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to use a shared GPU device
// from an external provider instead of opening its own.
//
// The provider must also expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return errors.New("gpu: nil device provider")
	}
	return colorkeep.SetAcceleratorDeviceProvider(provider)
}

// ShaderSource returns the WGSL source of the compute shader.
func ShaderSource() string {
	return gpuimpl.KeepShaderSource()
}
