package colorkeep

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this operation.
// The caller should transparently fall back to the CPU kernel.
var ErrFallbackToCPU = errors.New("colorkeep: falling back to CPU")

// AcceleratedOp describes operation types for GPU capability checking.
type AcceleratedOp uint32

const (
	// AccelKeepYellow represents the KeepYellow kernel.
	AccelKeepYellow AcceleratedOp = 1 << iota

	// AccelGrayscale represents the Grayscale kernel.
	AccelGrayscale
)

// String returns the operation name.
func (op AcceleratedOp) String() string {
	switch op {
	case AccelKeepYellow:
		return "keep-yellow"
	case AccelGrayscale:
		return "grayscale"
	default:
		return "unknown"
	}
}

// GPURenderTarget provides pixel buffer access for GPU processing.
// The Data slice holds straight-alpha RGBA, 4 bytes per pixel, laid out row
// by row with the given Stride. Accelerators recolor it in place.
type GPURenderTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// TargetFor returns a GPURenderTarget covering the whole pixmap.
func TargetFor(p *Pixmap) GPURenderTarget {
	return GPURenderTarget{
		Data:   p.data,
		Width:  p.width,
		Height: p.height,
		Stride: p.Stride(),
	}
}

// GPUAccelerator is an optional GPU acceleration provider.
//
// When registered via RegisterAccelerator, filters try GPU acceleration
// first for supported operations. If the accelerator returns
// ErrFallbackToCPU or any other error, processing transparently falls back
// to the CPU kernel.
//
// Implementations are provided by GPU backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/colorkeep/gpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu", "vulkan").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given operation.
	CanAccelerate(op AcceleratedOp) bool

	// Recolor applies op to every pixel of target in place.
	// Returns ErrFallbackToCPU if the target cannot be GPU-accelerated.
	Recolor(target GPURenderTarget, op AcceleratedOp) error
}

// DeviceProviderAware is an optional interface for accelerators that can share
// GPU resources with an external provider.
// When SetDeviceProvider is called, the accelerator reuses the provided GPU
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one, which is closed. The accelerator's Init method is called
// during registration. If Init fails, the accelerator is not registered and
// the error is returned.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("colorkeep: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	Logger().Info("accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the registered accelerator, if any.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the currently registered GPU accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it doesn't support device sharing, this is a no-op.
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

// TryAccelerate runs op on the registered accelerator. It reports false when
// no accelerator is registered, it does not support op, or it failed; the
// caller must then run the CPU kernel. A failed attempt may leave target
// partially written, so callers re-derive target from the source before the
// CPU pass.
func TryAccelerate(target GPURenderTarget, op AcceleratedOp) bool {
	a := Accelerator()
	if a == nil || !a.CanAccelerate(op) {
		return false
	}
	if err := a.Recolor(target, op); err != nil {
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("GPU recolor failed, using CPU", "accelerator", a.Name(), "op", op.String(), "err", err)
		}
		return false
	}
	return true
}
