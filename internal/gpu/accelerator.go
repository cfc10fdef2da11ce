//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/colorkeep"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// submitTimeout bounds how long Recolor waits for the GPU.
const submitTimeout = 5 * time.Second

// pollInterval is the sleep between completion checks while waiting.
const pollInterval = 50 * time.Microsecond

// KeepAccelerator recolors whole images with a wgpu/hal compute shader.
// It implements colorkeep.GPUAccelerator.
//
// The device is opened on the first Recolor, not in Init, so registering
// the accelerator costs nothing until a filter actually uses it. When no
// GPU device can be opened the accelerator stays registered and runs a
// float32 CPU mirror of the shader instead.
type KeepAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	initTried      bool // device open attempted; never retried
	externalDevice bool // shared device: not destroyed on Close
}

var (
	_ colorkeep.GPUAccelerator      = (*KeepAccelerator)(nil)
	_ colorkeep.DeviceProviderAware = (*KeepAccelerator)(nil)
)

func (a *KeepAccelerator) Name() string { return "keep-gpu" }

func (a *KeepAccelerator) CanAccelerate(op colorkeep.AcceleratedOp) bool {
	return op&(colorkeep.AccelKeepYellow|colorkeep.AccelGrayscale) != 0
}

// SetLogger implements the logger propagation hook of colorkeep.SetLogger.
func (a *KeepAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Init registers the accelerator. Opening a device is deferred to the first
// Recolor or to SetDeviceProvider.
func (a *KeepAccelerator) Init() error {
	return nil
}

// ensureGPU opens the accelerator's own device once. A missing or broken
// GPU is not an error: the accelerator falls back to its CPU mirror.
// Callers hold a.mu.
func (a *KeepAccelerator) ensureGPU() {
	if a.gpuReady || a.initTried {
		return
	}
	a.initTried = true
	if err := a.initGPU(); err != nil {
		slogger().Warn("GPU init failed, using CPU fallback", "err", err)
		a.releaseOwned()
	}
}

// GPUReady reports whether Recolor dispatches to a GPU device.
func (a *KeepAccelerator) GPUReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

func (a *KeepAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if a.externalDevice {
		a.device = nil
		a.instance = nil
	} else {
		a.releaseOwned()
	}
	a.queue = nil
	a.gpuReady = false
	a.initTried = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a shared GPU device. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (a *KeepAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("keep-gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("keep-gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("keep-gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice {
		a.releaseOwned()
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true
	a.initTried = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("keep-gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("switched to shared GPU device")
	return nil
}

// Recolor applies op to target in place.
//
// Targets that are empty or not tightly packed return
// colorkeep.ErrFallbackToCPU. GPU errors are returned as-is; target may
// then be partially written.
func (a *KeepAccelerator) Recolor(target colorkeep.GPURenderTarget, op colorkeep.AcceleratedOp) error {
	mode, ok := modeFor(op)
	if !ok || !validTarget(target) {
		return colorkeep.ErrFallbackToCPU
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.ensureGPU()
	if !a.gpuReady {
		recolorCPU(target, mode)
		return nil
	}
	if err := a.dispatch(target, mode); err != nil {
		return fmt.Errorf("keep-gpu: %s: %w", op, err)
	}
	return nil
}

func (a *KeepAccelerator) dispatch(target colorkeep.GPURenderTarget, mode uint32) error {
	w, h := uint32(target.Width), uint32(target.Height) //nolint:gosec // dimensions validated positive
	pixelCount := target.Width * target.Height
	pixelBufSize := uint64(pixelCount) * 4

	slogger().Debug("dispatch",
		"width", w, "height", h, "mode", mode,
		"bytes", pixelBufSize,
		"workgroups_x", (w+workgroupSize-1)/workgroupSize,
		"workgroups_y", (h+workgroupSize-1)/workgroupSize)

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "keep_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	storageBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "keep_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer a.device.DestroyBuffer(storageBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "keep_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	if err := a.queue.WriteBuffer(paramsBuf, 0, makeParams(w, h, mode)); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	if err := a.queue.WriteBuffer(storageBuf, 0, packPixelsForGPU(target.Data, pixelCount)); err != nil {
		return fmt.Errorf("write pixels: %w", err)
	}

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "keep_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "keep_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("keep"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "keep_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((w+workgroupSize-1)/workgroupSize, (h+workgroupSize-1)/workgroupSize, 1)
	pass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	idx, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := a.waitSubmission(idx); err != nil {
		return err
	}

	mapping, err := a.device.MapBuffer(stagingBuf, 0, pixelBufSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), pixelBufSize) //nolint:gosec // mapping covers pixelBufSize bytes
	unpackPixelsFromGPU(readback, target.Data, pixelCount)
	if err := a.device.UnmapBuffer(stagingBuf); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// waitSubmission blocks until the queue reports idx complete or
// submitTimeout passes.
func (a *KeepAccelerator) waitSubmission(idx uint64) error {
	deadline := time.Now().Add(submitTimeout)
	for a.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: timed out after %v", submitTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

func (a *KeepAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.createPipelines(); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *KeepAccelerator) createPipelines() error {
	spirv, err := CompileShaderToSPIRV(keepShaderSource)
	if err != nil {
		return err
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "keep",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "keep_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "keep_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "keep_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *KeepAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// releaseOwned destroys the device and instance this accelerator created.
func (a *KeepAccelerator) releaseOwned() {
	a.destroyPipelines()
	if a.device != nil {
		a.device.Destroy()
		a.device = nil
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
}
