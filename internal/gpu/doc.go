// Package gpu implements the colorkeep GPU accelerator on wgpu/hal.
//
// A single WGSL compute shader (shaders/keep.wgsl) recolors a packed RGBA8
// storage buffer in place. The shader is compiled to SPIR-V with naga when
// the pipeline is created. Without a usable device the accelerator runs a
// float32 CPU mirror of the shader.
package gpu
