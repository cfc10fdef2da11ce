// Package colorkeep provides a selective-color image filter that keeps
// yellow tones and renders everything else in grayscale.
//
// # Overview
//
// The core of the package is a pure per-pixel kernel:
//
//	out := colorkeep.KeepYellow(colorkeep.RGB(0.9, 0.8, 0.2))
//
// A sample is yellow when either of two tests fires:
//   - hue in [45°, 75°] with saturation above 0.3 and a largest channel
//     above 0.2
//   - red and green above 0.4, blue below 0.3, and blue the smallest channel
//
// Yellow samples are returned unchanged. Every other sample becomes its
// BT.601 luma (0.299 R + 0.587 G + 0.114 B) in all three color channels.
// Alpha always passes through.
//
// # Pixel buffers and filters
//
// [Pixmap] is a straight-alpha RGBA8 buffer that implements image.Image.
// The filter sub-package applies the kernel over a region of a Pixmap in
// parallel, and the frame sub-package runs it over a stream of camera
// frames.
//
// # GPU acceleration
//
// Importing the gpu sub-package registers a wgpu/hal compute accelerator:
//
//	import _ "github.com/gogpu/colorkeep/gpu"
//
// When no GPU is available, or any GPU operation fails, filters fall back
// to the CPU kernel.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package colorkeep
