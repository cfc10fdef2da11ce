// Package filter applies colorkeep kernels to regions of a Pixmap.
//
// The package provides:
//   - YellowKeep: keep yellow tones, render everything else in gray
//   - Grayscale: BT.601 luma for every pixel
//   - ColorMatrix: general 4x5 color transformations
//
// Filters split the region into row bands and run them on a shared worker
// pool. YellowKeep and Grayscale first offer whole-image work to the
// registered GPU accelerator and fall back to the CPU path when it declines
// or fails.
package filter
