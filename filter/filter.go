package filter

import (
	"image"

	"github.com/gogpu/colorkeep"
	icolor "github.com/gogpu/colorkeep/internal/color"
	"github.com/gogpu/colorkeep/internal/parallel"
)

// Filter transforms the pixels of src inside bounds and writes them to dst.
//
// Bounds are clipped to both pixmaps. Pixels of dst outside the clipped
// bounds are not modified. src and dst may be the same pixmap. A nil src or
// dst makes Apply a no-op.
type Filter interface {
	Apply(src, dst *colorkeep.Pixmap, bounds image.Rectangle)
}

// ColorSpace selects how 8-bit samples are interpreted before
// classification.
type ColorSpace = icolor.ColorSpace

const (
	// SRGB classifies the encoded byte values directly, which is what a
	// fragment shader sampling an 8-bit texture does.
	SRGB = icolor.ColorSpaceSRGB

	// Linear decodes sRGB bytes to linear light, classifies, and re-encodes
	// the gray output.
	Linear = icolor.ColorSpaceLinear
)

// clipBounds intersects bounds with both pixmaps. ok is false when the
// result is empty or either pixmap is nil.
func clipBounds(src, dst *colorkeep.Pixmap, bounds image.Rectangle) (r image.Rectangle, ok bool) {
	if src == nil || dst == nil {
		return image.Rectangle{}, false
	}
	r = bounds.Intersect(src.Bounds()).Intersect(dst.Bounds())
	return r, !r.Empty()
}

// wholeImage reports whether r covers all of src and dst has the same size,
// the only shape the GPU accelerator handles.
func wholeImage(src, dst *colorkeep.Pixmap, r image.Rectangle) bool {
	return r == src.Bounds() && src.Bounds() == dst.Bounds()
}

// tryGPU runs op on the registered accelerator over the whole image. When
// src and dst are distinct, src is first copied into dst and recolored
// there; otherwise a scratch copy is recolored and copied back on success,
// so a failed attempt never corrupts the source.
func tryGPU(src, dst *colorkeep.Pixmap, op colorkeep.AcceleratedOp) bool {
	if colorkeep.Accelerator() == nil {
		return false
	}
	if src == dst {
		scratch := src.Clone()
		if !colorkeep.TryAccelerate(colorkeep.TargetFor(scratch), op) {
			return false
		}
		copy(dst.Data(), scratch.Data())
		return true
	}
	copy(dst.Data(), src.Data())
	return colorkeep.TryAccelerate(colorkeep.TargetFor(dst), op)
}

// forRows runs fn over the rows of r on the shared pool.
func forRows(r image.Rectangle, fn func(y0, y1 int)) {
	parallel.ForRows(parallel.Default(), r.Min.Y, r.Max.Y, fn)
}

func clampUint8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
