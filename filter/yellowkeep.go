package filter

import (
	"image"
	"sync/atomic"

	"github.com/gogpu/colorkeep"
	icolor "github.com/gogpu/colorkeep/internal/color"
)

// YellowKeep keeps pixels that classify as yellow and replaces every other
// pixel with its BT.601 luma. Alpha is never modified.
//
// The zero value classifies sRGB-encoded bytes and may use the GPU.
type YellowKeep struct {
	// ColorSpace selects how bytes are interpreted before classification.
	ColorSpace ColorSpace

	// DisableGPU forces the CPU path even when an accelerator is registered.
	DisableGPU bool
}

// NewYellowKeep returns a YellowKeep filter for the given color space.
func NewYellowKeep(cs ColorSpace) *YellowKeep {
	return &YellowKeep{ColorSpace: cs}
}

// Apply implements Filter.
//
// The GPU accelerator is used only when it is registered, the color space
// is SRGB, and bounds cover the whole image. Kept pixels are copied
// bit-exactly in both paths.
func (f *YellowKeep) Apply(src, dst *colorkeep.Pixmap, bounds image.Rectangle) {
	r, ok := clipBounds(src, dst, bounds)
	if !ok {
		return
	}
	if !f.DisableGPU && f.ColorSpace == SRGB && wholeImage(src, dst, r) &&
		tryGPU(src, dst, colorkeep.AccelKeepYellow) {
		return
	}

	classify := f.classifier()
	sd, dd := src.Data(), dst.Data()
	ss, ds := src.Stride(), dst.Stride()

	forRows(r, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			si, di := y*ss+r.Min.X*4, y*ds+r.Min.X*4
			for x := r.Min.X; x < r.Max.X; x++ {
				px := sd[si : si+4 : si+4]
				gray, yellow := classify(px[0], px[1], px[2])
				if yellow {
					copy(dd[di:di+4], px)
				} else {
					a := px[3]
					dd[di+0] = gray
					dd[di+1] = gray
					dd[di+2] = gray
					dd[di+3] = a
				}
				si += 4
				di += 4
			}
		}
	})
}

// Coverage counts the pixels of p inside bounds that classify as yellow.
// total is the number of pixels examined.
func (f *YellowKeep) Coverage(p *colorkeep.Pixmap, bounds image.Rectangle) (kept, total int) {
	r, ok := clipBounds(p, p, bounds)
	if !ok {
		return 0, 0
	}

	classify := f.classifier()
	data, stride := p.Data(), p.Stride()
	var n atomic.Int64

	forRows(r, func(y0, y1 int) {
		local := 0
		for y := y0; y < y1; y++ {
			i := y*stride + r.Min.X*4
			for x := r.Min.X; x < r.Max.X; x++ {
				if _, yellow := classify(data[i], data[i+1], data[i+2]); yellow {
					local++
				}
				i += 4
			}
		}
		n.Add(int64(local))
	})
	return int(n.Load()), r.Dx() * r.Dy()
}

// classifier returns the per-pixel decision for the filter's color space:
// the gray byte to write and whether the pixel is kept.
func (f *YellowKeep) classifier() func(r, g, b uint8) (uint8, bool) {
	if f.ColorSpace == Linear {
		return func(r, g, b uint8) (uint8, bool) {
			cl := colorkeep.Classify(colorkeep.RGB(
				float64(icolor.SRGBToLinearFast(r)),
				float64(icolor.SRGBToLinearFast(g)),
				float64(icolor.SRGBToLinearFast(b)),
			))
			return icolor.LinearToSRGBFast(float32(cl.Gray)), cl.Yellow()
		}
	}
	return func(r, g, b uint8) (uint8, bool) {
		cl := colorkeep.Classify(colorkeep.RGB(
			icolor.NormalizeFast(r),
			icolor.NormalizeFast(g),
			icolor.NormalizeFast(b),
		))
		return icolor.UnitToByte(cl.Gray), cl.Yellow()
	}
}

// FragmentShader returns the GLSL ES fragment shader that implements the
// filter for an external OES camera texture. The texture coordinate varying
// is named DefaultFragmentTextureCoordinateName.
func (f *YellowKeep) FragmentShader() string {
	return yellowKeepFragmentShader
}
