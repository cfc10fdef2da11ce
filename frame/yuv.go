package frame

import (
	"errors"
	"image/color"

	"github.com/gogpu/colorkeep"
	"github.com/gogpu/colorkeep/internal/parallel"
)

// Decoding errors.
var (
	// ErrInvalidSize is returned for non-positive frame dimensions or strides
	// smaller than a row.
	ErrInvalidSize = errors.New("frame: invalid size")

	// ErrShortBuffer is returned when input data is too small for the
	// requested dimensions.
	ErrShortBuffer = errors.New("frame: short buffer")
)

// Planes is a YUV_420_888 capture: a full resolution luma plane and two
// chroma planes subsampled by two in each direction.
type Planes struct {
	Y, U, V []byte

	YRowStride    int
	UVRowStride   int
	UVPixelStride int
}

func chromaSize(w, h int) (cw, ch int) {
	return (w + 1) / 2, (h + 1) / 2
}

// NV21Size returns the length of an NV21 buffer for a w x h frame.
func NV21Size(w, h int) int {
	cw, ch := chromaSize(w, h)
	return w*h + 2*cw*ch
}

// NV21 packs the planes into an NV21 buffer: the luma plane followed by
// interleaved V and U samples. Zero strides mean tightly packed planes.
func (p Planes) NV21(w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidSize
	}
	cw, ch := chromaSize(w, h)

	yStride := p.YRowStride
	if yStride == 0 {
		yStride = w
	}
	pixStride := p.UVPixelStride
	if pixStride == 0 {
		pixStride = 1
	}
	uvStride := p.UVRowStride
	if uvStride == 0 {
		uvStride = cw * pixStride
	}
	if yStride < w || pixStride < 1 || uvStride < (cw-1)*pixStride+1 {
		return nil, ErrInvalidSize
	}

	if len(p.Y) < (h-1)*yStride+w {
		return nil, ErrShortBuffer
	}
	lastUV := (ch-1)*uvStride + (cw-1)*pixStride + 1
	if len(p.U) < lastUV || len(p.V) < lastUV {
		return nil, ErrShortBuffer
	}

	out := make([]byte, NV21Size(w, h))
	for y := 0; y < h; y++ {
		copy(out[y*w:(y+1)*w], p.Y[y*yStride:y*yStride+w])
	}
	i := w * h
	for y := 0; y < ch; y++ {
		row := y * uvStride
		for x := 0; x < cw; x++ {
			j := row + x*pixStride
			out[i] = p.V[j]
			out[i+1] = p.U[j]
			i += 2
		}
	}
	return out, nil
}

// DecodeNV21 converts an NV21 buffer to an opaque pixmap using full-range
// BT.601 coefficients.
func DecodeNV21(data []byte, w, h int) (*colorkeep.Pixmap, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidSize
	}
	if len(data) < NV21Size(w, h) {
		return nil, ErrShortBuffer
	}

	cw, _ := chromaSize(w, h)
	pm := colorkeep.NewPixmap(w, h)
	pix := pm.Data()
	chroma := data[w*h:]

	parallel.ForRows(parallel.Default(), 0, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			luma := data[y*w : (y+1)*w]
			uv := chroma[(y/2)*cw*2:]
			out := pix[y*w*4 : (y+1)*w*4]
			for x := 0; x < w; x++ {
				k := (x / 2) * 2
				r, g, b := color.YCbCrToRGB(luma[x], uv[k+1], uv[k])
				o := x * 4
				out[o] = r
				out[o+1] = g
				out[o+2] = b
				out[o+3] = 255
			}
		}
	})
	return pm, nil
}
