package filter

import (
	"image"

	"github.com/gogpu/colorkeep"
)

// ColorMatrix applies a 4x5 color transformation matrix to straight-alpha
// pixels:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Channels are in [0, 255] during the transformation and clamped on write.
// The fifth column is a bias in the same range.
type ColorMatrix struct {
	// Matrix is row-major: [0-4] R, [5-9] G, [10-14] B, [15-19] A.
	Matrix [20]float32
}

// NewColorMatrix creates a color matrix filter with the given matrix.
func NewColorMatrix(matrix [20]float32) *ColorMatrix {
	return &ColorMatrix{Matrix: matrix}
}

// NewIdentityColorMatrix creates a color matrix that passes pixels through.
func NewIdentityColorMatrix() *ColorMatrix {
	return &ColorMatrix{
		Matrix: [20]float32{
			1, 0, 0, 0, 0,
			0, 1, 0, 0, 0,
			0, 0, 1, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewSaturationMatrix blends every pixel between its BT.601 luma and its
// original color. factor: 0 = grayscale, 1 = unchanged, 2 = oversaturated.
func NewSaturationMatrix(factor float32) *ColorMatrix {
	const (
		lumR = colorkeep.LumaR
		lumG = colorkeep.LumaG
		lumB = colorkeep.LumaB
	)
	inv := 1 - factor

	return &ColorMatrix{
		Matrix: [20]float32{
			lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
			lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
			lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewGrayscaleMatrix creates a color matrix that replaces RGB with BT.601
// luma.
func NewGrayscaleMatrix() *ColorMatrix {
	return NewSaturationMatrix(0)
}

// Apply implements Filter.
func (f *ColorMatrix) Apply(src, dst *colorkeep.Pixmap, bounds image.Rectangle) {
	r, ok := clipBounds(src, dst, bounds)
	if !ok {
		return
	}

	sd, dd := src.Data(), dst.Data()
	ss, ds := src.Stride(), dst.Stride()
	m := f.Matrix

	forRows(r, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			si, di := y*ss+r.Min.X*4, y*ds+r.Min.X*4
			for x := r.Min.X; x < r.Max.X; x++ {
				cr := float32(sd[si+0])
				cg := float32(sd[si+1])
				cb := float32(sd[si+2])
				ca := float32(sd[si+3])

				dd[di+0] = clampUint8(m[0]*cr + m[1]*cg + m[2]*cb + m[3]*ca + m[4])
				dd[di+1] = clampUint8(m[5]*cr + m[6]*cg + m[7]*cb + m[8]*ca + m[9])
				dd[di+2] = clampUint8(m[10]*cr + m[11]*cg + m[12]*cb + m[13]*ca + m[14])
				dd[di+3] = clampUint8(m[15]*cr + m[16]*cg + m[17]*cb + m[18]*ca + m[19])

				si += 4
				di += 4
			}
		}
	})
}

// Multiply returns the matrix that applies f first, then other.
func (f *ColorMatrix) Multiply(other *ColorMatrix) *ColorMatrix {
	a := &other.Matrix
	b := &f.Matrix

	result := &ColorMatrix{}
	out := &result.Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*5+k] * b[k*5+col]
			}
			out[row*5+col] = sum
		}
		out[row*5+4] = a[row*5+0]*b[4] + a[row*5+1]*b[9] +
			a[row*5+2]*b[14] + a[row*5+3]*b[19] + a[row*5+4]
	}
	return result
}
