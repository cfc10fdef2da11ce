//go:build !nogpu

package gpu

import (
	"encoding/binary"

	"github.com/gogpu/colorkeep"
)

// paramsSize is the size of the Params uniform in keep.wgsl.
const paramsSize = 16

// makeParams encodes the Params uniform.
func makeParams(w, h, mode uint32) []byte {
	b := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(b[0:], w)
	binary.LittleEndian.PutUint32(b[4:], h)
	binary.LittleEndian.PutUint32(b[8:], mode)
	return b
}

// packPixelsForGPU packs RGBA8 pixels into little-endian u32 values with R
// in the low byte.
func packPixelsForGPU(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		j := i * 4
		packed := uint32(data[j]) | uint32(data[j+1])<<8 | uint32(data[j+2])<<16 | uint32(data[j+3])<<24
		binary.LittleEndian.PutUint32(out[j:], packed)
	}
	return out
}

// unpackPixelsFromGPU is the inverse of packPixelsForGPU.
func unpackPixelsFromGPU(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		val := binary.LittleEndian.Uint32(packed[i*4:])
		j := i * 4
		dst[j+0] = uint8(val)       //nolint:gosec // truncation to low byte
		dst[j+1] = uint8(val >> 8)  //nolint:gosec // truncation to low byte
		dst[j+2] = uint8(val >> 16) //nolint:gosec // truncation to low byte
		dst[j+3] = uint8(val >> 24) //nolint:gosec // truncation to low byte
	}
}

// validTarget reports whether target is a tightly packed, non-empty image
// the shader can process.
func validTarget(t colorkeep.GPURenderTarget) bool {
	return t.Width > 0 && t.Height > 0 &&
		t.Stride == t.Width*4 &&
		len(t.Data) >= t.Stride*t.Height
}

// modeFor maps an operation to the shader mode.
func modeFor(op colorkeep.AcceleratedOp) (uint32, bool) {
	switch op {
	case colorkeep.AccelKeepYellow:
		return modeKeepYellow, true
	case colorkeep.AccelGrayscale:
		return modeGrayscale, true
	default:
		return 0, false
	}
}
