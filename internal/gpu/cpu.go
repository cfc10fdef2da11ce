//go:build !nogpu

package gpu

import (
	"math"

	"github.com/gogpu/colorkeep"
)

// recolorCPU mirrors keep.wgsl in float32 arithmetic. It runs when the
// accelerator has no usable device, so results match what the shader would
// produce rather than the float64 kernel.
func recolorCPU(target colorkeep.GPURenderTarget, mode uint32) {
	for y := 0; y < target.Height; y++ {
		row := target.Data[y*target.Stride : y*target.Stride+target.Width*4]
		for i := 0; i < len(row); i += 4 {
			r := float32(row[i+0]) / 255
			g := float32(row[i+1]) / 255
			b := float32(row[i+2]) / 255

			if mode == modeKeepYellow && isYellow32(r, g, b) {
				continue
			}

			gray := toByte32(0.299*r + 0.587*g + 0.114*b)
			row[i+0] = gray
			row[i+1] = gray
			row[i+2] = gray
		}
	}
}

func isYellow32(r, g, b float32) bool {
	maxC := max(r, g, b)
	minC := min(r, g, b)
	delta := maxC - minC

	var hue float32
	if delta != 0 {
		switch maxC {
		case r:
			hue = floorMod32((g-b)/delta, 6)
		case g:
			hue = (b-r)/delta + 2
		default:
			hue = (r-g)/delta + 4
		}
		hue *= 60
	}

	var sat float32
	if maxC != 0 {
		sat = delta / maxC
	}

	byHue := hue >= 45 && hue <= 75 && sat > 0.3 && maxC > 0.2
	byChannel := r > 0.4 && g > 0.4 && b < 0.3 && r > b && g > b
	return byHue || byChannel
}

func floorMod32(x, y float32) float32 {
	return x - y*float32(math.Floor(float64(x/y)))
}

func toByte32(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
