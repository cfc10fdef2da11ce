package color

import "math"

// SRGBToLinear converts an sRGB component in [0,1] to linear light.
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component in [0,1] to sRGB.
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// Lookup tables for the per-pixel path. The inverse table has 12 bits of
// input precision, which is enough to round-trip every 8-bit value.
var (
	srgbToLinearLUT [256]float32
	linearToSRGBLUT [4096]uint8
)

func init() {
	for i := range srgbToLinearLUT {
		srgbToLinearLUT[i] = SRGBToLinearSlow(uint8(i))
	}
	for i := range linearToSRGBLUT {
		linearToSRGBLUT[i] = LinearToSRGBSlow(float32(float64(i) / 4095.0))
	}
}

// SRGBToLinearFast converts an sRGB byte to linear float32 using a lookup table.
//
//	r := SRGBToLinearFast(128) // ~0.2159
func SRGBToLinearFast(s uint8) float32 {
	return srgbToLinearLUT[s]
}

// LinearToSRGBFast converts a linear float32 to an sRGB byte using a lookup
// table. Input is clamped to [0,1].
func LinearToSRGBFast(l float32) uint8 {
	if !(l > 0) {
		return linearToSRGBLUT[0]
	}
	if l > 1 {
		l = 1
	}
	return linearToSRGBLUT[int(l*4095.0+0.5)]
}

// SRGBToLinearSlow is the math.Pow reference for SRGBToLinearFast.
func SRGBToLinearSlow(s uint8) float32 {
	return float32(SRGBToLinear(NormalizeFast(s)))
}

// LinearToSRGBSlow is the math.Pow reference for LinearToSRGBFast.
func LinearToSRGBSlow(l float32) uint8 {
	lf := float64(l)
	if !(lf > 0) {
		lf = 0
	}
	if lf > 1 {
		lf = 1
	}
	return UnitToByte(LinearToSRGB(lf))
}
