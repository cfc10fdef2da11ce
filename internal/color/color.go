// Package color provides the color conversions used by the colorkeep filters:
// byte/float component mapping and sRGB transfer functions.
package color

// ColorSpace selects the space in which RGB samples are interpreted.
type ColorSpace uint8

const (
	// ColorSpaceSRGB treats bytes as gamma-encoded values, the way a shader
	// sampling an 8-bit texture sees them.
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear decodes bytes to linear light before classification.
	ColorSpaceLinear
)

// String returns "srgb" or "linear".
func (cs ColorSpace) String() string {
	if cs == ColorSpaceLinear {
		return "linear"
	}
	return "srgb"
}

// byteToUnit maps every byte to v/255 exactly once.
var byteToUnit [256]float64

func init() {
	for i := range byteToUnit {
		byteToUnit[i] = float64(i) / 255
	}
}

// NormalizeFast returns v/255 from a lookup table.
func NormalizeFast(v uint8) float64 {
	return byteToUnit[v]
}

// UnitToByte converts a float64 in [0,1] to a byte with clamping and rounding.
// NaN maps to 0.
func UnitToByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
