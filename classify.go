package colorkeep

import "math"

// BT.601 luma weights.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Thresholds of the hue/saturation yellow test.
const (
	// HueMin and HueMax bound the accepted hue, in degrees, inclusive.
	HueMin = 45.0
	HueMax = 75.0

	// MinSaturation is the exclusive lower bound on saturation.
	MinSaturation = 0.3

	// MinValue is the exclusive lower bound on the largest channel.
	MinValue = 0.2
)

// Thresholds of the direct-channel yellow test.
const (
	// ChannelMin is the exclusive lower bound on red and green.
	ChannelMin = 0.4

	// ChannelMaxBlue is the exclusive upper bound on blue.
	ChannelMaxBlue = 0.3
)

// Classification holds the intermediate values computed while deciding
// whether a color sample is yellow.
type Classification struct {
	// Gray is the BT.601 luma of the sample.
	Gray float64

	// Hue is in degrees, approximately [0, 360).
	Hue float64

	// Saturation is delta/max, or 0 for black.
	Saturation float64

	// Max is the largest of the red, green and blue channels.
	Max float64

	// ByHue reports the hue/saturation test result.
	ByHue bool

	// ByChannel reports the direct-channel test result.
	ByChannel bool
}

// Yellow reports whether either yellow test fired.
func (cl Classification) Yellow() bool {
	return cl.ByHue || cl.ByChannel
}

// Luma returns the BT.601 perceptual intensity of c.
func Luma(c RGBA) float64 {
	return LumaR*c.R + LumaG*c.G + LumaB*c.B
}

// HueSaturation returns the hue in degrees, the saturation and the largest
// channel of c, using the branch structure of the fragment shader rather
// than a general HSV conversion.
func HueSaturation(c RGBA) (hue, sat, maxC float64) {
	maxC = math.Max(math.Max(c.R, c.G), c.B)
	minC := math.Min(math.Min(c.R, c.G), c.B)
	delta := maxC - minC

	if delta != 0 {
		switch maxC {
		case c.R:
			hue = floorMod((c.G-c.B)/delta, 6)
		case c.G:
			hue = (c.B-c.R)/delta + 2
		default:
			hue = (c.R-c.G)/delta + 4
		}
		hue *= 60
	}

	if maxC != 0 {
		sat = delta / maxC
	}
	return hue, sat, maxC
}

// floorMod is the GLSL mod(): x - y*floor(x/y). Unlike math.Mod the result
// takes the sign of y.
func floorMod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}

// Classify computes both yellow tests for c.
func Classify(c RGBA) Classification {
	hue, sat, maxC := HueSaturation(c)
	return Classification{
		Gray:       Luma(c),
		Hue:        hue,
		Saturation: sat,
		Max:        maxC,
		ByHue: hue >= HueMin && hue <= HueMax &&
			sat > MinSaturation && maxC > MinValue,
		ByChannel: c.R > ChannelMin && c.G > ChannelMin && c.B < ChannelMaxBlue &&
			c.R > c.B && c.G > c.B,
	}
}

// IsYellow reports whether c is kept by KeepYellow.
func IsYellow(c RGBA) bool {
	return Classify(c).Yellow()
}

// KeepYellow returns c unchanged when it classifies as yellow and its luma
// replicated across red, green and blue otherwise. Alpha is always
// preserved.
//
// KeepYellow is pure and safe for concurrent use.
func KeepYellow(c RGBA) RGBA {
	cl := Classify(c)
	if cl.Yellow() {
		return c
	}
	return RGBA{R: cl.Gray, G: cl.Gray, B: cl.Gray, A: c.A}
}

// Grayscale returns the luma of c replicated across red, green and blue,
// preserving alpha.
func Grayscale(c RGBA) RGBA {
	gray := Luma(c)
	return RGBA{R: gray, G: gray, B: gray, A: c.A}
}
