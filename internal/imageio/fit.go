package imageio

import (
	"image"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/colorkeep"
)

// Fit scales pm to the largest size that fits in a w x h box while keeping
// its aspect ratio, using Catmull-Rom resampling. A non-positive box or an
// empty pixmap yields an unscaled clone.
func Fit(pm *colorkeep.Pixmap, w, h int) *colorkeep.Pixmap {
	sw, sh := pm.Width(), pm.Height()
	if w <= 0 || h <= 0 || sw == 0 || sh == 0 {
		return pm.Clone()
	}

	scale := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
	dw := max(int(math.Round(float64(sw)*scale)), 1)
	dh := max(int(math.Round(float64(sh)*scale)), 1)
	if dw == sw && dh == sh {
		return pm.Clone()
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Rect, pm, pm.Bounds(), xdraw.Src, nil)
	return colorkeep.FromImage(dst)
}

// ParseSize parses a "WxH" box such as "640x480".
func ParseSize(s string) (w, h int, ok bool) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, false
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
