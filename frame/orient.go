package frame

import (
	"errors"

	"github.com/gogpu/colorkeep"
)

// ErrInvalidRotation is returned for rotations other than 0, 90, 180 or 270
// degrees.
var ErrInvalidRotation = errors.New("frame: rotation must be 0, 90, 180 or 270")

func normalizeRotation(degrees int) (int, error) {
	d := ((degrees % 360) + 360) % 360
	switch d {
	case 0, 90, 180, 270:
		return d, nil
	}
	return 0, ErrInvalidRotation
}

// Rotate returns a copy of pm rotated clockwise by degrees. Negative and
// multi-turn values are normalized, so -90 equals 270.
func Rotate(pm *colorkeep.Pixmap, degrees int) (*colorkeep.Pixmap, error) {
	d, err := normalizeRotation(degrees)
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return pm.Clone(), nil
	}

	w, h := pm.Width(), pm.Height()
	dw, dh := w, h
	if d != 180 {
		dw, dh = h, w
	}
	out := colorkeep.NewPixmap(dw, dh)
	src, dst := pm.Data(), out.Data()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var nx, ny int
			switch d {
			case 90:
				nx, ny = h-1-y, x
			case 180:
				nx, ny = w-1-x, h-1-y
			case 270:
				nx, ny = y, w-1-x
			}
			s := (y*w + x) * 4
			t := (ny*dw + nx) * 4
			copy(dst[t:t+4], src[s:s+4])
		}
	}
	return out, nil
}

// Mirror returns a copy of pm flipped horizontally.
func Mirror(pm *colorkeep.Pixmap) *colorkeep.Pixmap {
	w, h := pm.Width(), pm.Height()
	out := colorkeep.NewPixmap(w, h)
	src, dst := pm.Data(), out.Data()
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			s := row + x*4
			t := row + (w-1-x)*4
			copy(dst[t:t+4], src[s:s+4])
		}
	}
	return out
}
