package imageio

import (
	"image/color"
	"testing"

	"github.com/gogpu/colorkeep"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		sw, sh       int
		w, h         int
		wantW, wantH int
	}{
		{"downscale wide", 400, 200, 100, 100, 100, 50},
		{"downscale tall", 200, 400, 100, 100, 50, 100},
		{"upscale", 10, 20, 100, 100, 50, 100},
		{"exact", 64, 32, 64, 32, 64, 32},
		{"never below one pixel", 1000, 1, 10, 10, 10, 1},
		{"zero box", 30, 20, 0, 10, 30, 20},
		{"negative box", 30, 20, 10, -1, 30, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := colorkeep.NewPixmap(tt.sw, tt.sh)
			src.Clear(colorkeep.Yellow)

			got := Fit(src, tt.w, tt.h)
			if got.Width() != tt.wantW || got.Height() != tt.wantH {
				t.Fatalf("Fit() size = %dx%d, want %dx%d", got.Width(), got.Height(), tt.wantW, tt.wantH)
			}
			if got == src {
				t.Error("Fit() must return a new pixmap")
			}
			c := got.At(got.Width()/2, got.Height()/2).(color.NRGBA)
			if c.R < 250 || c.G < 250 || c.B > 5 || c.A != 255 {
				t.Errorf("center = %v, want yellow", c)
			}
		})
	}
}

func TestFitEmpty(t *testing.T) {
	got := Fit(colorkeep.NewPixmap(0, 0), 10, 10)
	if got.Width() != 0 || got.Height() != 0 {
		t.Errorf("Fit(empty) size = %dx%d, want 0x0", got.Width(), got.Height())
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in     string
		w, h   int
		wantOK bool
	}{
		{"640x480", 640, 480, true},
		{"10X20", 10, 20, true},
		{"x480", 0, 0, false},
		{"640x", 0, 0, false},
		{"640", 0, 0, false},
		{"0x10", 0, 0, false},
		{"axb", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := ParseSize(tt.in)
		if ok != tt.wantOK || w != tt.w || h != tt.h {
			t.Errorf("ParseSize(%q) = %d, %d, %v; want %d, %d, %v", tt.in, w, h, ok, tt.w, tt.h, tt.wantOK)
		}
	}
}
