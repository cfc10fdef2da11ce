package filter

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gogpu/colorkeep"
	icolor "github.com/gogpu/colorkeep/internal/color"
)

func TestYellowKeepApply(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		want color.NRGBA
	}{
		{"yellow kept", color.NRGBA{255, 255, 0, 255}, color.NRGBA{255, 255, 0, 255}},
		{"muted yellow kept", color.NRGBA{128, 128, 25, 255}, color.NRGBA{128, 128, 25, 255}},
		{"orange kept by channel test", color.NRGBA{230, 115, 25, 255}, color.NRGBA{230, 115, 25, 255}},
		{"blue grayed", color.NRGBA{0, 0, 255, 255}, color.NRGBA{29, 29, 29, 255}},
		{"red grayed", color.NRGBA{255, 0, 0, 255}, color.NRGBA{76, 76, 76, 255}},
		{"black stays black", color.NRGBA{0, 0, 0, 255}, color.NRGBA{0, 0, 0, 255}},
		{"white stays white", color.NRGBA{255, 255, 255, 255}, color.NRGBA{255, 255, 255, 255}},
		{"alpha preserved on gray", color.NRGBA{0, 0, 255, 77}, color.NRGBA{29, 29, 29, 77}},
		{"alpha preserved on keep", color.NRGBA{255, 255, 0, 3}, color.NRGBA{255, 255, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := colorkeep.NewPixmap(3, 3)
			dst := colorkeep.NewPixmap(3, 3)
			fillBytes(src, tt.in)

			f := &YellowKeep{}
			f.Apply(src, dst, src.Bounds())

			for y := 0; y < 3; y++ {
				for x := 0; x < 3; x++ {
					if got := pixelAt(t, dst, x, y); got != tt.want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, tt.want)
					}
				}
			}
			if got := pixelAt(t, src, 1, 1); got != tt.in {
				t.Errorf("source modified: %v, want %v", got, tt.in)
			}
		})
	}
}

func TestYellowKeepMatchesKernel(t *testing.T) {
	src := colorkeep.NewPixmap(16, 16)
	data := src.Data()
	for i := 0; i < len(data); i += 4 {
		n := i / 4
		data[i+0] = uint8(n * 37)
		data[i+1] = uint8(n * 91)
		data[i+2] = uint8(n * 13)
		data[i+3] = uint8(255 - n)
	}
	dst := colorkeep.NewPixmap(16, 16)
	(&YellowKeep{}).Apply(src, dst, src.Bounds())

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			in := colorkeep.FromColor(src.At(x, y))
			want := colorkeep.KeepYellow(in).Color().(color.NRGBA)
			if got := pixelAt(t, dst, x, y); !nrgbaNear(got, want, 1) {
				t.Fatalf("pixel (%d,%d) from %v = %v, want %v", x, y, src.At(x, y), got, want)
			}
		}
	}
}

func TestYellowKeepInPlace(t *testing.T) {
	p := colorkeep.NewPixmap(4, 4)
	fillBytes(p, color.NRGBA{0, 0, 255, 255})
	p.SetPixel(0, 0, colorkeep.Yellow)

	(&YellowKeep{}).Apply(p, p, p.Bounds())

	if got := pixelAt(t, p, 0, 0); got != (color.NRGBA{255, 255, 0, 255}) {
		t.Errorf("yellow pixel = %v", got)
	}
	if got := pixelAt(t, p, 3, 3); got != (color.NRGBA{29, 29, 29, 255}) {
		t.Errorf("blue pixel = %v", got)
	}
}

func TestYellowKeepBounds(t *testing.T) {
	src := colorkeep.NewPixmap(10, 10)
	fillBytes(src, color.NRGBA{0, 0, 255, 255})
	dst := colorkeep.NewPixmap(10, 10)
	fillBytes(dst, color.NRGBA{1, 2, 3, 4})

	(&YellowKeep{}).Apply(src, dst, image.Rect(2, 3, 5, 7))

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := image.Pt(x, y).In(image.Rect(2, 3, 5, 7))
			want := color.NRGBA{1, 2, 3, 4}
			if inside {
				want = color.NRGBA{29, 29, 29, 255}
			}
			if got := pixelAt(t, dst, x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestYellowKeepDegenerateInputs(t *testing.T) {
	f := &YellowKeep{}
	p := createTestPixmap(4, 4, colorkeep.Blue)

	// None of these may panic.
	f.Apply(nil, p, p.Bounds())
	f.Apply(p, nil, p.Bounds())
	f.Apply(p, p, image.Rect(10, 10, 20, 20))
	f.Apply(p, p, image.Rectangle{})

	if got := pixelAt(t, p, 0, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel changed to %v", got)
	}

	empty := colorkeep.NewPixmap(0, 0)
	f.Apply(empty, empty, image.Rect(0, 0, 100, 100))
}

func TestYellowKeepLargeImageUsesBands(t *testing.T) {
	src := createTestPixmap(64, 300, colorkeep.Blue)
	src.SetPixel(10, 299, colorkeep.Yellow)
	dst := colorkeep.NewPixmap(64, 300)

	(&YellowKeep{}).Apply(src, dst, src.Bounds())

	kept, total := (&YellowKeep{}).Coverage(dst, dst.Bounds())
	if kept != 1 || total != 64*300 {
		t.Errorf("Coverage() = %d/%d, want 1/%d", kept, total, 64*300)
	}
}

func TestYellowKeepLinear(t *testing.T) {
	// Light warm gray: kept by the channel test on encoded values, but too
	// dark for either test once decoded to linear light.
	in := color.NRGBA{105, 105, 74, 255}

	src := colorkeep.NewPixmap(1, 1)
	fillBytes(src, in)

	srgb := colorkeep.NewPixmap(1, 1)
	(&YellowKeep{}).Apply(src, srgb, src.Bounds())
	if got := pixelAt(t, srgb, 0, 0); got != in {
		t.Errorf("SRGB result = %v, want %v (kept)", got, in)
	}

	lin := colorkeep.NewPixmap(1, 1)
	(&YellowKeep{ColorSpace: Linear}).Apply(src, lin, src.Bounds())
	got := pixelAt(t, lin, 0, 0)
	if got.R != got.G || got.G != got.B {
		t.Fatalf("Linear result = %v, want gray", got)
	}

	gray := colorkeep.LumaR*float64(icolor.SRGBToLinearFast(105)) +
		colorkeep.LumaG*float64(icolor.SRGBToLinearFast(105)) +
		colorkeep.LumaB*float64(icolor.SRGBToLinearFast(74))
	if want := icolor.LinearToSRGBFast(float32(gray)); got.R != want {
		t.Errorf("Linear gray = %d, want %d", got.R, want)
	}
}

func TestYellowKeepLinearKeepsBytesExact(t *testing.T) {
	in := color.NRGBA{240, 220, 10, 200}
	src := colorkeep.NewPixmap(2, 2)
	fillBytes(src, in)
	dst := colorkeep.NewPixmap(2, 2)

	(&YellowKeep{ColorSpace: Linear}).Apply(src, dst, src.Bounds())
	if got := pixelAt(t, dst, 1, 1); got != in {
		t.Errorf("kept pixel = %v, want %v", got, in)
	}
}

func TestCoverage(t *testing.T) {
	p := createTestPixmap(10, 10, colorkeep.Blue)
	for x := 0; x < 10; x++ {
		p.SetPixel(x, 0, colorkeep.Yellow)
		p.SetPixel(x, 9, colorkeep.RGB(0.5, 0.5, 0.1))
	}

	f := &YellowKeep{}
	tests := []struct {
		name      string
		bounds    image.Rectangle
		kept, all int
	}{
		{"whole image", p.Bounds(), 20, 100},
		{"first row", image.Rect(0, 0, 10, 1), 10, 10},
		{"interior", image.Rect(1, 1, 9, 9), 0, 64},
		{"clipped", image.Rect(-5, 8, 100, 100), 10, 20},
		{"outside", image.Rect(20, 20, 30, 30), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, total := f.Coverage(p, tt.bounds)
			if kept != tt.kept || total != tt.all {
				t.Errorf("Coverage() = %d/%d, want %d/%d", kept, total, tt.kept, tt.all)
			}
		})
	}

	if kept, total := f.Coverage(nil, p.Bounds()); kept != 0 || total != 0 {
		t.Errorf("Coverage(nil) = %d/%d, want 0/0", kept, total)
	}
}

func TestYellowKeepFragmentShader(t *testing.T) {
	src := (&YellowKeep{}).FragmentShader()
	for _, want := range []string{
		"#extension GL_OES_EGL_image_external : require",
		"uniform samplerExternalOES sTexture;",
		"varying vec2 " + DefaultFragmentTextureCoordinateName + ";",
		"vec3(0.299, 0.587, 0.114)",
		"mod((color.g - color.b) / delta, 6.0)",
		"hue >= 45.0 && hue <= 75.0 && sat > 0.3 && maxC > 0.2",
		"vec4(gray, gray, gray, color.a)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("fragment shader missing %q", want)
		}
	}
}

// =============================================================================
// GPU dispatch
// =============================================================================

func TestYellowKeepUsesAccelerator(t *testing.T) {
	stub := &stubAccelerator{
		ops: colorkeep.AccelKeepYellow,
		fn: func(target colorkeep.GPURenderTarget) error {
			for i := range target.Data {
				target.Data[i] = 7
			}
			return nil
		},
	}
	withAccelerator(t, stub)

	src := createTestPixmap(4, 4, colorkeep.Blue)
	dst := colorkeep.NewPixmap(4, 4)
	(&YellowKeep{}).Apply(src, dst, src.Bounds())

	if stub.calls != 1 {
		t.Fatalf("Recolor calls = %d, want 1", stub.calls)
	}
	if got := pixelAt(t, dst, 2, 2); got != (color.NRGBA{7, 7, 7, 7}) {
		t.Errorf("dst = %v, want accelerator output", got)
	}
	if got := pixelAt(t, src, 2, 2); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("src modified to %v", got)
	}
}

func TestYellowKeepSkipsAccelerator(t *testing.T) {
	stub := &stubAccelerator{
		ops: colorkeep.AccelKeepYellow,
		fn:  func(colorkeep.GPURenderTarget) error { return nil },
	}
	withAccelerator(t, stub)

	src := createTestPixmap(4, 4, colorkeep.Blue)

	tests := []struct {
		name   string
		f      *YellowKeep
		dst    *colorkeep.Pixmap
		bounds image.Rectangle
	}{
		{"disabled", &YellowKeep{DisableGPU: true}, colorkeep.NewPixmap(4, 4), src.Bounds()},
		{"linear", &YellowKeep{ColorSpace: Linear}, colorkeep.NewPixmap(4, 4), src.Bounds()},
		{"partial bounds", &YellowKeep{}, colorkeep.NewPixmap(4, 4), image.Rect(0, 0, 2, 2)},
		{"size mismatch", &YellowKeep{}, colorkeep.NewPixmap(8, 8), src.Bounds()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub.calls = 0
			tt.f.Apply(src, tt.dst, tt.bounds)
			if stub.calls != 0 {
				t.Errorf("Recolor called %d times, want 0", stub.calls)
			}
			if got := pixelAt(t, tt.dst, 0, 0); !byteNear(got.R, 29, 1) {
				t.Errorf("CPU result = %v, want gray", got)
			}
		})
	}
}

func TestYellowKeepAcceleratorFailureFallsBack(t *testing.T) {
	stub := &stubAccelerator{
		ops: colorkeep.AccelKeepYellow,
		fn: func(target colorkeep.GPURenderTarget) error {
			target.Data[0] = 99 // partial write before failing
			return errors.New("device lost")
		},
	}
	withAccelerator(t, stub)

	p := createTestPixmap(4, 4, colorkeep.Blue)
	p.SetPixel(0, 0, colorkeep.Yellow)
	(&YellowKeep{}).Apply(p, p, p.Bounds())

	if stub.calls != 1 {
		t.Fatalf("Recolor calls = %d, want 1", stub.calls)
	}
	if got := pixelAt(t, p, 0, 0); got != (color.NRGBA{255, 255, 0, 255}) {
		t.Errorf("yellow pixel = %v, want unchanged", got)
	}
	if got := pixelAt(t, p, 1, 1); got != (color.NRGBA{29, 29, 29, 255}) {
		t.Errorf("blue pixel = %v, want CPU gray", got)
	}
}

func BenchmarkYellowKeep1080p(b *testing.B) {
	src := createTestPixmap(1920, 1080, colorkeep.RGB(0.6, 0.5, 0.2))
	dst := colorkeep.NewPixmap(1920, 1080)
	f := &YellowKeep{DisableGPU: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Apply(src, dst, src.Bounds())
	}
}
