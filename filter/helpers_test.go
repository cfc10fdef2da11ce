package filter

import (
	"image/color"
	"testing"

	"github.com/gogpu/colorkeep"
)

// Test helper functions shared across filter tests.

// createTestPixmap creates a pixmap filled with the given color.
func createTestPixmap(w, h int, c colorkeep.RGBA) *colorkeep.Pixmap {
	p := colorkeep.NewPixmap(w, h)
	p.Clear(c)
	return p
}

// fillBytes fills p with one straight-alpha RGBA8 value.
func fillBytes(p *colorkeep.Pixmap, c color.NRGBA) {
	data := p.Data()
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = c.R, c.G, c.B, c.A
	}
}

// pixelAt returns the raw bytes of one pixel.
func pixelAt(t *testing.T, p *colorkeep.Pixmap, x, y int) color.NRGBA {
	t.Helper()
	c, ok := p.At(x, y).(color.NRGBA)
	if !ok {
		t.Fatalf("At(%d, %d) returned %T", x, y, p.At(x, y))
	}
	return c
}

// byteNear reports whether a and b differ by at most tol.
func byteNear(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

// nrgbaNear compares two colors channel by channel with a tolerance.
func nrgbaNear(a, b color.NRGBA, tol int) bool {
	return byteNear(a.R, b.R, tol) && byteNear(a.G, b.G, tol) &&
		byteNear(a.B, b.B, tol) && byteNear(a.A, b.A, tol)
}

// stubAccelerator records calls and applies fn to the target.
type stubAccelerator struct {
	ops   colorkeep.AcceleratedOp
	fn    func(colorkeep.GPURenderTarget) error
	calls int
}

func (s *stubAccelerator) Name() string { return "stub" }
func (s *stubAccelerator) Init() error  { return nil }
func (s *stubAccelerator) Close()       {}

func (s *stubAccelerator) CanAccelerate(op colorkeep.AcceleratedOp) bool {
	return s.ops&op != 0
}

func (s *stubAccelerator) Recolor(target colorkeep.GPURenderTarget, _ colorkeep.AcceleratedOp) error {
	s.calls++
	return s.fn(target)
}

// withAccelerator registers a for the duration of the test.
func withAccelerator(t *testing.T, a colorkeep.GPUAccelerator) {
	t.Helper()
	if err := colorkeep.RegisterAccelerator(a); err != nil {
		t.Fatalf("RegisterAccelerator() = %v", err)
	}
	t.Cleanup(colorkeep.UnregisterAccelerator)
}
