package frame

import (
	"errors"
	"testing"

	"github.com/gogpu/colorkeep"
)

// numbered returns a w x h pixmap whose red channel holds the pixel index.
func numbered(w, h int) *colorkeep.Pixmap {
	pm := colorkeep.NewPixmap(w, h)
	d := pm.Data()
	for i := 0; i < w*h; i++ {
		d[i*4] = uint8(i)
		d[i*4+3] = 255
	}
	return pm
}

func redGrid(pm *colorkeep.Pixmap) [][]uint8 {
	rows := make([][]uint8, pm.Height())
	d := pm.Data()
	for y := range rows {
		rows[y] = make([]uint8, pm.Width())
		for x := range rows[y] {
			rows[y][x] = d[(y*pm.Width()+x)*4]
		}
	}
	return rows
}

func TestRotate(t *testing.T) {
	// 0 1 2
	// 3 4 5
	tests := []struct {
		degrees int
		want    [][]uint8
	}{
		{0, [][]uint8{{0, 1, 2}, {3, 4, 5}}},
		{90, [][]uint8{{3, 0}, {4, 1}, {5, 2}}},
		{180, [][]uint8{{5, 4, 3}, {2, 1, 0}}},
		{270, [][]uint8{{2, 5}, {1, 4}, {0, 3}}},
		{-90, [][]uint8{{2, 5}, {1, 4}, {0, 3}}},
		{450, [][]uint8{{3, 0}, {4, 1}, {5, 2}}},
	}
	for _, tt := range tests {
		src := numbered(3, 2)
		got, err := Rotate(src, tt.degrees)
		if err != nil {
			t.Fatalf("Rotate(%d) = %v", tt.degrees, err)
		}
		g := redGrid(got)
		if len(g) != len(tt.want) || len(g[0]) != len(tt.want[0]) {
			t.Fatalf("Rotate(%d) size = %dx%d", tt.degrees, got.Width(), got.Height())
		}
		for y := range g {
			for x := range g[y] {
				if g[y][x] != tt.want[y][x] {
					t.Errorf("Rotate(%d) = %v, want %v", tt.degrees, g, tt.want)
					break
				}
			}
		}
		if got == src {
			t.Errorf("Rotate(%d) returned its input", tt.degrees)
		}
	}
}

func TestRotateInvalid(t *testing.T) {
	for _, d := range []int{45, 1, -30, 91} {
		if _, err := Rotate(numbered(2, 2), d); !errors.Is(err, ErrInvalidRotation) {
			t.Errorf("Rotate(%d) = %v, want ErrInvalidRotation", d, err)
		}
	}
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	src := numbered(5, 3)
	pm := src
	for i := 0; i < 4; i++ {
		var err error
		if pm, err = Rotate(pm, 90); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range src.Data() {
		if pm.Data()[i] != v {
			t.Fatalf("four quarter turns changed byte %d: %d != %d", i, pm.Data()[i], v)
		}
	}
}

func TestMirror(t *testing.T) {
	got := redGrid(Mirror(numbered(3, 2)))
	want := [][]uint8{{2, 1, 0}, {5, 4, 3}}
	for y := range want {
		for x := range want[y] {
			if got[y][x] != want[y][x] {
				t.Fatalf("Mirror() = %v, want %v", got, want)
			}
		}
	}

	twice := Mirror(Mirror(numbered(3, 2)))
	for i, v := range numbered(3, 2).Data() {
		if twice.Data()[i] != v {
			t.Fatal("mirroring twice should restore the image")
		}
	}
}
