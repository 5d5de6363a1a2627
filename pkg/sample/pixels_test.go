package sample

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 350, 100, 50},
		{350, 350, 350, 350, 350},
		{700, 350, 350, 350, 175},
		{350, 700, 350, 175, 350},
		{1000, 333, 350, 350, 117},
		{800, 800, 350, 350, 350},
		{1000, 1, 350, 350, 1},
		{10, 10, 0, 10, 10},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitSize(%d, %d, %d) = %d, %d, want %d, %d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestPixelsPositions(t *testing.T) {
	img := solid(4, 2, color.NRGBA{255, 255, 255, 255})
	buf := Pixels(img, DefaultPixelOptions())
	if buf.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", buf.Len())
	}
	want := [][3]float32{
		{-0.04, 0.02, 0}, {-0.02, 0.02, 0}, {0, 0.02, 0}, {0.02, 0.02, 0},
		{-0.04, 0, 0}, {-0.02, 0, 0}, {0, 0, 0}, {0.02, 0, 0},
	}
	for i, w := range want {
		got := [3]float32{buf.Positions[i*3], buf.Positions[i*3+1], buf.Positions[i*3+2]}
		for k := range got {
			if !near(got[k], w[k]) {
				t.Errorf("particle %d = %v, want %v", i, got, w)
				break
			}
		}
	}
}

func TestPixelsThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 20})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 21})
	img.SetNRGBA(2, 0, color.NRGBA{0, 0, 255, 0})

	buf := Pixels(img, DefaultPixelOptions())
	if buf.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", buf.Len())
	}
	if buf.Colors[0] != 0 || buf.Colors[1] != 1 || buf.Colors[2] != 0 {
		t.Errorf("Colors = %v, want [0 1 0]", buf.Colors)
	}
	if !near(buf.Positions[0], -0.01) {
		t.Errorf("x = %v, want -0.01", buf.Positions[0])
	}
}

func TestPixelsTransparent(t *testing.T) {
	buf := Pixels(solid(5, 5, color.NRGBA{}), DefaultPixelOptions())
	if buf.Len() != 0 || !buf.Valid() {
		t.Errorf("Len() = %d, Valid() = %v, want empty valid buffer", buf.Len(), buf.Valid())
	}
}

func TestPixelsDownsample(t *testing.T) {
	opts := DefaultPixelOptions()
	opts.MaxDimension = 20
	buf := Pixels(solid(80, 40, color.NRGBA{10, 20, 30, 255}), opts)
	if buf.Len() != 20*10 {
		t.Fatalf("Len() = %d, want 200", buf.Len())
	}
	lo, hi := buf.Bounds()
	if !near(lo[0], -0.2) || !near(hi[0], 0.18) {
		t.Errorf("x range = [%v, %v], want [-0.2, 0.18]", lo[0], hi[0])
	}
}

func TestPixelsSubImage(t *testing.T) {
	img := solid(10, 10, color.NRGBA{255, 255, 255, 255})
	sub := img.SubImage(image.Rect(5, 5, 7, 6))
	buf := Pixels(sub, DefaultPixelOptions())
	if buf.Len() != 2 {
		t.Errorf("Len() = %d, want 2", buf.Len())
	}
}
