package sample

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/matzehuels/glyphdust/pkg/field"
)

// Image sampling defaults.
const (
	DefaultMaxDimension   = 350
	DefaultAlphaThreshold = 20
	DefaultPixelScale     = 0.02
)

// PixelOptions configures Pixels.
type PixelOptions struct {
	// MaxDimension caps the longer side; larger images are downsampled
	// preserving aspect ratio.
	MaxDimension int

	// AlphaThreshold is the exclusive minimum alpha for a pixel to become
	// a particle.
	AlphaThreshold uint8

	// Scale converts pixels to world units.
	Scale float64

	Tone Tone
}

// DefaultPixelOptions returns the options used by the image pipeline.
func DefaultPixelOptions() PixelOptions {
	return PixelOptions{
		MaxDimension:   DefaultMaxDimension,
		AlphaThreshold: DefaultAlphaThreshold,
		Scale:          DefaultPixelScale,
	}
}

// FitSize returns the sampled size of a w by h image: unchanged when both
// sides fit within max, otherwise the longer side becomes max and the
// other is rounded to keep the aspect ratio.
func FitSize(w, h, max int) (int, int) {
	if max <= 0 || (w <= max && h <= max) || w <= 0 || h <= 0 {
		return w, h
	}
	aspect := float64(w) / float64(h)
	if w > h {
		return max, atLeastOne(math.Round(float64(max) / aspect))
	}
	return atLeastOne(math.Round(float64(max) * aspect)), max
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Downsample returns img resized to fit within max as non-premultiplied
// RGBA. The image is copied even when no resize is needed.
func Downsample(img image.Image, max int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), max)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Pixels emits one particle per visible pixel, scanning rows top to bottom.
// Particles are centered on the image, y points up and z is zero.
func Pixels(img image.Image, opts PixelOptions) field.Buffer {
	src := Downsample(img, opts.MaxDimension)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	n := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] > opts.AlphaThreshold {
				n++
			}
		}
	}

	buf := field.NewBuffer(n)
	halfW, halfH := float64(w)/2, float64(h)/2
	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			if px[3] <= opts.AlphaThreshold {
				continue
			}
			buf.Positions[i*3] = float32((float64(x) - halfW) * opts.Scale)
			buf.Positions[i*3+1] = float32(-(float64(y) - halfH) * opts.Scale)
			r, g, b := opts.Tone.Apply(px[0], px[1], px[2])
			buf.Colors[i*3], buf.Colors[i*3+1], buf.Colors[i*3+2] = r, g, b
			i++
		}
	}
	return buf
}
