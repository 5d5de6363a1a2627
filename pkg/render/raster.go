package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/chewxy/math32"
)

var spriteCaches = map[Shape]*spriteCache{
	ShapeCircle: newSpriteCache(ShapeCircle),
	ShapeSquare: newSpriteCache(ShapeSquare),
	ShapeRing:   newSpriteCache(ShapeRing),
}

// shapeFill is the share of a sprite's square covered by the shape, used
// for points smaller than a sprite.
var shapeFill = map[Shape]float32{
	ShapeCircle: coverage(Sprite(ShapeCircle, spriteCanvas)),
	ShapeSquare: coverage(Sprite(ShapeSquare, spriteCanvas)),
	ShapeRing:   coverage(Sprite(ShapeRing, spriteCanvas)),
}

// Rasterize draws f through cam. Additive frames sum light; others blend
// over what is already drawn in particle order.
func Rasterize(f Frame, cam Camera, opts ...Option) *image.RGBA {
	s := newSettings(opts)
	w, h := max(cam.Width, 0), max(cam.Height, 0)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	acc := make([]float32, w*h*3)
	bg := [3]float32{float32(s.background.R) / 255, float32(s.background.G) / 255, float32(s.background.B) / 255}
	for i := 0; i < len(acc); i += 3 {
		acc[i], acc[i+1], acc[i+2] = bg[0], bg[1], bg[2]
	}

	shape := f.Shape
	if !ValidShapes[shape] {
		shape = ShapeCircle
	}
	sprites := spriteCaches[shape]
	fill := shapeFill[shape]

	blend := func(x, y int, c [3]float32, a float32) {
		if x < 0 || y < 0 || x >= w || y >= h || a <= 0 {
			return
		}
		k := (y*w + x) * 3
		for ch := 0; ch < 3; ch++ {
			if f.Additive {
				acc[k+ch] += c[ch] * a
			} else {
				acc[k+ch] += (c[ch] - acc[k+ch]) * a
			}
		}
	}

	for i := 0; i < f.Len(); i++ {
		px, py, depth, ok := cam.Project(f.Positions[i*3], f.Positions[i*3+1], f.Positions[i*3+2])
		if !ok {
			continue
		}
		c := [3]float32{f.Colors[i*3], f.Colors[i*3+1], f.Colors[i*3+2]}
		d := cam.PointSize(f.Size, depth)
		if d < minSpritePixels {
			blend(int(math32.Floor(px)), int(math32.Floor(py)), c, f.Opacity*min(1, d*d*fill))
			continue
		}
		n := int(math32.Floor(d + 0.5))
		mask := sprites.get(n)
		n = mask.Rect.Dx()
		x0 := int(math32.Floor(px - float32(n)/2))
		y0 := int(math32.Floor(py - float32(n)/2))
		for my := 0; my < n; my++ {
			row := mask.Pix[my*mask.Stride : my*mask.Stride+n]
			for mx, a := range row {
				if a != 0 {
					blend(x0+mx, y0+my, c, f.Opacity*float32(a)/255)
				}
			}
		}
	}

	for i, j := 0, 0; i < len(acc); i, j = i+3, j+4 {
		out.Pix[j] = to8(acc[i])
		out.Pix[j+1] = to8(acc[i+1])
		out.Pix[j+2] = to8(acc[i+2])
		out.Pix[j+3] = 255
	}
	return out
}

// RenderPNG rasterizes f and encodes it as PNG.
func RenderPNG(f Frame, cam Camera, opts ...Option) ([]byte, error) {
	img := Rasterize(f, cam, opts...)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
