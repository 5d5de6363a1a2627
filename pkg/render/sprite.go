package render

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/vector"
)

// Shape is the sprite drawn for each particle.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
	ShapeRing   Shape = "ring"
)

// ValidShapes is the set of supported particle shapes.
var ValidShapes = map[Shape]bool{
	ShapeCircle: true,
	ShapeSquare: true,
	ShapeRing:   true,
}

// ParseShape validates a shape name. The empty string selects circle.
func ParseShape(s string) (Shape, error) {
	if s == "" {
		return ShapeCircle, nil
	}
	if !ValidShapes[Shape(s)] {
		return "", fmt.Errorf("invalid shape: %q (must be one of: circle, square, ring)", s)
	}
	return Shape(s), nil
}

// Sprite geometry on a 32-unit canvas.
const (
	spriteCanvas    = 32
	circleRadius    = 14
	ringRadius      = 12
	ringWidth       = 4
	squareInset     = 2
	kappa           = 0.5522847498
	minSpritePixels = 2
	maxSpritePixels = 128
)

// Sprite rasterizes shape into a px by px coverage mask.
func Sprite(shape Shape, px int) *image.Alpha {
	px = max(1, min(px, maxSpritePixels))
	s := float32(px) / spriteCanvas
	r := vector.NewRasterizer(px, px)
	switch shape {
	case ShapeSquare:
		lo, hi := squareInset*s, (spriteCanvas-squareInset)*s
		r.MoveTo(lo, lo)
		r.LineTo(hi, lo)
		r.LineTo(hi, hi)
		r.LineTo(lo, hi)
		r.ClosePath()
	case ShapeRing:
		c := spriteCanvas / 2 * s
		circle(r, c, c, (ringRadius+ringWidth/2)*s, false)
		circle(r, c, c, (ringRadius-ringWidth/2)*s, true)
	default:
		c := spriteCanvas / 2 * s
		circle(r, c, c, circleRadius*s, false)
	}
	dst := image.NewAlpha(image.Rect(0, 0, px, px))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// circle appends a closed circle of four cubic arcs. Reversed circles cut
// holes into enclosing ones.
func circle(r *vector.Rasterizer, cx, cy, rad float32, reverse bool) {
	k := rad * kappa
	dir := float32(1)
	if reverse {
		dir = -1
	}
	r.MoveTo(cx+rad, cy)
	r.CubeTo(cx+rad, cy+dir*k, cx+k, cy+dir*rad, cx, cy+dir*rad)
	r.CubeTo(cx-k, cy+dir*rad, cx-rad, cy+dir*k, cx-rad, cy)
	r.CubeTo(cx-rad, cy-dir*k, cx-k, cy-dir*rad, cx, cy-dir*rad)
	r.CubeTo(cx+k, cy-dir*rad, cx+rad, cy-dir*k, cx+rad, cy)
	r.ClosePath()
}

// spriteCache memoizes masks by shape and pixel size.
type spriteCache struct {
	mu    sync.Mutex
	shape Shape
	masks map[int]*image.Alpha
}

func newSpriteCache(shape Shape) *spriteCache {
	return &spriteCache{shape: shape, masks: make(map[int]*image.Alpha)}
}

func (c *spriteCache) get(px int) *image.Alpha {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.masks[px]
	if !ok {
		m = Sprite(c.shape, px)
		c.masks[px] = m
	}
	return m
}

// coverage returns the mean alpha of a mask in [0, 1].
func coverage(m *image.Alpha) float32 {
	var sum int
	for _, a := range m.Pix {
		sum += int(a)
	}
	return float32(sum) / float32(len(m.Pix)*255)
}
