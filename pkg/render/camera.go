package render

import (
	"github.com/chewxy/math32"

	"github.com/matzehuels/glyphdust/pkg/field"
)

// Camera defaults.
const (
	DefaultFOV = 50

	// IconDistance and ImageDistance place the camera on the z axis for
	// the two scenes.
	IconDistance  = 4
	ImageDistance = 5

	// near is the closest depth that is still drawn.
	near = 0.1
)

// Camera is a perspective camera on the positive z axis looking at the
// origin, with y up.
type Camera struct {
	Distance float32 // z position
	FOV      float32 // vertical field of view in degrees
	Width    int     // viewport width in pixels
	Height   int     // viewport height in pixels
}

// NewCamera returns a camera at distance with the default field of view.
func NewCamera(distance float32, width, height int) Camera {
	return Camera{Distance: distance, FOV: DefaultFOV, Width: width, Height: height}
}

// Aspect returns width / height.
func (c Camera) Aspect() float32 {
	if c.Height == 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

func (c Camera) tanHalf() float32 {
	a := c.FOV * math32.Pi / 360
	return math32.Sin(a) / math32.Cos(a)
}

// Viewport returns the visible world extent in the z = 0 plane.
func (c Camera) Viewport() (w, h float32) {
	h = 2 * c.Distance * c.tanHalf()
	return h * c.Aspect(), h
}

// Project maps a world point to pixel coordinates. depth is the distance
// from the camera along the view axis; ok is false behind the near plane.
func (c Camera) Project(x, y, z float32) (px, py, depth float32, ok bool) {
	depth = c.Distance - z
	if depth < near {
		return 0, 0, depth, false
	}
	halfH := depth * c.tanHalf()
	nx := x / (halfH * c.Aspect())
	ny := y / halfH
	px = (nx + 1) / 2 * float32(c.Width)
	py = (1 - ny) / 2 * float32(c.Height)
	return px, py, depth, true
}

// PointSize returns the on-screen diameter in pixels of a point of world
// size at depth, attenuated by distance.
func (c Camera) PointSize(size, depth float32) float32 {
	if depth <= 0 {
		return 0
	}
	return size * float32(c.Height) / 2 / depth
}

// Pointer converts a pixel position to a field pointer in the z = 0 plane.
func (c Camera) Pointer(px, py float32) field.Pointer {
	if c.Width == 0 || c.Height == 0 {
		return field.NoPointer
	}
	nx := px/float32(c.Width)*2 - 1
	ny := 1 - py/float32(c.Height)*2
	w, h := c.Viewport()
	return field.PointerFromNDC(nx, ny, w, h)
}
