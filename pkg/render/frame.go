package render

import (
	"image/color"

	"github.com/matzehuels/glyphdust/pkg/field"
)

// Scene defaults.
const (
	// DefaultIconSize and DefaultImageSize are point diameters in world
	// units for the two scenes.
	DefaultIconSize  = 0.012
	DefaultImageSize = 0.02

	DefaultOpacity = 0.85
)

// Background is the default clear color.
var Background = color.NRGBA{R: 5, G: 5, B: 5, A: 255}

// Frame is one snapshot of a particle cloud, ready to draw. Positions and
// Colors hold three floats per particle and are only read.
type Frame struct {
	Positions []float32
	Colors    []float32
	Shape     Shape
	Size      float32
	Opacity   float32
	Additive  bool
}

// IconFrame returns the frame used for icon scenes: small additive
// circles.
func IconFrame(positions, colors []float32) Frame {
	return Frame{
		Positions: positions,
		Colors:    colors,
		Shape:     ShapeCircle,
		Size:      DefaultIconSize,
		Opacity:   DefaultOpacity,
		Additive:  true,
	}
}

// ImageFrame returns the frame used for image scenes.
func ImageFrame(positions, colors []float32, shape Shape, size float32) Frame {
	if shape == "" {
		shape = ShapeCircle
	}
	if size <= 0 {
		size = DefaultImageSize
	}
	return Frame{
		Positions: positions,
		Colors:    colors,
		Shape:     shape,
		Size:      size,
		Opacity:   DefaultOpacity,
		Additive:  true,
	}
}

// FieldFrame snapshots the display state of f into a frame with the given
// style. It must not run concurrently with Tick.
func FieldFrame(f *field.Field, style Frame) Frame {
	style.Positions = f.Positions()
	style.Colors = f.Colors()
	return style
}

// Len returns the number of particles.
func (f Frame) Len() int {
	n := len(f.Positions) / 3
	if c := len(f.Colors) / 3; c < n {
		n = c
	}
	return n
}

// Option configures the renderers.
type Option func(*settings)

type settings struct {
	background color.NRGBA
	colored    bool
}

func newSettings(opts []Option) settings {
	s := settings{background: Background, colored: true}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithBackground sets the clear color.
func WithBackground(c color.Color) Option {
	return func(s *settings) { s.background = color.NRGBAModel.Convert(c).(color.NRGBA) }
}

// WithMonochrome drops colors from terminal output.
func WithMonochrome() Option {
	return func(s *settings) { s.colored = false }
}

func unit(v float32) float32 {
	return max(0, min(1, v))
}

func to8(v float32) uint8 {
	return uint8(unit(v)*255 + 0.5)
}
