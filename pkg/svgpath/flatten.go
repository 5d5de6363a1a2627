package svgpath

import (
	"math"

	"honnef.co/go/curve"

	"github.com/matzehuels/glyphdust/pkg/geom"
)

const (
	// DefaultCurveSamples is the number of parametric steps per Bézier curve.
	DefaultCurveSamples = 8

	// DefaultArcSamples is the number of parametric steps per elliptical arc.
	DefaultArcSamples = 16

	// DefaultTolerance is the maximum deviation, in source units, allowed
	// by adaptive flattening in exact mode.
	DefaultTolerance = 0.05
)

// Options controls how curves are turned into points.
type Options struct {
	// CurveSamples is the number of steps used for cubic and quadratic
	// curves in the default mode. Zero means DefaultCurveSamples.
	CurveSamples int

	// ArcSamples is the number of steps used for arcs in the default mode.
	// Zero means DefaultArcSamples.
	ArcSamples int

	// Exact enables true smooth-curve reflection, true elliptical arcs and
	// adaptive flattening.
	Exact bool

	// Tolerance bounds the flattening error in exact mode. Zero means
	// DefaultTolerance.
	Tolerance float64
}

func (o Options) withDefaults() Options {
	if o.CurveSamples <= 0 {
		o.CurveSamples = DefaultCurveSamples
	}
	if o.ArcSamples <= 0 {
		o.ArcSamples = DefaultArcSamples
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// FlattenString parses d and flattens it. Malformed data yields the
// subpaths drawn before the error.
func FlattenString(d string, opts Options) []geom.Subpath {
	cmds, _ := Parse(d)
	return Flatten(cmds, opts)
}

// Flatten converts absolute commands into subpaths.
func Flatten(cmds []Command, opts Options) []geom.Subpath {
	opts = opts.withDefaults()
	var acc flattener
	for _, cmd := range cmds {
		acc.step(cmd, opts)
	}
	acc.finalize()
	return acc.out
}

// flattener accumulates finished subpaths and the one being drawn.
type flattener struct {
	out  []geom.Subpath
	open geom.Subpath
}

func (f *flattener) push(pts ...geom.Point) {
	for _, p := range pts {
		if p.Finite() {
			f.open = append(f.open, p)
		}
	}
}

func (f *flattener) finalize() {
	if len(f.open) > 0 {
		f.out = append(f.out, f.open)
		f.open = nil
	}
}

func (f *flattener) step(cmd Command, opts Options) {
	switch cmd.Kind {
	case MoveTo:
		f.finalize()
		f.push(cmd.To)
	case Close:
		if len(f.open) > 0 {
			f.open = append(f.open, f.open[0])
			f.finalize()
		}
	default:
		// Drawing without a preceding move continues from the current
		// point, as after a close.
		if len(f.open) == 0 {
			f.push(cmd.From)
		}
		if opts.Exact {
			f.push(exactPoints(cmd, opts.Tolerance)...)
		} else {
			f.push(approxPoints(cmd, opts)...)
		}
	}
}

// approxPoints samples cmd at a fixed resolution.
func approxPoints(cmd Command, opts Options) []geom.Point {
	switch cmd.Kind {
	case CubicTo:
		return sampleCubic(cmd.From, cmd.C1, cmd.C2, cmd.To, opts.CurveSamples)
	case SmoothCubicTo:
		// The first control point sits on the start point instead of
		// mirroring the previous curve.
		return sampleCubic(cmd.From, cmd.From, cmd.C2, cmd.To, opts.CurveSamples)
	case QuadTo:
		return sampleQuad(cmd.From, cmd.C1, cmd.To, opts.CurveSamples)
	case ArcTo:
		return sampleArc(cmd, opts.ArcSamples)
	default:
		// LineTo and SmoothQuadTo.
		return []geom.Point{cmd.To}
	}
}

func sampleCubic(p0, p1, p2, p3 geom.Point, n int) []geom.Point {
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
		pts = append(pts, geom.Pt(
			a*p0.X+b*p1.X+c*p2.X+d*p3.X,
			a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
		))
	}
	return pts
}

func sampleQuad(p0, p1, p2 geom.Point, n int) []geom.Point {
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		a, b, c := mt*mt, 2*mt*t, t*t
		pts = append(pts, geom.Pt(
			a*p0.X+b*p1.X+c*p2.X,
			a*p0.Y+b*p1.Y+c*p2.Y,
		))
	}
	return pts
}

// sampleArc draws the chord from start to end with a sideways bulge whose
// angle sweeps 0.75π (1.5π for large arcs), flipped when sweep is unset.
func sampleArc(cmd Command, n int) []geom.Point {
	rx, ry := cmd.RX, cmd.RY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	r := math.Min(rx, ry)

	span := 0.75
	if cmd.LargeArc {
		span = 1.5
	}
	dir := -1.0
	if cmd.Sweep {
		dir = 1
	}

	x0, y0 := cmd.From.X, cmd.From.Y
	x, y := cmd.To.X, cmd.To.Y
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		angle := t * math.Pi * span * dir
		pts = append(pts, geom.Pt(
			x0+(x-x0)*t+math.Sin(angle)*r*0.5,
			y0+(y-y0)*t+(1-math.Cos(angle))*r*0.3,
		))
	}
	return pts
}

// exactPoints flattens cmd adaptively. The start point is not repeated.
func exactPoints(cmd Command, tolerance float64) []geom.Point {
	var p curve.BezPath
	p.MoveTo(toCurve(cmd.From))
	switch cmd.Kind {
	case LineTo:
		return []geom.Point{cmd.To}
	case CubicTo, SmoothCubicTo:
		p.CubicTo(toCurve(cmd.C1), toCurve(cmd.C2), toCurve(cmd.To))
	case QuadTo, SmoothQuadTo:
		p.QuadTo(toCurve(cmd.C1), toCurve(cmd.To))
	case ArcTo:
		if !appendArc(&p, cmd) {
			if cmd.From == cmd.To {
				return nil
			}
			return []geom.Point{cmd.To}
		}
	default:
		return nil
	}

	var pts []geom.Point
	for el := range p.Flatten(tolerance) {
		if el.Kind == curve.LineToKind {
			pts = append(pts, geom.Pt(el.P0.X, el.P0.Y))
		}
	}
	return pts
}

func toCurve(p geom.Point) curve.Point { return curve.Pt(p.X, p.Y) }
