package svgpath

import (
	"math"

	"honnef.co/go/curve"

	"github.com/matzehuels/glyphdust/pkg/geom"
)

// ellipseArc is an elliptical arc in center parameterization.
type ellipseArc struct {
	cx, cy   float64
	rx, ry   float64
	phi      float64 // x-axis rotation in radians
	theta    float64 // start angle
	delta    float64 // signed sweep angle
	sin, cos float64 // of phi
}

// centerArc converts an endpoint arc command to center form. It reports
// false when the arc degenerates to a straight line or to nothing.
func centerArc(cmd Command) (ellipseArc, bool) {
	x1, y1 := cmd.From.X, cmd.From.Y
	x2, y2 := cmd.To.X, cmd.To.Y
	rx, ry := math.Abs(cmd.RX), math.Abs(cmd.RY)
	if rx == 0 || ry == 0 || (x1 == x2 && y1 == y2) {
		return ellipseArc{}, false
	}

	phi := cmd.Rotation * math.Pi / 180
	sin, cos := math.Sincos(phi)

	dx, dy := (x1-x2)/2, (y1-y2)/2
	x1p := cos*dx + sin*dy
	y1p := -sin*dx + cos*dy

	// Scale radii up when the endpoints cannot be reached.
	if l := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); l > 1 {
		s := math.Sqrt(l)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := math.Sqrt(math.Max(0, num/den))
	if cmd.LargeArc == cmd.Sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	a := ellipseArc{
		cx:  cos*cxp - sin*cyp + (x1+x2)/2,
		cy:  sin*cxp + cos*cyp + (y1+y2)/2,
		rx:  rx,
		ry:  ry,
		phi: phi,
		sin: sin,
		cos: cos,
	}
	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	a.theta = vecAngle(1, 0, ux, uy)
	a.delta = vecAngle(ux, uy, vx, vy)
	if !cmd.Sweep && a.delta > 0 {
		a.delta -= 2 * math.Pi
	} else if cmd.Sweep && a.delta < 0 {
		a.delta += 2 * math.Pi
	}
	return a, true
}

func vecAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

// at returns the point of the ellipse at angle t.
func (a ellipseArc) at(t float64) geom.Point {
	s, c := math.Sincos(t)
	return geom.Pt(
		a.cx+a.rx*c*a.cos-a.ry*s*a.sin,
		a.cy+a.rx*c*a.sin+a.ry*s*a.cos,
	)
}

// tangent returns the derivative of at with respect to t.
func (a ellipseArc) tangent(t float64) geom.Point {
	s, c := math.Sincos(t)
	return geom.Pt(
		-a.rx*s*a.cos-a.ry*c*a.sin,
		-a.rx*s*a.sin+a.ry*c*a.cos,
	)
}

// appendArc adds cmd to p as cubic segments of at most a quarter turn.
func appendArc(p *curve.BezPath, cmd Command) bool {
	a, ok := centerArc(cmd)
	if !ok {
		return false
	}
	n := int(math.Ceil(math.Abs(a.delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := a.delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	t0 := a.theta
	for i := 0; i < n; i++ {
		t1 := t0 + step
		p0, p3 := a.at(t0), a.at(t1)
		d0, d3 := a.tangent(t0), a.tangent(t1)
		if i == n-1 {
			p3 = cmd.To
		}
		p.CubicTo(
			curve.Pt(p0.X+k*d0.X, p0.Y+k*d0.Y),
			curve.Pt(p3.X-k*d3.X, p3.Y-k*d3.Y),
			curve.Pt(p3.X, p3.Y),
		)
		t0 = t1
	}
	return true
}
