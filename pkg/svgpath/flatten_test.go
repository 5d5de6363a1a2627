package svgpath

import (
	"math"
	"testing"

	"github.com/matzehuels/glyphdust/pkg/geom"
)

func TestFlattenRect(t *testing.T) {
	subs := FlattenString("M0 0 L10 0 L10 10 L0 10 Z", Options{})
	if len(subs) != 1 {
		t.Fatalf("len(subpaths) = %d, want 1", len(subs))
	}
	sp := subs[0]
	if len(sp) != 5 {
		t.Fatalf("len(points) = %d, want 5", len(sp))
	}
	if !sp.Closed() {
		t.Errorf("closed subpath does not repeat its first point: %v", sp)
	}
}

func TestFlattenMoveSplitsSubpaths(t *testing.T) {
	subs := FlattenString("M0 0 L1 0 M5 5 L6 5 L6 6", Options{})
	if len(subs) != 2 {
		t.Fatalf("len(subpaths) = %d, want 2", len(subs))
	}
	if len(subs[0]) != 2 || len(subs[1]) != 3 {
		t.Errorf("subpath sizes = %d,%d; want 2,3", len(subs[0]), len(subs[1]))
	}
}

func TestFlattenCloseThenDraw(t *testing.T) {
	subs := FlattenString("M0 0 L4 0 L4 4 Z L0 9", Options{})
	if len(subs) != 2 {
		t.Fatalf("len(subpaths) = %d, want 2", len(subs))
	}
	if subs[1][0] != geom.Pt(0, 0) {
		t.Errorf("drawing after close starts at %v, want subpath start (0,0)", subs[1][0])
	}
}

func TestFlattenCurveSampleCount(t *testing.T) {
	tests := []struct {
		d    string
		opts Options
		want int
	}{
		{"M0 0 C0 10 10 10 10 0", Options{}, 1 + DefaultCurveSamples + 1},
		{"M0 0 Q5 10 10 0", Options{}, 1 + DefaultCurveSamples + 1},
		{"M0 0 S5 10 10 0", Options{}, 1 + DefaultCurveSamples + 1},
		{"M0 0 C0 10 10 10 10 0", Options{CurveSamples: 4}, 1 + 4 + 1},
		{"M0 0 A5 5 0 0 1 10 0", Options{}, 1 + DefaultArcSamples + 1},
		{"M0 0 T10 0", Options{}, 2},
	}
	for _, tt := range tests {
		subs := FlattenString(tt.d, tt.opts)
		if len(subs) != 1 || len(subs[0]) != tt.want {
			t.Errorf("FlattenString(%q) points = %v, want %d", tt.d, subs, tt.want)
		}
	}
}

func TestFlattenCubicEndpoints(t *testing.T) {
	sp := FlattenString("M0 0 C0 10 10 10 10 0", Options{})[0]
	last := sp[len(sp)-1]
	if math.Abs(last.X-10) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Errorf("last point = %v, want (10,0)", last)
	}
	// Midpoint of this symmetric cubic is (5, 7.5).
	mid := sp[1+DefaultCurveSamples/2]
	if math.Abs(mid.X-5) > 1e-9 || math.Abs(mid.Y-7.5) > 1e-9 {
		t.Errorf("mid point = %v, want (5,7.5)", mid)
	}
}

func TestFlattenApproximateArc(t *testing.T) {
	sp := FlattenString("M0 0 A0 0 0 0 1 10 0", Options{})[0]
	// Zero radii fall back to 1, and t=1 lands 0.75π around the bulge.
	last := sp[len(sp)-1]
	wantX := 10 + math.Sin(0.75*math.Pi)*0.5
	wantY := (1 - math.Cos(0.75*math.Pi)) * 0.3
	if math.Abs(last.X-wantX) > 1e-9 || math.Abs(last.Y-wantY) > 1e-9 {
		t.Errorf("last arc point = %v, want (%v,%v)", last, wantX, wantY)
	}
}

func TestFlattenExactArcStaysOnCircle(t *testing.T) {
	opts := Options{Exact: true, Tolerance: 0.01}
	for _, d := range []string{
		"M0 0 A5 5 0 0 1 10 0",
		"M0 0 A5 5 0 1 0 10 0",
		"M10 0 a5 5 0 0 0 -10 0",
	} {
		subs := FlattenString(d, opts)
		if len(subs) != 1 || len(subs[0]) < 4 {
			t.Fatalf("FlattenString(%q) = %v, want a sampled arc", d, subs)
		}
		for _, p := range subs[0] {
			if r := p.Dist(geom.Pt(5, 0)); math.Abs(r-5) > 0.05 {
				t.Errorf("%q: point %v at radius %v, want 5", d, p, r)
			}
		}
		last := subs[0][len(subs[0])-1]
		if last.Dist(subs[0][0]) < 9.99 {
			t.Errorf("%q: arc ends at %v, want opposite end of the diameter", d, last)
		}
	}
}

func TestFlattenExactArcSweepSide(t *testing.T) {
	opts := Options{Exact: true}
	up := FlattenString("M0 0 A5 5 0 0 0 10 0", opts)[0]
	down := FlattenString("M0 0 A5 5 0 0 1 10 0", opts)[0]
	if !(minY(up) < -4.9) && !(maxY(up) > 4.9) {
		t.Fatalf("arc does not bulge: %v", up)
	}
	if (minY(up) < 0) == (minY(down) < 0) {
		t.Errorf("sweep flag does not flip the bulge side")
	}
}

func TestFlattenExactDegenerateArc(t *testing.T) {
	opts := Options{Exact: true}
	sp := FlattenString("M0 0 A0 5 0 0 1 10 0", opts)[0]
	if len(sp) != 2 || sp[1] != geom.Pt(10, 0) {
		t.Errorf("zero-radius arc = %v, want straight line to (10,0)", sp)
	}
}

func TestFlattenExactCubicWithinTolerance(t *testing.T) {
	const tol = 0.01
	sp := FlattenString("M0 0 C0 10 10 10 10 0", Options{Exact: true, Tolerance: tol})[0]
	if last := sp[len(sp)-1]; last.Dist(geom.Pt(10, 0)) > 1e-9 {
		t.Errorf("last point = %v, want (10,0)", last)
	}
	ref := sampleCubic(geom.Pt(0, 0), geom.Pt(0, 10), geom.Pt(10, 10), geom.Pt(10, 0), 200)
	table := geom.NewSegmentTable([]geom.Subpath{sp})
	for _, p := range ref {
		if d := table.Nearest(p); d > tol*2 {
			t.Errorf("curve point %v is %v from the flattened polyline", p, d)
		}
	}
}

func TestFlattenExactSmoothCubicReflects(t *testing.T) {
	d := "M0 0 C0 10 10 10 10 0 S20 -10 20 0"
	approx := FlattenString(d, Options{})[0]
	exact := FlattenString(d, Options{Exact: true})[0]
	// The reflected curve dips below the axis as far as the first rises.
	if minY(exact) > -7 {
		t.Errorf("exact smooth curve min y = %v, want about -7.5", minY(exact))
	}
	if minY(approx) <= minY(exact) {
		t.Errorf("approximate smooth curve should be shallower than the reflected one")
	}
}

func TestFlattenFiltersNonFinite(t *testing.T) {
	cmds := []Command{
		{Kind: MoveTo, To: geom.Pt(0, 0)},
		{Kind: LineTo, From: geom.Pt(0, 0), To: geom.Pt(math.NaN(), 1)},
		{Kind: LineTo, From: geom.Pt(math.NaN(), 1), To: geom.Pt(math.Inf(1), 1)},
		{Kind: LineTo, To: geom.Pt(2, 2)},
	}
	subs := Flatten(cmds, Options{})
	if len(subs) != 1 || len(subs[0]) != 2 {
		t.Fatalf("Flatten = %v, want [(0,0) (2,2)]", subs)
	}
	for _, p := range subs[0] {
		if !p.Finite() {
			t.Errorf("non-finite point %v emitted", p)
		}
	}
}

func TestFlattenPartialOnError(t *testing.T) {
	subs := FlattenString("M0 0 L10 0 Z M5 5 L6 6 L oops", Options{})
	if len(subs) != 2 {
		t.Fatalf("len(subpaths) = %d, want 2", len(subs))
	}
	if len(subs[1]) != 2 {
		t.Errorf("open subpath before error = %v, want 2 points", subs[1])
	}
}

func TestFlattenIsDeterministic(t *testing.T) {
	d := "M2 2 C4 8 12 8 14 2 A3 4 10 1 1 2 2 Z"
	a := geom.NewSegmentTable(FlattenString(d, Options{}))
	b := geom.NewSegmentTable(FlattenString(d, Options{}))
	if a.TotalLength != b.TotalLength || a.Bounds() != b.Bounds() {
		t.Errorf("repeated flattening differs: %v/%v vs %v/%v", a.TotalLength, a.Bounds(), b.TotalLength, b.Bounds())
	}
}

func minY(sp geom.Subpath) float64 {
	m := math.Inf(1)
	for _, p := range sp {
		m = math.Min(m, p.Y)
	}
	return m
}

func maxY(sp geom.Subpath) float64 {
	m := math.Inf(-1)
	for _, p := range sp {
		m = math.Max(m, p.Y)
	}
	return m
}
