package geom

import (
	"math"
	"sort"
)

// MinSegmentLength is the length at or below which a segment is considered
// degenerate and excluded from sampling.
const MinSegmentLength = 0.001

// Point is a 2D coordinate in source units.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Subpath is an ordered polyline representing one continuous stroke.
// A closed subpath repeats its first point as its last point.
type Subpath []Point

// Closed reports whether the subpath ends where it starts.
func (s Subpath) Closed() bool {
	return len(s) > 1 && s[0] == s[len(s)-1]
}

// Segment is a straight span between two consecutive points of one subpath.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Length         float64
}

// NewSegment builds a segment from a to b with its length filled in.
func NewSegment(a, b Point) Segment {
	return Segment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Length: a.Dist(b)}
}

// At returns the point a fraction t along the segment.
func (s Segment) At(t float64) Point {
	return Point{X: s.X1 + (s.X2-s.X1)*t, Y: s.Y1 + (s.Y2-s.Y1)*t}
}

// DistanceTo returns the shortest distance from p to the segment.
func (s Segment) DistanceTo(p Point) float64 {
	dx, dy := s.X2-s.X1, s.Y2-s.Y1
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-s.X1, p.Y-s.Y1)
	}
	t := ((p.X-s.X1)*dx + (p.Y-s.Y1)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(s.X1+t*dx), p.Y-(s.Y1+t*dy))
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns a box that any point will extend.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Extend grows b to include p.
func (b *Bounds) Extend(p Point) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// SegmentTable is the set of non-degenerate segments of a shape together
// with their total length.
type SegmentTable struct {
	Segments    []Segment
	TotalLength float64

	// cumulative[i] is the summed length of Segments[0..i].
	cumulative []float64
}

// NewSegmentTable builds the segment table for subpaths. Segments shorter
// than or equal to MinSegmentLength are skipped, as are segments touching a
// non-finite point.
func NewSegmentTable(subpaths []Subpath) *SegmentTable {
	t := &SegmentTable{}
	for _, sp := range subpaths {
		for i := 1; i < len(sp); i++ {
			a, b := sp[i-1], sp[i]
			if !a.Finite() || !b.Finite() {
				continue
			}
			seg := NewSegment(a, b)
			if seg.Length <= MinSegmentLength {
				continue
			}
			t.TotalLength += seg.Length
			t.Segments = append(t.Segments, seg)
			t.cumulative = append(t.cumulative, t.TotalLength)
		}
	}
	return t
}

// Len returns the number of segments.
func (t *SegmentTable) Len() int { return len(t.Segments) }

// Empty reports whether the table has nothing to sample.
func (t *SegmentTable) Empty() bool { return len(t.Segments) == 0 || t.TotalLength <= 0 }

// Bounds returns the bounding box of every segment endpoint.
func (t *SegmentTable) Bounds() Bounds {
	b := EmptyBounds()
	for _, s := range t.Segments {
		b.Extend(Point{X: s.X1, Y: s.Y1})
		b.Extend(Point{X: s.X2, Y: s.Y2})
	}
	return b
}

// Pick returns the segment covering the fraction u of the total length,
// so that a uniform u selects segments proportionally to their length.
// The table must not be empty.
func (t *SegmentTable) Pick(u float64) Segment {
	target := u * t.TotalLength
	i := sort.Search(len(t.cumulative), func(i int) bool {
		return t.cumulative[i] > target
	})
	if i >= len(t.Segments) {
		i = len(t.Segments) - 1
	}
	return t.Segments[i]
}

// Nearest returns the distance from p to the closest segment in the table,
// or +Inf when the table is empty.
func (t *SegmentTable) Nearest(p Point) float64 {
	best := math.Inf(1)
	for _, s := range t.Segments {
		if d := s.DistanceTo(p); d < best {
			best = d
		}
	}
	return best
}
