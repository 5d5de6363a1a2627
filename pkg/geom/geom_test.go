package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(size float64) Subpath {
	return Subpath{Pt(0, 0), Pt(size, 0), Pt(size, size), Pt(0, size), Pt(0, 0)}
}

func TestSegmentTableSquare(t *testing.T) {
	table := NewSegmentTable([]Subpath{square(10)})

	require.Equal(t, 4, table.Len())
	assert.InDelta(t, 40.0, table.TotalLength, 1e-9)

	b := table.Bounds()
	assert.Equal(t, Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, b)
	assert.Equal(t, Pt(5, 5), b.Center())
}

func TestSegmentTableSkipsDegenerate(t *testing.T) {
	sp := Subpath{Pt(0, 0), Pt(0, 0), Pt(0.0005, 0), Pt(1, 0)}
	table := NewSegmentTable([]Subpath{sp})

	require.Equal(t, 1, table.Len())
	for _, s := range table.Segments {
		assert.Greater(t, s.Length, MinSegmentLength)
	}
}

func TestSegmentTableDoesNotBridgeSubpaths(t *testing.T) {
	a := Subpath{Pt(0, 0), Pt(1, 0)}
	b := Subpath{Pt(5, 5), Pt(6, 5)}
	table := NewSegmentTable([]Subpath{a, b})

	require.Equal(t, 2, table.Len())
	assert.InDelta(t, 2.0, table.TotalLength, 1e-9)
}

func TestSegmentTableSkipsNonFinite(t *testing.T) {
	sp := Subpath{Pt(0, 0), Pt(math.NaN(), 1), Pt(1, 1), Pt(2, 1)}
	table := NewSegmentTable([]Subpath{sp})

	require.Equal(t, 1, table.Len())
	assert.InDelta(t, 1.0, table.TotalLength, 1e-9)
}

func TestSegmentTableEmpty(t *testing.T) {
	tests := []struct {
		name     string
		subpaths []Subpath
	}{
		{"nil", nil},
		{"single point", []Subpath{{Pt(1, 1)}}},
		{"all degenerate", []Subpath{{Pt(1, 1), Pt(1, 1), Pt(1, 1.0001)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !NewSegmentTable(tt.subpaths).Empty() {
				t.Errorf("Empty() = false, want true")
			}
		})
	}
}

func TestPickIsLengthWeighted(t *testing.T) {
	// One segment of length 3 and one of length 1.
	sp := Subpath{Pt(0, 0), Pt(3, 0), Pt(3, 1)}
	table := NewSegmentTable([]Subpath{sp})
	require.Equal(t, 2, table.Len())

	const steps = 4000
	long := 0
	for i := 0; i < steps; i++ {
		u := (float64(i) + 0.5) / steps
		if table.Pick(u).Length == 3 {
			long++
		}
	}
	assert.InDelta(t, 0.75, float64(long)/steps, 0.001)
}

func TestPickBoundaries(t *testing.T) {
	table := NewSegmentTable([]Subpath{square(1)})

	assert.Equal(t, table.Segments[0], table.Pick(0))
	assert.Equal(t, table.Segments[3], table.Pick(1))
	assert.Equal(t, table.Segments[3], table.Pick(0.9999))
}

func TestSegmentDistance(t *testing.T) {
	s := NewSegment(Pt(0, 0), Pt(10, 0))
	tests := []struct {
		p    Point
		want float64
	}{
		{Pt(5, 0), 0},
		{Pt(5, 3), 3},
		{Pt(-4, 3), 5},
		{Pt(13, -4), 5},
	}
	for _, tt := range tests {
		if got := s.DistanceTo(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DistanceTo(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSubpathClosed(t *testing.T) {
	if !square(2).Closed() {
		t.Error("square Closed() = false, want true")
	}
	if (Subpath{Pt(0, 0), Pt(1, 0)}).Closed() {
		t.Error("open line Closed() = true, want false")
	}
}
