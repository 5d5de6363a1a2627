package sample

import (
	"math"

	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/geom"
	"github.com/matzehuels/glyphdust/pkg/markup"
	"github.com/matzehuels/glyphdust/pkg/svgpath"
)

// Shape sampling constants.
const (
	// Extent is the size of the longer side of a sampled shape, and the
	// radius of the fallback disk.
	Extent = 1.5

	// BorderRatio is the share of particles placed on the outline.
	BorderRatio = 0.8

	// BorderJitter bounds the xy offset of outline particles, in
	// normalized units.
	BorderJitter = 0.003

	// InteriorJitter bounds the xy offset of interior particles as a
	// fraction of the bounding box size.
	InteriorJitter = 0.02

	// Pull range toward the center for interior particles.
	MinPull = 0.05
	MaxPull = 0.35
)

// ShapeOptions configures Shape.
type ShapeOptions struct {
	// Count is the number of particles to produce.
	Count int

	// Depth is the z amplitude: interior particles spread over
	// [-Depth, Depth], outline particles over half of that.
	Depth float64

	// Color is applied to every particle. Nil means white.
	Color *[3]float32

	// Rand is the random source. Nil means an unseeded PCG.
	Rand Source
}

func (o ShapeOptions) source() Source {
	if o.Rand != nil {
		return o.Rand
	}
	return NewSource(0)
}

// Shape samples opts.Count particles over subpaths. It falls back to a
// disk when the subpaths contain no usable segment.
func Shape(subpaths []geom.Subpath, opts ShapeOptions) field.Buffer {
	return ShapeFromTable(geom.NewSegmentTable(subpaths), opts)
}

// ShapeFromTable is Shape for a prebuilt segment table.
func ShapeFromTable(table *geom.SegmentTable, opts ShapeOptions) field.Buffer {
	if opts.Count <= 0 {
		return field.Buffer{Positions: []float32{}, Colors: []float32{}}
	}
	if table.Empty() {
		return Fallback(opts)
	}

	rng := opts.source()
	buf := newColored(opts)
	pos := buf.Positions

	b := table.Bounds()
	width, height := b.Width(), b.Height()
	scale := Extent / math.Max(nonZero(width), nonZero(height))
	c := b.Center()

	border := int(math.Floor(float64(opts.Count) * BorderRatio))
	for i := 0; i < border; i++ {
		p := table.Pick(rng.Float64()).At(rng.Float64())
		pos[i*3] = float32((p.X-c.X)*scale + between(rng, -BorderJitter, BorderJitter))
		pos[i*3+1] = float32(-(p.Y-c.Y)*scale + between(rng, -BorderJitter, BorderJitter))
		pos[i*3+2] = float32(between(rng, -opts.Depth/2, opts.Depth/2))
	}
	for i := border; i < opts.Count; i++ {
		p := table.Pick(rng.Float64()).At(rng.Float64())
		pull := rng.Float64()*(MaxPull-MinPull) + MinPull
		x := p.X + (c.X-p.X)*pull + between(rng, -InteriorJitter, InteriorJitter)*width
		y := p.Y + (c.Y-p.Y)*pull + between(rng, -InteriorJitter, InteriorJitter)*height
		pos[i*3] = float32((x - c.X) * scale)
		pos[i*3+1] = float32(-(y - c.Y) * scale)
		pos[i*3+2] = float32(between(rng, -opts.Depth, opts.Depth))
	}
	return buf
}

// Fallback fills a disk of radius Extent uniformly, with z spread over
// [-Depth, Depth].
func Fallback(opts ShapeOptions) field.Buffer {
	if opts.Count <= 0 {
		return field.Buffer{Positions: []float32{}, Colors: []float32{}}
	}
	rng := opts.source()
	buf := newColored(opts)
	for i := 0; i < opts.Count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		r := Extent * math.Sqrt(rng.Float64())
		buf.Positions[i*3] = float32(math.Cos(angle) * r)
		buf.Positions[i*3+1] = float32(math.Sin(angle) * r)
		buf.Positions[i*3+2] = float32(between(rng, -opts.Depth, opts.Depth))
	}
	return buf
}

// MarkupResult describes what ShapeFromMarkup found.
type MarkupResult struct {
	Buffer     field.Buffer
	Primitives int
	Subpaths   int
	Segments   int
	Length     float64
	Fallback   bool
}

// ShapeFromMarkup extracts, flattens and samples icon markup.
func ShapeFromMarkup(src string, opts ShapeOptions, flat svgpath.Options) MarkupResult {
	var subpaths []geom.Subpath
	paths := markup.Extract(src)
	for _, d := range paths {
		subpaths = append(subpaths, svgpath.FlattenString(d, flat)...)
	}
	table := geom.NewSegmentTable(subpaths)
	return MarkupResult{
		Buffer:     ShapeFromTable(table, opts),
		Primitives: len(paths),
		Subpaths:   len(subpaths),
		Segments:   table.Len(),
		Length:     table.TotalLength,
		Fallback:   table.Empty(),
	}
}

func newColored(opts ShapeOptions) field.Buffer {
	buf := field.NewBuffer(opts.Count)
	c := [3]float32{1, 1, 1}
	if opts.Color != nil {
		c = *opts.Color
	}
	buf.Fill(c[0], c[1], c[2])
	return buf
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
