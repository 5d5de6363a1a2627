// Package geom holds the 2D building blocks shared by the vector pipeline.
//
// A [Subpath] is one continuous stroke produced by flattening path data.
// Consecutive points of a subpath form [Segment] values, and a
// [SegmentTable] collects the segments of every subpath so that points can
// be drawn uniformly by arc length.
//
// Segments are only ever built between points of the same subpath: two
// strokes of one glyph are never bridged by a synthetic segment, so the
// sampled outline keeps the gaps that the source drawing has.
//
// # Sampling by length
//
// [SegmentTable.Pick] maps a uniform number in [0, 1) onto a segment with
// probability proportional to its length, using a cumulative-length table
// and binary search:
//
//	table := geom.NewSegmentTable(subpaths)
//	seg := table.Pick(rng.Float64())
//	p := seg.At(rng.Float64())
package geom
