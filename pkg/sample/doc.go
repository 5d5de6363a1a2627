// Package sample turns vector outlines and raster images into particle
// buffers.
//
// # Shapes
//
// [Shape] scatters a fixed number of particles over flattened subpaths.
// Eighty percent of them land on the outline at points drawn uniformly by
// arc length; the rest are pulled 5 to 35 percent of the way toward the
// center to fill the body. The result is centered on the bounding box,
// scaled so the longer side spans 1.5 units, and flipped so y points up.
// When there is nothing to sample, [Fallback] fills a disk of radius 1.5
// instead, so callers always have something to draw.
//
// [ShapeFromMarkup] runs the whole vector chain: markup extraction, path
// flattening and sampling.
//
// # Images
//
// [Pixels] emits one particle per pixel whose alpha exceeds a threshold,
// after downsampling the image to fit a maximum dimension. Colors pass
// through [Tone] (contrast, brightness, optional tint, clamp, boost). The
// grayscale filter is applied later by package field so that it can be
// toggled without resampling.
//
// Randomness comes from an injectable [Source]; pass a seeded one with
// [NewSource] for reproducible output.
package sample
