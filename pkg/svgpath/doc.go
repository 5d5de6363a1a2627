// Package svgpath parses SVG path data and flattens it into polylines.
//
// Parsing and flattening are two separate folds over the input. [Parse]
// walks the path string once, carrying the current point, the start of the
// open subpath and the last control point, and emits a list of [Command]
// values whose coordinates are all absolute. [Flatten] folds those commands
// into [geom.Subpath] values: a move starts a new subpath, a close repeats
// the first point and ends it, and curves are replaced by sampled points.
//
// # Flattening modes
//
// The default mode samples every curve at a fixed resolution
// ([DefaultCurveSamples] steps for Béziers, [DefaultArcSamples] for arcs)
// and reproduces two deliberate approximations of the original renderer:
//
//   - a smooth cubic (S) uses its start point as the first control point
//     instead of reflecting the previous control point, and a smooth
//     quadratic (T) is drawn as a straight line;
//   - an elliptical arc (A) is drawn as an angle-interpolated bulge scaled
//     by min(rx, ry) rather than as a true ellipse.
//
// Setting [Options.Exact] switches to geometrically exact output: control
// points are reflected, arcs are converted to their center parameterization
// and every curve is flattened adaptively by honnef.co/go/curve to within
// [Options.Tolerance].
//
// # Errors
//
// Flattening never fails. A syntax error stops parsing, and the commands
// read before it are still flattened, so a damaged path degrades into a
// partial outline. Points with NaN or infinite coordinates are dropped.
//
//	subpaths := svgpath.FlattenString("M0 0 L10 0 L10 10 Z", svgpath.Options{})
package svgpath
