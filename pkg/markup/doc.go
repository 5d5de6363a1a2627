// Package markup pulls drawable primitives out of SVG icon markup.
//
// [Extract] tokenizes the markup with the tdewolff XML lexer and reduces
// every supported element to a path data string that package svgpath can
// flatten:
//
//   - path: its d attribute, unchanged
//   - circle and ellipse: four cubic Béziers with the control ratio [Kappa]
//   - rect: a closed four-point polygon (rounded corners are ignored)
//   - line: a two-point open path
//   - polyline and polygon: the listed points, closed for polygon only
//
// Position attributes (x, y, cx, cy, x1, y1, x2, y2) default to zero as in
// SVG. Size attributes (r, rx, ry, width, height, points, d) are required.
// An element whose required attribute is missing, or whose numbers do not
// parse, is skipped without failing the rest of the extraction. Results are
// returned in document order.
//
// Markup without any supported element yields an empty result; deciding
// what to draw then is the caller's job.
package markup
