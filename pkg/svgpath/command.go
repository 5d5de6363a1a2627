package svgpath

import (
	"fmt"

	"github.com/matzehuels/glyphdust/pkg/geom"
)

// Kind identifies the drawing operation of a Command.
type Kind uint8

// Command kinds. Horizontal and vertical lines parse to LineTo.
const (
	MoveTo Kind = iota
	LineTo
	CubicTo
	QuadTo
	SmoothCubicTo
	SmoothQuadTo
	ArcTo
	Close
)

var kindNames = [...]string{
	MoveTo:        "moveto",
	LineTo:        "lineto",
	CubicTo:       "curveto",
	QuadTo:        "quadratic curveto",
	SmoothCubicTo: "smooth curveto",
	SmoothQuadTo:  "smooth quadratic curveto",
	ArcTo:         "elliptical arc",
	Close:         "closepath",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Command is one absolute path command.
//
// From is the current point before the command runs and To the point after
// it. C1 and C2 hold control points: CubicTo uses both, QuadTo uses C1.
// For SmoothCubicTo, C2 is the written control point and C1 the reflection
// of the previous cubic control point; for SmoothQuadTo, C1 is the
// reflected quadratic control point. ArcTo carries the radii, x-axis
// rotation in degrees and the two flags. A Close command has To set to the
// start of the subpath it closes.
type Command struct {
	Kind     Kind
	From, To geom.Point
	C1, C2   geom.Point

	RX, RY   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
}

// SyntaxError reports malformed path data.
type SyntaxError struct {
	Offset int    // byte offset into the path string
	Msg    string // description of the problem
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path data: %s at offset %d", e.Msg, e.Offset)
}
