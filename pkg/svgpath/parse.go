package svgpath

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/matzehuels/glyphdust/pkg/geom"
)

// argCounts is the number of values consumed by each command letter.
var argCounts = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

// Parse reads SVG path data and returns its commands in absolute form.
// The data must open with a moveto (M or m).
//
// Parsing stops at the first syntax error. The commands read up to that
// point are returned together with a *SyntaxError, so callers can still
// draw the valid prefix.
func Parse(d string) ([]Command, error) {
	b := []byte(d)
	var (
		cmds []Command
		c    cursor
		args [7]float64
		op   byte
	)

	i := skipCommaSpace(b, 0)
	for i < len(b) {
		if isCommand(b[i]) {
			if op == 0 && toUpper(b[i]) != 'M' {
				return cmds, &SyntaxError{Offset: i, Msg: fmt.Sprintf("path must start with a moveto, got %q", b[i])}
			}
			op = b[i]
			i = skipCommaSpace(b, i+1)
		} else if op == 0 || op == 'Z' || op == 'z' {
			return cmds, &SyntaxError{Offset: i, Msg: fmt.Sprintf("unexpected %q", b[i])}
		}

		upper := toUpper(op)
		n := argCounts[upper]
		for j := 0; j < n; j++ {
			if i >= len(b) {
				return cmds, &SyntaxError{Offset: i, Msg: fmt.Sprintf("command %q needs %d values", op, n)}
			}
			if upper == 'A' && (j == 3 || j == 4) {
				switch b[i] {
				case '0':
					args[j] = 0
				case '1':
					args[j] = 1
				default:
					return cmds, &SyntaxError{Offset: i, Msg: "arc flags must be 0 or 1"}
				}
				i++
			} else {
				v, k := strconv.ParseFloat(b[i:])
				if k == 0 {
					return cmds, &SyntaxError{Offset: i, Msg: fmt.Sprintf("expected number after %q", op)}
				}
				args[j] = v
				i += k
			}
			i = skipCommaSpace(b, i)
		}

		var cmd Command
		cmd, c = c.apply(op, args[:n])
		cmds = append(cmds, cmd)

		// Coordinates repeated after a move are implicit line-tos.
		switch op {
		case 'M':
			op = 'L'
		case 'm':
			op = 'l'
		}
	}
	return cmds, nil
}

// cursor is the accumulator threaded through the parse fold.
type cursor struct {
	cur   geom.Point // current point
	start geom.Point // first point of the open subpath
	cubic geom.Point // second control point of the last cubic
	quad  geom.Point // control point of the last quadratic
	prev  Kind
	any   bool // whether a command has been applied
}

// apply runs one command letter with its arguments against c and returns
// the absolute command together with the next cursor.
func (c cursor) apply(op byte, f []float64) (Command, cursor) {
	rel := op >= 'a'
	at := func(x, y float64) geom.Point {
		if rel {
			return geom.Pt(c.cur.X+x, c.cur.Y+y)
		}
		return geom.Pt(x, y)
	}

	cmd := Command{From: c.cur}
	next := c
	switch toUpper(op) {
	case 'M':
		cmd.Kind = MoveTo
		cmd.To = at(f[0], f[1])
		next.start = cmd.To
	case 'Z':
		cmd.Kind = Close
		cmd.To = c.start
	case 'L':
		cmd.Kind = LineTo
		cmd.To = at(f[0], f[1])
	case 'H':
		cmd.Kind = LineTo
		cmd.To = geom.Pt(f[0], c.cur.Y)
		if rel {
			cmd.To.X += c.cur.X
		}
	case 'V':
		cmd.Kind = LineTo
		cmd.To = geom.Pt(c.cur.X, f[0])
		if rel {
			cmd.To.Y += c.cur.Y
		}
	case 'C':
		cmd.Kind = CubicTo
		cmd.C1 = at(f[0], f[1])
		cmd.C2 = at(f[2], f[3])
		cmd.To = at(f[4], f[5])
		next.cubic = cmd.C2
	case 'S':
		cmd.Kind = SmoothCubicTo
		cmd.C1 = c.reflect(c.cubic, CubicTo, SmoothCubicTo)
		cmd.C2 = at(f[0], f[1])
		cmd.To = at(f[2], f[3])
		next.cubic = cmd.C2
	case 'Q':
		cmd.Kind = QuadTo
		cmd.C1 = at(f[0], f[1])
		cmd.To = at(f[2], f[3])
		next.quad = cmd.C1
	case 'T':
		cmd.Kind = SmoothQuadTo
		cmd.C1 = c.reflect(c.quad, QuadTo, SmoothQuadTo)
		cmd.To = at(f[0], f[1])
		next.quad = cmd.C1
	case 'A':
		cmd.Kind = ArcTo
		cmd.RX, cmd.RY = f[0], f[1]
		cmd.Rotation = f[2]
		cmd.LargeArc = f[3] != 0
		cmd.Sweep = f[4] != 0
		cmd.To = at(f[5], f[6])
	}

	next.cur = cmd.To
	next.prev = cmd.Kind
	next.any = true
	return cmd, next
}

// reflect mirrors ctrl through the current point when the previous command
// was one of kinds, and otherwise returns the current point.
func (c cursor) reflect(ctrl geom.Point, kinds ...Kind) geom.Point {
	if c.any {
		for _, k := range kinds {
			if c.prev == k {
				return geom.Pt(2*c.cur.X-ctrl.X, 2*c.cur.Y-ctrl.Y)
			}
		}
	}
	return c.cur
}

func isCommand(ch byte) bool {
	return strings.IndexByte("MmZzLlHhVvCcSsQqTtAa", ch) >= 0
}

func toUpper(ch byte) byte {
	if 'a' <= ch && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch
}

func skipCommaSpace(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', ',', '\n', '\r', '\t', '\f':
			i++
		default:
			return i
		}
	}
	return i
}
