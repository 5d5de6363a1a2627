package markup

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	parsenum "github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"
)

// Kappa is the control point ratio of the four-curve circle approximation.
const Kappa = 0.5522847498

// Kind is the element a primitive was read from.
type Kind string

// Supported element kinds.
const (
	KindPath     Kind = "path"
	KindCircle   Kind = "circle"
	KindEllipse  Kind = "ellipse"
	KindRect     Kind = "rect"
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindPolygon  Kind = "polygon"
)

var builders = map[Kind]func(attrs) (string, bool){
	KindPath:     pathData,
	KindCircle:   circleData,
	KindEllipse:  ellipseData,
	KindRect:     rectData,
	KindLine:     lineData,
	KindPolyline: func(a attrs) (string, bool) { return polyData(a, false) },
	KindPolygon:  func(a attrs) (string, bool) { return polyData(a, true) },
}

// Primitive is one drawable element reduced to path data.
type Primitive struct {
	Kind Kind
	Data string
}

// Extract returns the path data of every supported element in markup.
func Extract(markup string) []string {
	prims := ExtractPrimitives(markup)
	out := make([]string, len(prims))
	for i, p := range prims {
		out[i] = p.Data
	}
	return out
}

// ExtractPrimitives is like Extract but keeps the element kind.
func ExtractPrimitives(markup string) []Primitive {
	l := xml.NewLexer(parse.NewInputString(markup))

	var (
		prims []Primitive
		kind  Kind
		open  bool
		cur   attrs
	)
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			// io.EOF at the end of input; anything else is malformed
			// markup, and what was read so far is kept.
			if open && l.Err() == io.EOF {
				prims = appendPrimitive(prims, kind, cur)
			}
			return prims
		case xml.StartTagToken:
			kind, open = elementKind(l.Text())
			cur = attrs{}
		case xml.AttributeToken:
			if open {
				cur[strings.ToLower(string(l.Text()))] = unquote(l.AttrVal())
			}
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if open {
				prims = appendPrimitive(prims, kind, cur)
				open = false
			}
		}
	}
}

func appendPrimitive(prims []Primitive, kind Kind, a attrs) []Primitive {
	if data, ok := builders[kind](a); ok {
		prims = append(prims, Primitive{Kind: kind, Data: data})
	}
	return prims
}

func elementKind(name []byte) (Kind, bool) {
	n := strings.ToLower(string(name))
	if i := strings.LastIndexByte(n, ':'); i >= 0 {
		n = n[i+1:]
	}
	k := Kind(n)
	_, ok := builders[k]
	return k, ok
}

func unquote(v []byte) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return string(v)
}

// attrs holds the lower-cased attributes of one element.
type attrs map[string]string

// num parses a required numeric attribute.
func (a attrs) num(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return parseNumber(v)
}

// coord parses an optional position attribute that defaults to zero.
func (a attrs) coord(key string) (float64, bool) {
	if _, ok := a[key]; !ok {
		return 0, true
	}
	return a.num(key)
}

// parseNumber reads a whole attribute value as one number. A trailing
// "px" unit is accepted.
func parseNumber(s string) (float64, bool) {
	b := []byte(strings.TrimSpace(s))
	b = bytes.TrimSuffix(b, []byte("px"))
	if len(b) == 0 {
		return 0, false
	}
	v, n := parsenum.ParseFloat(b)
	if n != len(b) {
		return 0, false
	}
	return v, true
}

// parseNumbers reads a whitespace or comma separated list.
func parseNumbers(s string) ([]float64, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		b := []byte(f)
		// Lists like "1-2" pack two numbers into one field.
		for len(b) > 0 {
			v, n := parsenum.ParseFloat(b)
			if n == 0 {
				return nil, false
			}
			out = append(out, v)
			b = b[n:]
		}
	}
	return out, true
}

func pathData(a attrs) (string, bool) {
	d := strings.TrimSpace(a["d"])
	return d, d != ""
}

func circleData(a attrs) (string, bool) {
	cx, ok1 := a.coord("cx")
	cy, ok2 := a.coord("cy")
	r, ok3 := a.num("r")
	if !(ok1 && ok2 && ok3) {
		return "", false
	}
	return ellipsePath(cx, cy, r, r), true
}

func ellipseData(a attrs) (string, bool) {
	cx, ok1 := a.coord("cx")
	cy, ok2 := a.coord("cy")
	rx, ok3 := a.num("rx")
	ry, ok4 := a.num("ry")
	if !(ok1 && ok2 && ok3 && ok4) {
		return "", false
	}
	return ellipsePath(cx, cy, rx, ry), true
}

// ellipsePath starts at the top of the ellipse and runs clockwise in
// screen space through four quarter curves.
func ellipsePath(cx, cy, rx, ry float64) string {
	kx, ky := rx*Kappa, ry*Kappa
	var b pathBuilder
	b.cmd('M', cx, cy-ry)
	b.cmd('C', cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	b.cmd('C', cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	b.cmd('C', cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	b.cmd('C', cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	b.cmd('Z')
	return b.String()
}

func rectData(a attrs) (string, bool) {
	x, ok1 := a.coord("x")
	y, ok2 := a.coord("y")
	w, ok3 := a.num("width")
	h, ok4 := a.num("height")
	if !(ok1 && ok2 && ok3 && ok4) {
		return "", false
	}
	var b pathBuilder
	b.cmd('M', x, y)
	b.cmd('L', x+w, y)
	b.cmd('L', x+w, y+h)
	b.cmd('L', x, y+h)
	b.cmd('Z')
	return b.String(), true
}

func lineData(a attrs) (string, bool) {
	x1, ok1 := a.coord("x1")
	y1, ok2 := a.coord("y1")
	x2, ok3 := a.coord("x2")
	y2, ok4 := a.coord("y2")
	if !(ok1 && ok2 && ok3 && ok4) {
		return "", false
	}
	var b pathBuilder
	b.cmd('M', x1, y1)
	b.cmd('L', x2, y2)
	return b.String(), true
}

func polyData(a attrs, closed bool) (string, bool) {
	raw, ok := a["points"]
	if !ok {
		return "", false
	}
	nums, ok := parseNumbers(raw)
	if !ok || len(nums) < 2 {
		return "", false
	}
	var b pathBuilder
	// An odd trailing value has no partner and is dropped.
	for i := 0; i+1 < len(nums); i += 2 {
		op := byte('L')
		if i == 0 {
			op = 'M'
		}
		b.cmd(op, nums[i], nums[i+1])
	}
	if closed {
		b.cmd('Z')
	}
	return b.String(), true
}

// pathBuilder writes compact path data.
type pathBuilder struct {
	buf []byte
}

func (b *pathBuilder) cmd(op byte, args ...float64) {
	if len(b.buf) > 0 {
		b.buf = append(b.buf, ' ')
	}
	b.buf = append(b.buf, op)
	for _, v := range args {
		b.buf = append(b.buf, ' ')
		b.buf = strconv.AppendFloat(b.buf, v, 'g', -1, 64)
	}
}

func (b *pathBuilder) String() string { return string(b.buf) }
