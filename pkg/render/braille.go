package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBits maps a dot at (x, y) within a 2x4 cell to its bit in the
// braille block starting at U+2800.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type brailleCell struct {
	bits uint8
	rgb  [3]float32
	n    int
}

// BrailleCamera returns the camera matching a cols by rows terminal grid,
// one pixel per braille dot.
func BrailleCamera(distance float32, cols, rows int) Camera {
	return NewCamera(distance, cols*2, rows*4)
}

// Braille draws f as rows of braille characters, two dots wide and four
// tall per cell. Each cell takes the summed (additive) or mean color of
// its particles unless WithMonochrome is given. Lines are joined by "\n".
func Braille(f Frame, cols, rows int, distance float32, opts ...Option) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	s := newSettings(opts)
	cam := BrailleCamera(distance, cols, rows)
	cells := make([]brailleCell, cols*rows)

	for i := 0; i < f.Len(); i++ {
		px, py, _, ok := cam.Project(f.Positions[i*3], f.Positions[i*3+1], f.Positions[i*3+2])
		if !ok || px < 0 || py < 0 {
			continue
		}
		dx, dy := int(px), int(py)
		if dx >= cam.Width || dy >= cam.Height {
			continue
		}
		c := &cells[(dy/4)*cols+dx/2]
		c.bits |= brailleBits[dy%4][dx%2]
		c.rgb[0] += f.Colors[i*3]
		c.rgb[1] += f.Colors[i*3+1]
		c.rgb[2] += f.Colors[i*3+2]
		c.n++
	}

	styles := make(map[string]lipgloss.Style)
	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			c := cells[y*cols+x]
			if c.bits == 0 {
				b.WriteByte(' ')
				continue
			}
			ch := string(rune(0x2800 + int(c.bits)))
			if !s.colored {
				b.WriteString(ch)
				continue
			}
			b.WriteString(cellStyle(styles, c, f).Render(ch))
		}
	}
	return b.String()
}

func cellStyle(styles map[string]lipgloss.Style, c brailleCell, f Frame) lipgloss.Style {
	k := f.Opacity
	if !f.Additive {
		k /= float32(c.n)
	}
	key := hex(c.rgb[0]*k, c.rgb[1]*k, c.rgb[2]*k)
	st, ok := styles[key]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(key))
		styles[key] = st
	}
	return st
}
