package render

import (
	"bytes"
	"fmt"
)

// RenderSVG draws f through cam as an SVG document with one element per
// visible particle. Additive frames use the plus-lighter blend mode.
func RenderSVG(f Frame, cam Camera, opts ...Option) []byte {
	s := newSettings(opts)
	w, h := float32(cam.Width), float32(cam.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if f.Additive {
		buf.WriteString("  <style>.p { mix-blend-mode: plus-lighter; }</style>\n")
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n",
		hex(float32(s.background.R)/255, float32(s.background.G)/255, float32(s.background.B)/255))
	fmt.Fprintf(&buf, `  <g opacity="%.3g">`+"\n", f.Opacity)

	for i := 0; i < f.Len(); i++ {
		px, py, depth, ok := cam.Project(f.Positions[i*3], f.Positions[i*3+1], f.Positions[i*3+2])
		if !ok {
			continue
		}
		d := cam.PointSize(f.Size, depth)
		half := d / 2
		if px+half < 0 || py+half < 0 || px-half > w || py-half > h {
			continue
		}
		fill := hex(f.Colors[i*3], f.Colors[i*3+1], f.Colors[i*3+2])
		scale := d / spriteCanvas
		switch f.Shape {
		case ShapeSquare:
			side := (spriteCanvas - 2*squareInset) * scale
			fmt.Fprintf(&buf, `    <rect class="p" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				px-side/2, py-side/2, side, side, fill)
		case ShapeRing:
			fmt.Fprintf(&buf, `    <circle class="p" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
				px, py, ringRadius*scale, fill, ringWidth*scale)
		default:
			fmt.Fprintf(&buf, `    <circle class="p" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
				px, py, circleRadius*scale, fill)
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func hex(r, g, b float32) string {
	return fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
}
