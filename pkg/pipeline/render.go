package pipeline

import (
	"fmt"

	"github.com/matzehuels/glyphdust/pkg/field"
	gio "github.com/matzehuels/glyphdust/pkg/io"
	"github.com/matzehuels/glyphdust/pkg/render"
)

// Render generates output artifacts in the requested formats. The JSON
// artifact holds buf itself; images show buf through the source's camera.
func Render(buf field.Buffer, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	frame := opts.Frame(buf)
	cam := opts.Camera()
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			p := opts.Profile()
			data, err = gio.Marshal(gio.NewDocument(buf, gio.Source(opts.Source), &p))
		case FormatSVG:
			data = render.RenderSVG(frame, cam)
		case FormatPNG:
			data, err = render.RenderPNG(frame, cam)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
