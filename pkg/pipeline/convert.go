package pipeline

import (
	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/sample"
)

// Conversion is the output of the convert stage.
type Conversion struct {
	Buffer     field.Buffer
	Primitives int
	Subpaths   int
	Segments   int
	Fallback   bool
}

// ConvertIcon samples opts.Markup into opts.ParticleCount particles. Markup
// without a usable outline yields the fallback disk, never an error.
func ConvertIcon(opts Options) (Conversion, error) {
	if err := opts.ValidateForIcon(); err != nil {
		return Conversion{}, err
	}
	res := sample.ShapeFromMarkup(opts.Markup, opts.ShapeOptions(), opts.FlattenOptions())
	return Conversion{
		Buffer:     res.Buffer,
		Primitives: res.Primitives,
		Subpaths:   res.Subpaths,
		Segments:   res.Segments,
		Fallback:   res.Fallback,
	}, nil
}

// ConvertImage decodes opts.Image and emits one particle per visible
// pixel. Undecodable input is an error and yields no buffer.
func ConvertImage(opts Options) (Conversion, error) {
	if err := opts.ValidateForImage(); err != nil {
		return Conversion{}, err
	}
	if len(opts.Image) == 0 {
		return Conversion{}, errors.New(errors.ErrCodeInvalidInput, "image is empty")
	}
	img, _, err := sample.DecodeImageBytes(opts.Image)
	if err != nil {
		return Conversion{}, err
	}
	px, err := opts.PixelOptions()
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Buffer: sample.Pixels(img, px)}, nil
}
