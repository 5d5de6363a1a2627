package pipeline

import (
	"github.com/matzehuels/glyphdust/pkg/field"
)

// Animate starts a field at its entrance distribution, installs buf as the
// target and advances it ticks times without a pointer. It returns the
// display state afterwards. Zero ticks, or an empty buffer, return buf
// with the grayscale filter applied if requested.
func Animate(buf field.Buffer, opts Options) (field.Buffer, error) {
	if err := opts.ValidateForAnimation(); err != nil {
		return field.Buffer{}, err
	}
	if opts.Ticks == 0 || buf.Len() == 0 {
		out := buf.Clone()
		if opts.Grayscale {
			field.Grayscale(out.Colors, buf.Colors)
		}
		return out, nil
	}

	f, err := field.New(buf.Len(), opts.Profile(),
		field.WithRand(opts.Rand()),
		field.WithGrayscale(opts.Grayscale))
	if err != nil {
		return field.Buffer{}, err
	}
	if err := f.Initialize(buf, field.InitEntrance); err != nil {
		return field.Buffer{}, err
	}
	for i := 0; i < opts.Ticks; i++ {
		f.Tick(field.NoPointer)
	}
	return field.Buffer{Positions: f.Positions(), Colors: f.Colors()}.Clone(), nil
}
