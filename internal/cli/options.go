package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphdust/pkg/config"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

// optionFlags binds pipeline options to command flags. Only flags given on
// the command line override the config file.
type optionFlags struct {
	v        pipeline.Options
	strength float64
	depth    float64
	radius   float64
	formats  string
	setters  []flagSetter
}

type flagSetter struct {
	name  string
	apply func(dst *pipeline.Options, f *optionFlags)
}

func (f *optionFlags) add(name string, apply func(dst *pipeline.Options, f *optionFlags)) {
	f.setters = append(f.setters, flagSetter{name: name, apply: apply})
}

// bindIcon registers the markup sampling flags.
func (f *optionFlags) bindIcon(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.v.ParticleCount, "count", "n", pipeline.DefaultParticleCount, "number of particles")
	fs.Float64Var(&f.depth, "depth", pipeline.DefaultDepth, "z amplitude of the particles")
	fs.BoolVar(&f.v.Exact, "exact", false, "flatten curves adaptively instead of with fixed sample counts")
	fs.IntVar(&f.v.CurveSamples, "curve-samples", 0, "points per bezier curve (0 = default)")
	fs.IntVar(&f.v.ArcSamples, "arc-samples", 0, "points per elliptical arc (0 = default)")
	fs.Uint64Var(&f.v.Seed, "seed", 0, "random seed (0 = random)")

	f.add("count", func(d *pipeline.Options, f *optionFlags) { d.ParticleCount = f.v.ParticleCount })
	f.add("depth", func(d *pipeline.Options, f *optionFlags) { d.Depth = pipeline.Float(f.depth) })
	f.add("exact", func(d *pipeline.Options, f *optionFlags) { d.Exact = f.v.Exact })
	f.add("curve-samples", func(d *pipeline.Options, f *optionFlags) { d.CurveSamples = f.v.CurveSamples })
	f.add("arc-samples", func(d *pipeline.Options, f *optionFlags) { d.ArcSamples = f.v.ArcSamples })
	f.add("seed", func(d *pipeline.Options, f *optionFlags) { d.Seed = f.v.Seed })
}

// bindImage registers the image sampling and tone flags.
func (f *optionFlags) bindImage(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.v.MaxDimension, "max-dimension", pipeline.DefaultMaxDimension, "longest image side after downsampling")
	fs.IntVar(&f.v.AlphaThreshold, "alpha-threshold", pipeline.DefaultAlphaThreshold, "pixels with alpha at or below this are skipped")
	fs.Float64Var(&f.v.Contrast, "contrast", 0, "contrast adjustment in [-100, 100]")
	fs.Float64Var(&f.v.Brightness, "brightness", 0, "brightness adjustment in [-100, 100]")
	fs.StringVar(&f.v.TintColor, "tint", "", "multiply colors by a hex tint (#rrggbb)")

	f.add("max-dimension", func(d *pipeline.Options, f *optionFlags) { d.MaxDimension = f.v.MaxDimension })
	f.add("alpha-threshold", func(d *pipeline.Options, f *optionFlags) { d.AlphaThreshold = f.v.AlphaThreshold })
	f.add("contrast", func(d *pipeline.Options, f *optionFlags) { d.Contrast = f.v.Contrast })
	f.add("brightness", func(d *pipeline.Options, f *optionFlags) { d.Brightness = f.v.Brightness })
	f.add("tint", func(d *pipeline.Options, f *optionFlags) { d.TintColor = f.v.TintColor })
}

// bindAnimation registers the field profile flags.
func (f *optionFlags) bindAnimation(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.radius, "influence-radius", 0, "pointer push radius (0 disables the push)")
	fs.Float64Var(&f.strength, "strength", 0, "pointer push strength (0 disables the push)")
	fs.Float64Var(&f.v.MorphSpeed, "morph-speed", 0, "fraction of the distance covered per tick (0 = default 0.08)")
	fs.BoolVar(&f.v.Grayscale, "grayscale", false, "show particles in grayscale")

	f.add("influence-radius", func(d *pipeline.Options, f *optionFlags) { d.InfluenceRadius = pipeline.Float(f.radius) })
	f.add("strength", func(d *pipeline.Options, f *optionFlags) {
		s := f.strength
		d.Strength = &s
	})
	f.add("morph-speed", func(d *pipeline.Options, f *optionFlags) { d.MorphSpeed = f.v.MorphSpeed })
	f.add("grayscale", func(d *pipeline.Options, f *optionFlags) { d.Grayscale = f.v.Grayscale })
}

// bindShape registers the particle look flags.
func (f *optionFlags) bindShape(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.v.ParticleShape, "shape", pipeline.DefaultShape, "particle shape: circle, square, ring")
	fs.Float64Var(&f.v.ParticleSize, "size", 0, "particle size in world units (0 = source default)")

	f.add("shape", func(d *pipeline.Options, f *optionFlags) { d.ParticleShape = f.v.ParticleShape })
	f.add("size", func(d *pipeline.Options, f *optionFlags) { d.ParticleSize = f.v.ParticleSize })
}

// bindOutput registers the file rendering flags.
func (f *optionFlags) bindOutput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): json (default), svg, png (comma-separated)")
	fs.IntVar(&f.v.Width, "width", pipeline.DefaultWidth, "frame width in pixels")
	fs.IntVar(&f.v.Height, "height", pipeline.DefaultHeight, "frame height in pixels")
	fs.IntVar(&f.v.Ticks, "ticks", 0, "advance the field this many ticks from its entrance before rendering")
	fs.BoolVar(&f.v.Refresh, "refresh", false, "ignore cached conversions")

	f.add("format", func(d *pipeline.Options, f *optionFlags) { d.Formats = parseFormats(f.formats) })
	f.add("width", func(d *pipeline.Options, f *optionFlags) { d.Width = f.v.Width })
	f.add("height", func(d *pipeline.Options, f *optionFlags) { d.Height = f.v.Height })
	f.add("ticks", func(d *pipeline.Options, f *optionFlags) { d.Ticks = f.v.Ticks })
	f.add("refresh", func(d *pipeline.Options, f *optionFlags) { d.Refresh = f.v.Refresh })
}

// bindAll registers every option flag, for commands that accept both
// sources.
func (f *optionFlags) bindAll(cmd *cobra.Command) {
	f.bindIcon(cmd)
	f.bindImage(cmd)
	f.bindAnimation(cmd)
	f.bindShape(cmd)
}

// options resolves the options for source: the config file's section,
// overridden by every flag the user set.
func (f *optionFlags) options(cmd *cobra.Command, cfg *config.Config, source string) pipeline.Options {
	opts := cfg.Options(source)
	for _, s := range f.setters {
		if cmd.Flags().Changed(s.name) {
			s.apply(&opts, f)
		}
	}
	return opts
}
