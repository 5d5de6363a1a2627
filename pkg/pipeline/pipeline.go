// Package pipeline provides the conversion pipeline for glyphdust.
//
// This package implements the complete convert → animate → render pipeline
// used by the CLI commands and the HTTP server. By centralizing this logic,
// every entry point applies the same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Convert: Turn icon markup or an encoded image into a particle buffer
//  2. Animate: Optionally advance a field from its entrance toward the buffer
//  3. Render: Generate output in various formats (JSON, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  pipeline.SourceIcon,
//	    Markup:  svg,
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	// Convert only
//	buf, err := runner.Icon(ctx, opts)
//
//	// Render an existing buffer
//	artifacts, err := pipeline.Render(buf, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphdust/pkg/cache"
	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/render"
	"github.com/matzehuels/glyphdust/pkg/sample"
	"github.com/matzehuels/glyphdust/pkg/svgpath"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultParticleCount is the number of particles of an icon field.
	DefaultParticleCount = 20000

	// MaxParticleCount bounds icon fields.
	MaxParticleCount = 1_000_000

	// MaxTicks bounds the ticks run before rendering a still. A default
	// morph settles in about 110.
	MaxTicks = 1000

	// DefaultDepth is the z amplitude of icon particles.
	DefaultDepth = 0.12

	// DefaultMaxDimension caps the longer side of a sampled image, and so
	// the density of image particles.
	DefaultMaxDimension = sample.DefaultMaxDimension

	// MaxMaxDimension bounds image sampling to about a million particles.
	MaxMaxDimension = 1024

	// DefaultAlphaThreshold is the exclusive minimum alpha of an image
	// particle.
	DefaultAlphaThreshold = sample.DefaultAlphaThreshold

	// DefaultWidth and DefaultHeight are the rendered frame size in pixels.
	DefaultWidth  = 800
	DefaultHeight = 600

	// DefaultShape is the default particle sprite.
	DefaultShape = string(render.ShapeCircle)
)

// Source constants name the pipeline input.
const (
	SourceIcon  = "icon"
	SourceImage = "image"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidSources is the set of supported inputs.
var ValidSources = map[string]bool{
	SourceIcon:  true,
	SourceImage: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests and TOML for the
// configuration file.
type Options struct {
	// Input
	Source string `json:"source" toml:"-"`
	Markup string `json:"markup,omitempty" toml:"-"`
	Image  []byte `json:"-" toml:"-"`

	// Icon conversion options
	ParticleCount int      `json:"particle_count,omitempty" toml:"particle_count,omitempty"`
	Depth         *float64 `json:"depth,omitempty" toml:"depth,omitempty"`
	Exact         bool     `json:"exact,omitempty" toml:"exact,omitempty"`
	CurveSamples  int      `json:"curve_samples,omitempty" toml:"curve_samples,omitempty"`
	ArcSamples    int      `json:"arc_samples,omitempty" toml:"arc_samples,omitempty"`
	// Seed 0 draws from entropy. The Runner caches the result under seed 0,
	// so repeat conversions reuse it until Refresh.
	Seed          uint64   `json:"seed,omitempty" toml:"seed,omitempty"`

	// Image conversion options
	MaxDimension   int     `json:"max_dimension,omitempty" toml:"max_dimension,omitempty"`
	AlphaThreshold int     `json:"alpha_threshold,omitempty" toml:"alpha_threshold,omitempty"`
	Contrast       float64 `json:"contrast,omitempty" toml:"contrast,omitempty"`
	Brightness     float64 `json:"brightness,omitempty" toml:"brightness,omitempty"`
	TintColor      string  `json:"tint_color,omitempty" toml:"tint_color,omitempty"`
	Grayscale      bool    `json:"grayscale,omitempty" toml:"grayscale,omitempty"`

	// Animation options. Nil pointers and zero values select the source's
	// profile; an explicit 0 radius or strength disables the push.
	InfluenceRadius *float64 `json:"influence_radius,omitempty" toml:"influence_radius,omitempty"`
	Strength        *float64 `json:"strength,omitempty" toml:"strength,omitempty"`
	MorphSpeed      float64  `json:"morph_speed,omitempty" toml:"morph_speed,omitempty"`
	Ticks           int      `json:"ticks,omitempty" toml:"ticks,omitempty"`

	// Render options
	ParticleShape string   `json:"particle_shape,omitempty" toml:"particle_shape,omitempty"`
	ParticleSize  float64  `json:"particle_size,omitempty" toml:"particle_size,omitempty"`
	Formats       []string `json:"formats,omitempty" toml:"formats,omitempty"`
	Width         int      `json:"width,omitempty" toml:"width,omitempty"`
	Height        int      `json:"height,omitempty" toml:"height,omitempty"`

	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Buffer is the converted target.
	Buffer field.Buffer

	// Frame is the buffer after Ticks ticks from the entrance, or the
	// buffer itself when Ticks is zero.
	Frame field.Buffer

	// Profile is the animation profile the buffer is meant for.
	Profile field.Profile

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Particles   int
	Primitives  int
	Subpaths    int
	Segments    int
	Fallback    bool
	ConvertTime time.Duration
	AnimateTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ConvertHit bool // Whether the buffer came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: json, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that a source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid source: %q (must be one of: icon, image)", source)
	}
	return nil
}

// ValidateShape checks that a particle shape is valid.
func ValidateShape(shape string) error {
	if _, err := render.ParseShape(shape); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidShape, err, "particle_shape")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	var err error
	if o.IsImage() {
		err = o.ValidateForImage()
	} else {
		err = o.ValidateForIcon()
	}
	if err != nil {
		return err
	}
	if err := o.ValidateForAnimation(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForIcon checks icon conversion options and applies defaults.
func (o *Options) ValidateForIcon() error {
	if o.ParticleCount == 0 {
		o.ParticleCount = DefaultParticleCount
	}
	if o.Depth == nil {
		o.Depth = Float(DefaultDepth)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidateIntRange("particle_count", o.ParticleCount, 1, MaxParticleCount); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("depth", *o.Depth); err != nil {
		return err
	}
	if o.CurveSamples < 0 || o.ArcSamples < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sample counts must not be negative")
	}
	return nil
}

// ValidateForImage checks image conversion options and applies defaults.
func (o *Options) ValidateForImage() error {
	if o.MaxDimension == 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.AlphaThreshold == 0 {
		o.AlphaThreshold = DefaultAlphaThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidateIntRange("max_dimension", o.MaxDimension, 1, MaxMaxDimension); err != nil {
		return err
	}
	if err := errors.ValidateIntRange("alpha_threshold", o.AlphaThreshold, 0, 254); err != nil {
		return err
	}
	if _, err := o.Tone(); err != nil {
		return err
	}
	return nil
}

// ValidateForAnimation checks the animation profile and tick count.
func (o *Options) ValidateForAnimation() error {
	if err := errors.ValidateIntRange("ticks", o.Ticks, 0, MaxTicks); err != nil {
		return err
	}
	return o.Profile().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.ParticleShape == "" {
		o.ParticleShape = DefaultShape
	}
	if o.ParticleSize == 0 {
		if o.IsImage() {
			o.ParticleSize = render.DefaultImageSize
		} else {
			o.ParticleSize = render.DefaultIconSize
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateShape(o.ParticleShape); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("particle_size", o.ParticleSize); err != nil {
		return err
	}
	if err := errors.ValidateIntRange("width", o.Width, 1, 8192); err != nil {
		return err
	}
	return errors.ValidateIntRange("height", o.Height, 1, 8192)
}

// IsImage returns true if the input is an encoded image.
func (o *Options) IsImage() bool {
	return o.Source == SourceImage
}

// Profile returns the field profile: the source's deployment profile with
// any explicitly set constants applied.
func (o *Options) Profile() field.Profile {
	p := field.IconProfile
	if o.IsImage() {
		p = field.ImageProfile
	}
	if o.InfluenceRadius != nil {
		p.InfluenceRadius = float32(*o.InfluenceRadius)
	}
	if o.Strength != nil {
		p.Strength = float32(*o.Strength)
	}
	if o.MorphSpeed != 0 {
		p.MorphSpeed = float32(o.MorphSpeed)
	}
	return p
}

// Tone returns the image color adjustment.
func (o *Options) Tone() (sample.Tone, error) {
	tint, err := sample.ParseTint(o.TintColor)
	if err != nil {
		return sample.Tone{}, err
	}
	t := sample.Tone{Contrast: o.Contrast, Brightness: o.Brightness, Tint: tint}
	return t, t.Validate()
}

// depth returns the z amplitude, DefaultDepth when unset.
func (o *Options) depth() float64 {
	if o.Depth == nil {
		return DefaultDepth
	}
	return *o.Depth
}

// Float returns a pointer to v, for the optional Options fields.
func Float(v float64) *float64 { return &v }

// Rand returns the random source for sampling and seeding.
func (o *Options) Rand() sample.Source {
	return sample.NewSource(o.Seed)
}

// ShapeOptions returns the icon sampling options.
func (o *Options) ShapeOptions() sample.ShapeOptions {
	return sample.ShapeOptions{Count: o.ParticleCount, Depth: o.depth(), Rand: o.Rand()}
}

// FlattenOptions returns the path flattening options.
func (o *Options) FlattenOptions() svgpath.Options {
	return svgpath.Options{CurveSamples: o.CurveSamples, ArcSamples: o.ArcSamples, Exact: o.Exact}
}

// PixelOptions returns the image sampling options.
func (o *Options) PixelOptions() (sample.PixelOptions, error) {
	tone, err := o.Tone()
	if err != nil {
		return sample.PixelOptions{}, err
	}
	return sample.PixelOptions{
		MaxDimension:   o.MaxDimension,
		AlphaThreshold: uint8(o.AlphaThreshold),
		Scale:          sample.DefaultPixelScale,
		Tone:           tone,
	}, nil
}

// Camera returns the render camera for the source.
func (o *Options) Camera() render.Camera {
	d := float32(render.IconDistance)
	if o.IsImage() {
		d = render.ImageDistance
	}
	return render.NewCamera(d, o.Width, o.Height)
}

// Frame returns the render style for the source applied to a buffer.
func (o *Options) Frame(buf field.Buffer) render.Frame {
	shape, _ := render.ParseShape(o.ParticleShape)
	if o.IsImage() {
		return render.ImageFrame(buf.Positions, buf.Colors, shape, float32(o.ParticleSize))
	}
	f := render.IconFrame(buf.Positions, buf.Colors)
	f.Shape = shape
	if o.ParticleSize > 0 {
		f.Size = float32(o.ParticleSize)
	}
	return f
}

// IconKeyOpts returns cache key options for icon conversion.
func (o *Options) IconKeyOpts() cache.IconKeyOpts {
	return cache.IconKeyOpts{
		Count:        o.ParticleCount,
		Depth:        o.depth(),
		Seed:         o.Seed,
		Exact:        o.Exact,
		CurveSamples: o.CurveSamples,
		ArcSamples:   o.ArcSamples,
	}
}

// ImageKeyOpts returns cache key options for image conversion.
func (o *Options) ImageKeyOpts() cache.ImageKeyOpts {
	return cache.ImageKeyOpts{
		MaxDimension:   o.MaxDimension,
		AlphaThreshold: o.AlphaThreshold,
		Scale:          sample.DefaultPixelScale,
		Contrast:       o.Contrast,
		Brightness:     o.Brightness,
		Tint:           o.TintColor,
	}
}

// String summarizes the conversion-relevant options for logs.
func (o *Options) String() string {
	if o.IsImage() {
		return fmt.Sprintf("image max=%d contrast=%g brightness=%g tint=%q", o.MaxDimension, o.Contrast, o.Brightness, o.TintColor)
	}
	return fmt.Sprintf("icon count=%d depth=%g exact=%v", o.ParticleCount, o.depth(), o.Exact)
}
