package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/glyphdust/pkg/cache"
	"github.com/matzehuels/glyphdust/pkg/field"
	gio "github.com/matzehuels/glyphdust/pkg/io"
	"github.com/matzehuels/glyphdust/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the server both use it so that caching behaves the same.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
//
// Icon conversions are keyed on their options, Seed included. An
// unseeded (Seed 0) conversion is therefore cached like any other: later
// unseeded requests for the same markup get the first cloud back until
// the entry expires or Refresh is set.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete convert → animate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Profile: opts.Profile()}

	// Stage 1: Convert
	convertStart := time.Now()
	conv, hit, err := r.ConvertWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	result.Buffer = conv.Buffer
	result.Stats.ConvertTime = time.Since(convertStart)
	result.Stats.Particles = conv.Buffer.Len()
	result.Stats.Primitives = conv.Primitives
	result.Stats.Subpaths = conv.Subpaths
	result.Stats.Segments = conv.Segments
	result.Stats.Fallback = conv.Fallback
	result.CacheInfo.ConvertHit = hit

	// Stage 2: Animate
	animateStart := time.Now()
	frame, err := Animate(conv.Buffer, opts)
	if err != nil {
		return nil, fmt.Errorf("animate: %w", err)
	}
	result.Frame = frame
	result.Stats.AnimateTime = time.Since(animateStart)
	if opts.Ticks > 0 {
		r.Logger.Info("advanced field",
			"ticks", opts.Ticks,
			"duration", result.Stats.AnimateTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(frame, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ConvertWithCacheInfo runs the conversion for opts.Source and returns
// cache hit info.
func (r *Runner) ConvertWithCacheInfo(ctx context.Context, opts Options) (Conversion, bool, error) {
	if err := ValidateSource(opts.Source); err != nil {
		return Conversion{}, false, err
	}
	if opts.IsImage() {
		return r.ImageWithCacheInfo(ctx, opts)
	}
	return r.IconWithCacheInfo(ctx, opts)
}

// IconWithCacheInfo converts icon markup with caching and returns cache hit info.
func (r *Runner) IconWithCacheInfo(ctx context.Context, opts Options) (Conversion, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForIcon(); err != nil {
		return Conversion{}, false, err
	}

	key := r.Keyer.IconKey(cache.Hash([]byte(opts.Markup)), opts.IconKeyOpts())
	return r.convert(ctx, SourceIcon, key, cache.IconTTL, opts, ConvertIcon)
}

// Icon is a convenience wrapper that calls IconWithCacheInfo and returns the buffer.
func (r *Runner) Icon(ctx context.Context, opts Options) (field.Buffer, error) {
	conv, _, err := r.IconWithCacheInfo(ctx, opts)
	return conv.Buffer, err
}

// ImageWithCacheInfo converts an encoded image with caching and returns cache hit info.
func (r *Runner) ImageWithCacheInfo(ctx context.Context, opts Options) (Conversion, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForImage(); err != nil {
		return Conversion{}, false, err
	}

	key := r.Keyer.ImageKey(cache.Hash(opts.Image), opts.ImageKeyOpts())
	return r.convert(ctx, SourceImage, key, cache.ImageTTL, opts, ConvertImage)
}

// Image is a convenience wrapper that calls ImageWithCacheInfo and returns the buffer.
func (r *Runner) Image(ctx context.Context, opts Options) (field.Buffer, error) {
	conv, _, err := r.ImageWithCacheInfo(ctx, opts)
	return conv.Buffer, err
}

func (r *Runner) convert(ctx context.Context, source, key string, ttl time.Duration, opts Options,
	fn func(Options) (Conversion, error)) (Conversion, bool, error) {
	hooks := observability.Conversion()
	hooks.OnConvertStart(ctx, source)
	start := time.Now()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := gio.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, source)
				conv := Conversion{Buffer: doc.Buffer()}
				hooks.OnConvertComplete(ctx, source, conv.Buffer.Len(), time.Since(start), nil)
				opts.Logger.Debug("conversion cache hit", "source", source)
				return conv, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, source)
	}

	conv, err := fn(opts)
	hooks.OnConvertComplete(ctx, source, conv.Buffer.Len(), time.Since(start), err)
	if err != nil {
		return Conversion{}, false, err
	}
	if conv.Fallback {
		hooks.OnFallback(ctx, "no usable outline")
		opts.Logger.Warn("markup has no usable outline, using fallback disk",
			"primitives", conv.Primitives)
	}
	opts.Logger.Info("converted "+source,
		"particles", conv.Buffer.Len(),
		"subpaths", conv.Subpaths,
		"segments", conv.Segments,
		"duration", time.Since(start))

	// Cache the result
	if data, err := gio.Marshal(gio.NewDocument(conv.Buffer, gio.Source(source), nil)); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, source, len(data))
		}
	}

	return conv, false, nil // Cache miss
}

// Icons converts several markups concurrently with the same options. The
// result order matches markups; the first error cancels the rest.
func (r *Runner) Icons(ctx context.Context, markups []string, opts Options) ([]field.Buffer, error) {
	out := make([]field.Buffer, len(markups))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range markups {
		o := opts
		o.Markup = m
		if opts.Seed != 0 {
			o.Seed = opts.Seed + uint64(i)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := r.Icon(ctx, o)
			if err != nil {
				return fmt.Errorf("icon %d: %w", i, err)
			}
			out[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
