// Package config loads glyphdust's TOML configuration file.
//
// The file has one section per pipeline source plus shared render and
// cache settings:
//
//	[icon]
//	particle_count = 12000
//	depth = 0.2
//
//	[image]
//	max_dimension = 256
//	tint_color = "#66ccff"
//	strength = 0.3
//
//	[render]
//	particle_shape = "ring"
//	formats = ["png"]
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//
// Values left out keep the pipeline defaults. Command-line flags override
// the file.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Icon   pipeline.Options `toml:"icon"`
	Image  pipeline.Options `toml:"image"`
	Render Render           `toml:"render"`
	Cache  Cache            `toml:"cache"`
}

// Render holds render settings shared by both sources. Per-source values
// in [icon] or [image] take precedence.
type Render struct {
	ParticleShape string   `toml:"particle_shape,omitempty"`
	Formats       []string `toml:"formats,omitempty"`
	Width         int      `toml:"width,omitempty"`
	Height        int      `toml:"height,omitempty"`
}

// Cache selects the conversion cache.
type Cache struct {
	// Backend is "file" (default), "redis" or "none".
	Backend string `toml:"backend,omitempty"`

	// Dir overrides the file cache directory.
	Dir string `toml:"dir,omitempty"`

	// URL is the Redis connection URL.
	URL string `toml:"url,omitempty"`

	// Prefix namespaces cache keys so several setups can share a backend.
	Prefix string `toml:"prefix,omitempty"`
}

// DefaultPath returns the configuration file location following the XDG
// standard (~/.config/glyphdust/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "glyphdust", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "glyphdust", FileName), nil
}

// Load reads the file at path. An empty path means DefaultPath, where a
// missing file yields an empty Config; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return &Config{}, nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses and validates TOML. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks both sections against the pipeline's rules and the
// cache backend name.
func (c *Config) Validate() error {
	for _, src := range []string{pipeline.SourceIcon, pipeline.SourceImage} {
		opts := c.Options(src)
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "[%s]", src)
		}
	}
	switch c.Cache.Backend {
	case "", BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache] redis backend needs a url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	return nil
}

// Options returns the pipeline options for a source: its section with the
// shared render settings filled in.
func (c *Config) Options(source string) pipeline.Options {
	var opts pipeline.Options
	if source == pipeline.SourceImage {
		opts = c.Image
	} else {
		opts = c.Icon
	}
	opts.Source = source
	opts.Formats = append([]string(nil), opts.Formats...)
	if opts.ParticleShape == "" {
		opts.ParticleShape = c.Render.ParticleShape
	}
	if len(opts.Formats) == 0 {
		opts.Formats = append(opts.Formats, c.Render.Formats...)
	}
	if opts.Width == 0 {
		opts.Width = c.Render.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Render.Height
	}
	for _, f := range []**float64{&opts.Depth, &opts.InfluenceRadius, &opts.Strength} {
		if *f != nil {
			*f = pipeline.Float(**f)
		}
	}
	return opts
}

// Effective returns a copy with every pipeline default spelled out.
func (c *Config) Effective() *Config {
	out := *c
	icon := c.Options(pipeline.SourceIcon)
	image := c.Options(pipeline.SourceImage)
	// Errors leave the offending section as written.
	_ = icon.ValidateAndSetDefaults()
	_ = image.ValidateAndSetDefaults()
	for _, o := range []*pipeline.Options{&icon, &image} {
		if o.Strength == nil {
			s := widen(o.Profile().Strength)
			o.Strength = &s
		}
		p := o.Profile()
		o.InfluenceRadius = pipeline.Float(widen(p.InfluenceRadius))
		o.MorphSpeed = widen(p.MorphSpeed)
		o.Logger = nil
	}
	out.Icon, out.Image = icon, image
	if out.Cache.Backend == "" {
		out.Cache.Backend = BackendFile
	}
	return &out
}

// widen converts without exposing float32 rounding in the written file.
func widen(f float32) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	return v
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
