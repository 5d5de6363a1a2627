package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphdust/pkg/buildinfo"
	"github.com/matzehuels/glyphdust/pkg/cache"
	"github.com/matzehuels/glyphdust/pkg/config"
	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "glyphdust"

	// redisTimeout bounds the connection check of a Redis cache.
	redisTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	configPath string
	cacheURL   string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Glyphdust turns icons and images into animated particle fields",
		Long: `Glyphdust samples SVG icons and raster images into clouds of colored 3D
particles, animates them toward their shape and renders them as JSON buffers,
SVG or PNG frames, in the terminal, in a desktop window or over HTTP.`,
		Version:       buildinfo.Resolved(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/glyphdust/config.toml)")
	root.PersistentFlags().StringVar(&c.cacheURL, "cache", "", "cache backend: a directory, redis://host:port/db, or 'none'")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.windowCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the --config file, or the default one if it exists.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c.runnerFor(cc, cfg), nil
}

// runnerFor wraps cc in a runner. A [cache] prefix scopes the keys of
// backends that do not prefix them themselves.
func (c *CLI) runnerFor(cc cache.Cache, cfg *config.Config) *pipeline.Runner {
	var keyer cache.Keyer
	if _, redis := cc.(*cache.RedisCache); !redis && cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger)
}

// newCache picks the cache from the flags first, then the config file:
// --no-cache, --cache none|redis://...|<dir>, [cache] backend.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	settings := cfg.Cache
	switch {
	case c.noCache || c.cacheURL == config.BackendNone:
		settings = config.Cache{Backend: config.BackendNone}
	case isRedisURL(c.cacheURL):
		settings = config.Cache{Backend: config.BackendRedis, URL: c.cacheURL, Prefix: cfg.Cache.Prefix}
	case c.cacheURL != "":
		settings = config.Cache{Backend: config.BackendFile, Dir: c.cacheURL}
	}

	switch settings.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, redisTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: settings.URL, Prefix: settings.Prefix})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", redactURL(settings.URL))
		}
		c.Logger.Debug("using redis cache", "url", redactURL(settings.URL))
		return rc, nil
	}

	dir := settings.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

func isRedisURL(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://")
}

// redactURL hides the password of a connection URL for logging.
func redactURL(s string) string {
	at := strings.LastIndex(s, "@")
	scheme := strings.Index(s, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return s
	}
	return s[:scheme+3] + "***" + s[at:]
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/glyphdust/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
