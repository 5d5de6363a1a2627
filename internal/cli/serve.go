package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphdust/internal/server"
	"github.com/matzehuels/glyphdust/pkg/cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		fps        int
		sessionTTL time.Duration
		maxStream  time.Duration
		anyOrigin  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions and particle streams over HTTP",
		Long: `Serve runs an HTTP server exposing the conversion pipeline.

POST /v1/icon takes JSON options with a "markup" field, POST /v1/image takes
a raw image body with options as query parameters. Both answer with the
requested artifact and a Location header pointing at a WebSocket stream
that animates the buffer live.`,
		Example: `  glyphdust serve --addr :8080
  curl -si -X POST localhost:8080/v1/image?max_dimension=120 --data-binary @logo.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runnerCache, err := c.newCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer runnerCache.Close()

			// A shared backend lets several instances stream each other's
			// sessions.
			var sessions cache.Cache
			if rc, ok := runnerCache.(*cache.RedisCache); ok {
				sessions = rc
			}

			scfg := server.Config{
				Sessions:   sessions,
				FPS:        fps,
				SessionTTL: sessionTTL,
				MaxStream:  maxStream,
			}
			if anyOrigin {
				scfg.CheckOrigin = func(*http.Request) bool { return true }
			}
			srv := server.New(c.runnerFor(runnerCache, cfg), scfg, c.Logger)

			printKeyValue("Address", addr)
			printKeyValue("Stream FPS", fmt.Sprint(fps))
			printKeyValue("Sessions", sessionBackend(sessions))

			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&fps, "fps", server.DefaultFPS, "stream tick rate")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", server.DefaultSessionTTL, "how long a conversion stays streamable")
	cmd.Flags().DurationVar(&maxStream, "max-stream", server.DefaultMaxStream, "maximum lifetime of one stream")
	cmd.Flags().BoolVar(&anyOrigin, "any-origin", false, "accept WebSocket connections from any origin")

	return cmd
}

func sessionBackend(c cache.Cache) string {
	if c == nil {
		return "memory"
	}
	return "redis"
}
