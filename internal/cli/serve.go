package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layermerge/pkg/cache"
	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	envFile string
	backend string
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flatten API over HTTP",
		Long: `Serve runs the HTTP API (POST /v1/flatten, /v1/check, /v1/render).

Settings come from the [server] and [cache] sections of the config file,
then from LAYERMERGE_ADDR, LAYERMERGE_CACHE, LAYERMERGE_REDIS_URL,
LAYERMERGE_MONGO_URI and LAYERMERGE_MAX_BODY_BYTES (also read from a .env
file), then from flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Config.applyEnv(opts.envFile); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = opts.addr
			}
			if cmd.Flags().Changed("cache") {
				c.Config.Server.Cache = opts.backend
			}
			if err := c.Config.validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load if present")
	cmd.Flags().StringVar(&opts.backend, "cache", backendMemory, "cache backend: none, memory, file, redis, mongo")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, status io.Writer) error {
	logger := loggerFromContext(ctx)
	cfg := c.Config

	ccfg := cfg.Cache
	ccfg.Backend = cfg.Server.Cache
	store, err := c.openServerCache(ctx, status, ccfg)
	if err != nil {
		return err
	}

	keyer := cache.Keyer(cache.NewDefaultKeyer())
	if ccfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, ccfg.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, logger)
	defer runner.Close()

	srv := server.New(runner, logger, server.Config{
		Addr:            cfg.Server.Addr,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
	})

	printInfo("Serving on %s", StyleLink.Render(srv.Addr()))
	printDetail("cache: %s", ccfg.Backend)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

// openServerCache opens the server's cache. Redis and mongo backends show a
// spinner on status while they connect; the others open instantly.
func (c *CLI) openServerCache(ctx context.Context, status io.Writer, cfg CacheConfig) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	if cfg.Backend != backendRedis && cfg.Backend != backendMongo {
		return newCache(ctx, cfg, logger)
	}

	sp := newSpinner(ctx, status, fmt.Sprintf("Connecting to %s cache...", cfg.Backend))
	sp.start()
	store, err := newCache(ctx, cfg, logger)
	if err != nil {
		sp.fail(fmt.Sprintf("Could not open %s cache", cfg.Backend))
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	if sp.cancelled() {
		sp.stop()
		store.Close()
		return nil, ctx.Err()
	}
	sp.succeed(fmt.Sprintf("Connected to %s cache", cfg.Backend))
	return store, nil
}
