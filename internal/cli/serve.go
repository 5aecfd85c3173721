package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/celldraw/pkg/cache"
	"github.com/matzehuels/celldraw/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolve and render API over HTTP",
		Long: `Serve the resolve and render API over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/resolve   computed diagram JSON
  POST /v1/render    ?format=svg|json|dot|deps

Use --redis (or [cache] redis_url) to share the cache between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner,
		server.WithLogger(c.Logger),
		server.WithBaseOptions(cfg.PipelineOptions()),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithTimeout(cfg.Server.RequestTimeout.Duration),
	)

	printInfo("Serving celldraw API")
	printKeyValue("address", addr)
	printKeyValue("cache", cacheKind(runner.Cache))

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	c.Logger.Info("server stopped")
	return nil
}

func cacheKind(c cache.Cache) string {
	switch c.(type) {
	case *cache.RedisCache:
		return "redis"
	case *cache.FileCache:
		return "file"
	}
	return "disabled"
}
