// Package cli implements the celldraw command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/celldraw/pkg/cache"
	"github.com/matzehuels/celldraw/pkg/config"
	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "celldraw"

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

	// Persistent flags
	configPath string
	noCache    bool
	redisURL   string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config loads the config file once. --redis overrides the file.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.redisURL != "" {
		cfg.Cache.RedisURL = c.redisURL
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened disables caching instead of failing the command.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(c.openCache(ctx, cfg), nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) openCache(ctx context.Context, cfg config.Config) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	cc, err := cfg.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache()
	}
	return cc
}

// baseOptions seeds pipeline options from the config file.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.PipelineOptions()
	opts.Logger = c.Logger
	return opts, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory from the config, falling back
// to the per-user cache directory (~/.cache/celldraw on Linux).
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	return cfg.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
