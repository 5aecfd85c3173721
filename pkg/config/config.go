// Package config loads celldraw settings from a TOML file.
//
// A config file is optional. Missing keys keep their defaults:
//
//	[geometry]
//	node_radius = 25.0
//	view_padding = 40.0
//
//	[cache]
//	dir = "~/.cache/celldraw"
//	ttl = "168h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	max_body_bytes = 8388608
//	request_timeout = "30s"
//
// Environment variables (CELLDRAW_CACHE_DIR, CELLDRAW_REDIS_URL,
// CELLDRAW_ADDR) override the file.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/celldraw/pkg/cache"
	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/errors"
	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Config holds all settings.
type Config struct {
	Geometry Geometry `toml:"geometry"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
}

// Geometry configures the resolver.
type Geometry struct {
	NodeRadius  float64 `toml:"node_radius"`
	ViewPadding float64 `toml:"view_padding"`
}

// Cache selects and configures the cache backend. A non-empty RedisURL
// selects Redis over the file cache.
type Cache struct {
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Geometry: Geometry{
			NodeRadius:  diagram.DefaultNodeRadius,
			ViewPadding: diagram.DefaultViewPadding,
		},
		Cache: Cache{
			TTL: Duration{cache.TTLDiagram},
		},
		Server: Server{
			Addr:           ":8080",
			MaxBodyBytes:   pipeline.MaxInputSize,
			RequestTimeout: Duration{30 * time.Second},
		},
	}
}

// DefaultPath returns the config file path in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "celldraw", FileName), nil
}

// Load reads the config at path. An empty path reads the default location,
// where a missing file just yields the defaults; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return finish(Default())
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return finish(Default())
	}
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return finish(cfg)
}

// Parse decodes TOML over the defaults. Unknown keys are rejected so typos
// do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

func finish(cfg Config) (Config, error) {
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables read via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("CELLDRAW_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := getenv("CELLDRAW_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv("CELLDRAW_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateMagnitude("geometry.node_radius", c.Geometry.NodeRadius, diagram.MaxCoordinate); err != nil {
		return err
	}
	if err := errors.ValidateMagnitude("geometry.view_padding", c.Geometry.ViewPadding, diagram.MaxCoordinate); err != nil {
		return err
	}
	if c.Geometry.NodeRadius < 0 || c.Geometry.ViewPadding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "geometry values cannot be negative")
	}
	if c.Cache.TTL.Duration < 0 || c.Server.RequestTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations cannot be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes cannot be negative")
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	}
	return nil
}

// PipelineOptions returns resolve options seeded from the geometry section.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		NodeRadius:  c.Geometry.NodeRadius,
		ViewPadding: c.Geometry.ViewPadding,
	}
}

// CacheDir returns the configured file cache directory or the default one.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// OpenCache opens the configured backend: Redis when a URL is set,
// otherwise the file cache.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	if c.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "locate cache directory")
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "open cache %s", dir)
	}
	return fc, nil
}
