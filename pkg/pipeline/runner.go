package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/celldraw/pkg/buildinfo"
	"github.com/matzehuels/celldraw/pkg/cache"
	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the cache package's entry lifetimes when positive.
	TTL time.Duration
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

// Execute runs the complete decode → resolve → render pipeline with caching.
//
// If the diagram itself is invalid or cyclic, Execute returns the partial
// result (Diagram set, Artifacts holding whatever could be rendered) together
// with the coded error, so callers can still print the error document.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		SpecHash:  cache.SpecHash(data),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1+2: Decode and resolve
	resolveStart := time.Now()
	spec, d, hit, err := r.ResolveWithCacheInfo(ctx, data, opts)
	result.Spec = spec
	result.Diagram = d
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.ResolveHit = hit
	if spec != nil {
		result.Stats.NodeCount = len(spec.Nodes)
		result.Stats.ArrowCount = len(spec.Arrows)
	}
	result.Stats.Resolved = len(d.Arrows)
	if err != nil {
		if jsonData, merr := MarshalDiagram(d); merr == nil {
			result.Artifacts[FormatJSON] = jsonData
		}
		return result, err
	}

	r.Logger.Info("resolved diagram",
		"nodes", result.Stats.NodeCount,
		"arrows", result.Stats.Resolved,
		"dropped", result.Stats.ArrowCount-result.Stats.Resolved,
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, spec, d, data, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveWithCacheInfo decodes and resolves data, consulting the cache
// first. Only successful resolutions are cached. On failure the returned
// diagram carries the error and err is its coded form.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, data []byte, opts Options) (*diagram.Spec, *diagram.ComputedDiagram, bool, error) {
	r.applyLogger(&opts)
	opts.SetResolveDefaults()

	spec, err := Parse(data)
	if err != nil {
		return nil, diagram.Failed(err), false, err
	}

	cacheKey := r.diagramKey(data, opts)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var d diagram.ComputedDiagram
			if err := json.Unmarshal(cached, &d); err == nil && d.Error == nil {
				r.Logger.Debug("diagram cache hit", "key", cacheKey)
				observability.Cache().OnCacheHit(ctx, "diagram")
				return spec, &d, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "diagram")
	}

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, len(spec.Arrows))
	start := time.Now()
	d := diagram.Resolve(spec, opts.ResolveOptions()...)
	hooks.OnResolveComplete(ctx, len(d.Arrows), len(spec.Arrows)-len(d.Arrows), time.Since(start), d.Err())
	if err := d.Err(); err != nil {
		return spec, d, false, err
	}

	if encoded, err := json.Marshal(d); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, encoded, r.ttl(cache.TTLDiagram)); err != nil {
			r.Logger.Warn("cache store failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "diagram", len(encoded))
		}
	}
	return spec, d, false, nil
}

// Resolve is a convenience wrapper that calls ResolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Resolve(ctx context.Context, data []byte, opts Options) (*diagram.ComputedDiagram, error) {
	_, d, _, err := r.ResolveWithCacheInfo(ctx, data, opts)
	return d, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, spec *diagram.Spec, d *diagram.ComputedDiagram, data []byte, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	diagramKey := r.diagramKey(data, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(diagramKey, r.artifactKeyOpts(format, opts))
		if !opts.Refresh {
			if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = cached
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, spec, d, sub)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, out := range rendered {
		artifacts[format] = out
		key := r.Keyer.ArtifactKey(diagramKey, r.artifactKeyOpts(format, opts))
		if err := r.Cache.Set(ctx, key, out, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Warn("cache store failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(out))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) diagramKey(data []byte, opts Options) string {
	return r.Keyer.DiagramKey(cache.SpecHash(data), cache.DiagramKeyOpts{
		NodeRadius:  opts.NodeRadius,
		ViewPadding: opts.ViewPadding,
		Version:     buildinfo.Version,
	})
}

func (r *Runner) artifactKeyOpts(format string, opts Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.EmbedFont, k.Outlines = opts.EmbedFont, opts.Outlines
	case FormatDOT, FormatDeps:
		k.Detailed = opts.Detailed
	}
	return k
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
