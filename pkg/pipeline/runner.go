package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner doesn't store pipeline results. Multiple goroutines can safely
// use the same Runner with different options; concurrent layouts of the same
// graph and options are computed once.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.LayoutTTL and cache.ArtifactTTL when positive.
	TTL time.Duration

	flight singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.Disabled("no cache configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	if reason, off := cache.IsDisabled(c); off {
		logger.Debug("caching disabled", "reason", reason)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g := opts.Graph
	if g == nil {
		var err error
		if g, err = r.Load(ctx, opts.Input); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	result.Graph = g
	result.GraphHash = g.Hash()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("loaded graph",
		"nodes", g.Len(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	file, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = file
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"passes", file.Passes,
		"max_displacement", file.Stats.MaxDisplacement,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, file, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads a node-link JSON graph file.
func (r *Runner) Load(ctx context.Context, path string) (*graph.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, err := graph.ReadFile(path)
	n := 0
	if g != nil {
		n = g.Len()
	}
	hooks.OnLoadComplete(ctx, path, n, time.Since(start), err)
	return g, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (layout.File, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.File{}, false, err
	}

	key := r.Keyer.LayoutKey(g.Hash(), opts.LayoutKeyOpts())

	type outcome struct {
		file layout.File
		hit  bool
	}
	v, err, shared := r.flight.Do(key, func() (any, error) {
		if !opts.Refresh {
			if f, ok := r.cachedLayout(ctx, key); ok {
				return outcome{f, true}, nil
			}
		}

		hooks := observability.Pipeline()
		hooks.OnLayoutStart(ctx, g.Len(), opts.Passes)
		start := time.Now()
		f, err := ComputeLayout(ctx, g, opts)
		hooks.OnLayoutComplete(ctx, g.Len(), opts.Passes, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		if data, err := layout.Marshal(f); err == nil {
			r.store(ctx, key, keyTypeLayout, data, r.ttl(cache.LayoutTTL))
		}
		return outcome{f, false}, nil
	})
	if err != nil {
		return layout.File{}, false, err
	}
	if shared {
		r.Logger.Debug("joined in-flight layout", "key", key)
	}
	o := v.(outcome)
	return o.file, o.hit, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (layout.File, error) {
	f, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return f, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every format came from the cache. Only the missing formats are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f layout.File, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(f)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, key, keyTypeArtifact); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := RenderLayout(ctx, f, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, keyTypeArtifact, data, r.ttl(cache.ArtifactTTL))
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, f layout.File, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedLayout returns the cached layout for key. Entries that no longer
// decode are treated as misses.
func (r *Runner) cachedLayout(ctx context.Context, key string) (layout.File, bool) {
	data, ok := r.lookup(ctx, key, keyTypeLayout)
	if !ok {
		return layout.File{}, false
	}
	f, err := layout.Unmarshal(data)
	if err != nil {
		r.Logger.Warn("discarding unreadable cached layout", "key", key, "error", err)
		return layout.File{}, false
	}
	return f, true
}

// lookup reads key from the cache. Cache failures degrade to a miss.
func (r *Runner) lookup(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

// store writes to the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
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
