package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/observability"
	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

// Runner executes pipeline stages with caching. The CLI uses a file cache,
// the server a memory or shared one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL overrides [cache.TTLLayout] when positive.
	LayoutTTL time.Duration
}

// NewRunner creates a pipeline runner. A nil cache disables caching, a nil
// keyer means [cache.DefaultKeyer] and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NullCache{}
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs parse, layout and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	start := time.Now()
	g, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.GraphHash = GraphHash(g)
	result.Stats.ParseTime = time.Since(start)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	if opts.VizType == VizTypeTower {
		start = time.Now()
		l, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		result.Layout = l
		result.Stats.LayoutTime = time.Since(start)
		result.CacheInfo.LayoutHit = hit
	}

	start = time.Now()
	artifacts, t, hit, err := r.RenderWithCacheInfo(ctx, g, result.Layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Tower = t
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	return result, nil
}

// Parse reads the BOX document in opts.
func (r *Runner) Parse(ctx context.Context, opts Options) (*dag.DAG, error) {
	r.applyLogger(&opts)
	g, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("parsed graph", "source", opts.Source, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// Layout solves the tower layout for g, using the cache when possible.
func (r *Runner) Layout(ctx context.Context, g *dag.DAG, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// LayoutWithCacheInfo is [Runner.Layout] that also reports a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *dag.DAG, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, false, err
	}

	key := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key, opts.Logger); ok {
			hooks.OnCacheHit(ctx, key)
			if opts.Verify {
				if err := layout.Verify(g, l); err != nil {
					return layout.Layout{}, false, fmt.Errorf("cached layout: %w", err)
				}
			}
			opts.Logger.Debug("layout cache hit", "key", key)
			return l, true, nil
		}
		hooks.OnCacheMiss(ctx, key)
	}

	phooks := observability.Pipeline()
	phooks.OnLayoutStart(ctx, opts.Source, g.NodeCount())
	start := time.Now()

	lopts := opts.Layout
	lopts.Logger = opts.Logger
	l, err := layout.Solve(ctx, g, lopts)
	phooks.OnLayoutComplete(ctx, opts.Source, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if opts.Verify {
		if err := layout.Verify(g, l); err != nil {
			return layout.Layout{}, false, err
		}
	}

	if l.Stats.Optimal {
		if data, err := json.Marshal(l); err == nil {
			if err := r.Cache.Set(ctx, key, data, r.layoutTTL()); err != nil {
				opts.Logger.Warn("failed to cache layout", "error", err)
			} else {
				hooks.OnCacheSet(ctx, key, len(data))
			}
		}
	}
	return l, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string, logger *log.Logger) (layout.Layout, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("layout cache read failed", "error", err)
		return layout.Layout{}, false
	}
	if !ok {
		return layout.Layout{}, false
	}
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		logger.Warn("discarding corrupt cached layout", "key", key, "error", err)
		return layout.Layout{}, false
	}
	return l, true
}

// RenderWithCacheInfo renders every requested format. It reports a cache
// hit only when all formats came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *dag.DAG, l layout.Layout, opts Options) (map[string][]byte, tower.Tower, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, tower.Tower{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	base := r.renderBase(g, l, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				observability.Cache().OnCacheHit(ctx, key)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, key)
		}
		missing = append(missing, format)
	}

	// The tower is cheap to rebuild and is always returned, even when every
	// artifact was cached.
	var t tower.Tower
	var err error
	if opts.VizType == VizTypeTower {
		if t, err = BuildTower(g, l, opts); err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, tower.Tower{}, false, err
		}
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, t, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, _, err := Render(ctx, g, l, sub)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, tower.Tower{}, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("failed to cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	opts.Logger.Debug("rendered", "formats", missing, "cached", len(opts.Formats)-len(missing))
	return artifacts, t, false, nil
}

// renderBase identifies what is drawn: the graph, its layout and the
// document title that goes into SVG output.
func (r *Runner) renderBase(g *dag.DAG, l layout.Layout, opts Options) string {
	var layoutJSON []byte
	if opts.VizType == VizTypeTower {
		layoutJSON, _ = json.Marshal(l.Rects)
	}
	return cache.Hash(fmt.Appendf(nil, "%s|%s|%s", GraphHash(g), layoutJSON, opts.Source))
}

func (r *Runner) layoutTTL() time.Duration {
	if r.LayoutTTL > 0 {
		return r.LayoutTTL
	}
	return cache.TTLLayout
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
