package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treeflow/pkg/cache"
	"github.com/matzehuels/treeflow/pkg/convert"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/lifecycle"
	"github.com/matzehuels/treeflow/pkg/observability"
	"github.com/matzehuels/treeflow/pkg/render/canvas"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/source"
	"github.com/matzehuels/treeflow/pkg/tree"
)

// The canvas is the surface the lifecycle controller drives.
var _ lifecycle.Surface = (*canvas.SVG)(nil)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs one lifecycle against src and exports the fitted canvas in
// every requested format. On failure the returned Result still carries the
// lifecycle id and final state.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	surface := r.newSurface(opts)
	ctrl := r.newController(r.attachCache(src, opts), surface, opts)

	result := &Result{
		LifecycleID: ctrl.ID(),
		Artifacts:   make(map[string][]byte),
	}

	cycleStart := time.Now()
	err := ctrl.Activate(ctx)
	result.State = ctrl.State()
	result.Stats.CycleTime = time.Since(cycleStart)
	if err != nil {
		return result, err
	}

	g := ctrl.Graph()
	result.Graph = g
	result.Warnings = ctrl.Warnings()
	result.TreeHash = cache.Hash(ctrl.Raw())
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.WarningCount = len(result.Warnings)

	opts.Logger.Info("rendered tree",
		"source", src.String(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"warnings", len(result.Warnings),
		"state", result.State,
		"duration", result.Stats.CycleTime)

	if err := applyStates(ctx, surface, opts); err != nil {
		return result, err
	}

	exportStart := time.Now()
	artifacts, hit, err := r.ExportWithCacheInfo(ctx, surface, result.TreeHash, opts)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = hit

	opts.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// ExportWithCacheInfo exports the rendered surface and returns cache hit
// info. Artifacts are served from the cache only when every requested
// format is present.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, surface *canvas.SVG, treeHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}

	rendered, err := Export(ctx, surface, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// convertEntry is the cached form of a conversion result.
type convertEntry struct {
	Graph    json.RawMessage   `json:"graph"`
	Warnings []convert.Warning `json:"warnings,omitempty"`
}

// ConvertWithCacheInfo parses raw tree JSON and converts it to a graph,
// caching the result by the hash of raw.
func (r *Runner) ConvertWithCacheInfo(ctx context.Context, raw []byte, opts Options) (*convert.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.GraphKey(cache.Hash(raw))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if res, err := decodeEntry(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return res, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	rec, err := tree.Parse(raw)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse tree")
	}
	res, err := convert.Convert(rec, convert.WithLogger(opts.Logger), convert.WithContext(ctx))
	if err != nil {
		return nil, false, err
	}

	if data, err := encodeEntry(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	return res, false, nil
}

// Convert is a convenience wrapper that calls ConvertWithCacheInfo and discards the cache hit info.
func (r *Runner) Convert(ctx context.Context, raw []byte, opts Options) (*convert.Result, error) {
	res, _, err := r.ConvertWithCacheInfo(ctx, raw, opts)
	return res, err
}

func encodeEntry(res *convert.Result) ([]byte, error) {
	g, err := graph.Marshal(res.Graph)
	if err != nil {
		return nil, err
	}
	return json.Marshal(convertEntry{Graph: g, Warnings: res.Warnings})
}

func decodeEntry(data []byte) (*convert.Result, error) {
	var e convertEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	g, err := graph.Unmarshal(e.Graph)
	if err != nil {
		return nil, err
	}
	return &convert.Result{Graph: g, Warnings: e.Warnings}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) newSurface(opts Options) *canvas.SVG {
	copts := []canvas.Option{
		canvas.WithFrame(opts.Width, opts.Height),
		canvas.WithPalette(opts.Palette),
		canvas.WithLogger(opts.Logger),
	}
	if !opts.IsInteractive() {
		copts = append(copts, canvas.WithoutInteraction())
	}
	return canvas.New(copts...)
}

func (r *Runner) newController(src source.Source, surface *canvas.SVG, opts Options) *lifecycle.Controller {
	lopts := []lifecycle.Option{
		lifecycle.WithLogger(opts.Logger),
		lifecycle.WithRegistry(shape.DefaultRegistry(opts.Resolver()), shape.NodeType),
		lifecycle.WithLayout(opts.LayoutEngine()),
	}
	if opts.LifecycleID != uuid.Nil {
		lopts = append(lopts, lifecycle.WithID(opts.LifecycleID))
	}
	return lifecycle.New(src, surface, lopts...)
}

// attachCache gives HTTP sources without a cache the runner's cache, so
// fetched trees are shared across runs.
func (r *Runner) attachCache(src source.Source, opts Options) source.Source {
	h, ok := src.(*source.HTTP)
	if !ok || h.Cache != nil {
		return src
	}
	cp := *h
	cp.Cache = r.Cache
	cp.Keyer = r.Keyer
	cp.Refresh = cp.Refresh || opts.Refresh
	if cp.Logger == nil {
		cp.Logger = opts.Logger
	}
	return &cp
}

// applyStates records the requested interaction states and redraws. The
// redraw keeps the fitted viewBox.
func applyStates(ctx context.Context, surface *canvas.SVG, opts Options) error {
	if len(opts.states) == 0 {
		return nil
	}
	for id, st := range opts.states {
		surface.SetState(id, st)
	}
	return surface.Render(ctx)
}
