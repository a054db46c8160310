package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flickergrid/flickergrid/pkg/cache"
	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/layout"
	"github.com/flickergrid/flickergrid/pkg/observability"
	"github.com/flickergrid/flickergrid/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
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
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs generate (unless opts carries design text) and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{DesignText: opts.DesignText}

	if result.DesignText == "" {
		start := time.Now()
		text, hit, err := r.GenerateWithCacheInfo(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		result.DesignText = text
		result.Stats.GenerateTime = time.Since(start)
		result.CacheInfo.GenerateHit = hit
		// Generated text always reads back strictly.
		result.Patches, _ = design.ParseSpectral(text)
		opts.DesignText = text

		r.Logger.Info("generated layout",
			"patches", len(result.Patches),
			"seed", opts.Seed,
			"duration", result.Stats.GenerateTime)
	}

	start := time.Now()
	artifacts, report, hit, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Report = report
	result.Stats.RenderTime = time.Since(start)
	result.Stats.PatchCount = len(report.Design)
	result.Stats.Duplicates = len(report.Duplicates)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo lays out a grid for opts.Display and returns the
// design text. Seeded layouts are cached; unseeded ones are always fresh.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return "", false, err
	}

	var key string
	if opts.Seed != 0 {
		key = r.Keyer.DesignKey(opts.Display, opts.Seed)
		if text, ok := r.cached(ctx, key, "design", opts.Refresh); ok {
			return string(text), true, nil
		}
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnGenerateStart(ctx, opts.Display.GridColumns, opts.Display.GridRows)

	var layoutOpts []layout.Option
	if opts.Seed != 0 {
		layoutOpts = append(layoutOpts, layout.WithSeed(opts.Seed))
	}
	patches := layout.Generate(opts.Display, layoutOpts...)
	text := design.Serialize(patches)

	hooks.OnGenerateComplete(ctx, len(patches), time.Since(start))

	if key != "" {
		r.store(ctx, key, "design", []byte(text), cache.TTLDesign)
	}
	return text, false, nil
}

// Generate is GenerateWithCacheInfo without the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (string, error) {
	text, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return text, err
}

// RenderWithCacheInfo renders opts.DesignText in every requested format.
// Duplicate and malformed records are logged as warnings; they never fail
// the render.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (map[string][]byte, render.Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, render.Report{}, false, err
	}

	report := render.Inspect(opts.DesignText)
	r.warn(ctx, report)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(opts.DesignText, opts.ArtifactKeyOpts(format))
		data, ok := r.cached(ctx, key, "artifact", opts.Refresh)
		if !ok {
			allCached = false
			break
		}
		artifacts[format] = data
	}
	if allCached {
		return artifacts, report, true, nil
	}

	hooks := observability.Pipeline()
	for _, format := range opts.Formats {
		start := time.Now()
		hooks.OnRenderStart(ctx, format, len(report.Design))
		data, _, err := RenderFormat(ctx, opts.DesignText, opts.Display, opts.Height, format, opts.sinkOptions()...)
		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, report, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(opts.DesignText, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, "artifact", data, cache.TTLArtifact)
	}
	return artifacts, report, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options) (map[string][]byte, render.Report, error) {
	artifacts, report, _, err := r.RenderWithCacheInfo(ctx, opts)
	return artifacts, report, err
}

func (r *Runner) warn(ctx context.Context, report render.Report) {
	if len(report.Duplicates) > 0 {
		pids := make([]string, len(report.Duplicates))
		for i, d := range report.Duplicates {
			r.Logger.Warn("duplicate patch id", "pid", d.PID, "count", d.Count)
			pids[i] = d.PID
		}
		observability.Pipeline().OnDuplicates(ctx, pids)
	}
	for _, pid := range report.Malformed {
		r.Logger.Warn("malformed patch geometry, drawn at 0", "pid", pid)
	}
}

func (r *Runner) cached(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
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
