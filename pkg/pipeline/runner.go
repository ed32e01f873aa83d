package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/analogtopo/pkg/cache"
	"github.com/matzehuels/analogtopo/pkg/errors"
	cio "github.com/matzehuels/analogtopo/pkg/io"
	"github.com/matzehuels/analogtopo/pkg/netlist"
	"github.com/matzehuels/analogtopo/pkg/observability"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// cacheKeyType labels extraction entries for cache hooks.
const cacheKeyType = "extract"

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP endpoint use it.
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
// A nil logger discards output.
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

// cachedResult is what an extraction stores in the cache. The graph itself is
// not kept.
type cachedResult struct {
	Title       string          `json:"title,omitempty"`
	Report      topology.Report `json:"report"`
	Stats       Stats           `json:"stats"`
	Constraints json.RawMessage `json:"constraints"`
}

// ExtractFile reads the netlist at path and runs [Runner.Extract] on it.
func (r *Runner) ExtractFile(ctx context.Context, path string, opts Options) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "netlist %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return r.Extract(ctx, path, src, opts)
}

// Extract runs parse, build and detect over the netlist source src. The name
// is used in messages and logs only.
//
// Unless opts.Refresh is set, a cached result for the same content and options
// is returned without parsing. Cache failures are logged and never fail the
// run.
func (r *Runner) Extract(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	start := time.Now()
	res, err := r.extract(ctx, name, src, opts)
	cached := err == nil && res.CacheHit
	observability.Pipeline().OnExtractComplete(ctx, name, cached, time.Since(start), err)
	return res, err
}

func (r *Runner) extract(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger.With("netlist", name)

	cacheKey := r.Keyer.ExtractKey(cache.Hash(src), opts.KeyOpts())
	if !opts.Refresh {
		if res, ok := r.fromCache(ctx, cacheKey, logger); ok {
			res.NetlistID = NetlistID(src)
			res.Name = name
			return res, nil
		}
	}

	result := &Result{NetlistID: NetlistID(src), Name: name}

	// Stage 1: Parse
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, name)
	parseStart := time.Now()
	nl, err := netlist.ParseNamed(name, string(src))
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, name, 0, result.Stats.ParseTime, err)
		return nil, err
	}
	result.Title = nl.Title
	result.Stats.Elements = nl.ElementCount()
	hooks.OnParseComplete(ctx, name, result.Stats.Elements, result.Stats.ParseTime, nil)

	logger.Debug("parsed netlist",
		"title", nl.Title,
		"elements", result.Stats.Elements,
		"subcircuits", len(nl.Subcircuits),
		"duration", result.Stats.ParseTime)

	// Stage 2: Build
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buildStart := time.Now()
	opts.Logger = logger
	g, report := BuildGraph(nl, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Graph = g
	result.Report = report
	result.Stats.Devices = g.DeviceCount()
	result.Stats.Nets = g.NetCount()
	result.Stats.Edges = g.EdgeCount()
	hooks.OnBuildComplete(ctx, name, report.Added, len(report.Skipped), result.Stats.BuildTime)

	logger.Info("built topology",
		"devices", result.Stats.Devices,
		"nets", result.Stats.Nets,
		"edges", result.Stats.Edges,
		"ignored", report.Ignored,
		"skipped", len(report.Skipped),
		"duration", result.Stats.BuildTime)

	// Stage 3: Detect
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matchStart := time.Now()
	set := DetectConstraints(g, opts)
	result.Stats.MatchTime = time.Since(matchStart)
	result.Constraints = set
	result.Stats.Symmetry = len(set.Symmetry)
	result.Stats.Groups = len(set.Groups)
	hooks.OnMatchComplete(ctx, name, result.Stats.Symmetry, result.Stats.Groups, result.Stats.MatchTime)

	logger.Info("detected constraints",
		"symmetry", result.Stats.Symmetry,
		"groups", result.Stats.Groups,
		"duration", result.Stats.MatchTime)

	data, err := ExportConstraints(set)
	if err != nil {
		return nil, err
	}
	result.JSON = data

	r.store(ctx, cacheKey, result, opts.CacheTTL, logger)
	return result, nil
}

func (r *Runner) fromCache(ctx context.Context, key string, logger *log.Logger) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var entry cachedResult
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Debug("discarding unreadable cache entry", "err", err)
		return nil, false
	}
	set, err := cio.ReadJSON(bytes.NewReader(entry.Constraints))
	if err != nil {
		logger.Debug("discarding unreadable cache entry", "err", err)
		return nil, false
	}
	out, err := ExportConstraints(set)
	if err != nil {
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	logger.Info("using cached constraints",
		"symmetry", len(set.Symmetry),
		"groups", len(set.Groups))
	return &Result{
		Title:       entry.Title,
		Report:      entry.Report,
		Constraints: set,
		JSON:        out,
		Stats:       entry.Stats,
		CacheHit:    true,
	}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, ttl time.Duration, logger *log.Logger) {
	data, err := json.Marshal(cachedResult{
		Title:       res.Title,
		Report:      res.Report,
		Stats:       res.Stats,
		Constraints: res.JSON,
	})
	if err != nil {
		logger.Warn("cache encode failed", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
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
