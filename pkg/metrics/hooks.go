package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/analogtopo/pkg/observability"
)

// Result labels for ExtractionsTotal.
const (
	ResultOK     = "ok"
	ResultCached = "cached"
	ResultError  = "error"
)

// Cache operation labels.
const (
	opHit  = "hit"
	opMiss = "miss"
	opSet  = "set"
)

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.ServerHooks   = (*Registry)(nil)
)

func (r *Registry) OnParseStart(context.Context, string) {}

func (r *Registry) OnParseComplete(_ context.Context, _ string, elements int, d time.Duration, err error) {
	r.StageDuration.WithLabelValues(StageParse).Observe(d.Seconds())
	if err == nil {
		r.NetlistElements.Observe(float64(elements))
	}
}

func (r *Registry) OnBuildComplete(_ context.Context, _ string, _, skipped int, d time.Duration) {
	r.StageDuration.WithLabelValues(StageBuild).Observe(d.Seconds())
	r.SkippedDevices.Add(float64(skipped))
}

func (r *Registry) OnMatchComplete(_ context.Context, _ string, symmetry, groups int, d time.Duration) {
	r.StageDuration.WithLabelValues(StageMatch).Observe(d.Seconds())
	r.ConstraintsTotal.WithLabelValues("symmetry").Add(float64(symmetry))
	r.ConstraintsTotal.WithLabelValues("group").Add(float64(groups))
}

func (r *Registry) OnExtractComplete(_ context.Context, _ string, cached bool, _ time.Duration, err error) {
	switch {
	case err != nil:
		r.ExtractionsTotal.WithLabelValues(ResultError).Inc()
	case cached:
		r.ExtractionsTotal.WithLabelValues(ResultCached).Inc()
	default:
		r.ExtractionsTotal.WithLabelValues(ResultOK).Inc()
	}
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheOpsTotal.WithLabelValues(opHit, keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheOpsTotal.WithLabelValues(opMiss, keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheOpsTotal.WithLabelValues(opSet, keyType).Inc()
	r.CacheBytes.Add(float64(size))
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse expects path to be a route pattern, not the raw URL.
func (r *Registry) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
