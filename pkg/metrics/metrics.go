// Package metrics exports Prometheus metrics for extraction runs, the result
// cache and the HTTP endpoint.
//
// A [Registry] implements the hook interfaces of the observability package.
// Install it once at startup and mount [Registry.Handler] on /metrics:
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	mux.Handle("/metrics", reg.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/analogtopo/pkg/observability"
)

const namespace = "analogtopo"

// Stage labels for StageDuration.
const (
	StageParse = "parse"
	StageBuild = "build"
	StageMatch = "match"
)

// Registry holds every analogtopo metric on its own Prometheus registry.
type Registry struct {
	// Pipeline
	ExtractionsTotal *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	ConstraintsTotal *prometheus.CounterVec
	SkippedDevices   prometheus.Counter
	NetlistElements  prometheus.Histogram

	// Cache
	CacheOpsTotal *prometheus.CounterVec
	CacheBytes    prometheus.Counter

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized. Go runtime and
// process collectors are registered alongside.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Install registers r as the pipeline, cache and server hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetServerHooks(r)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer returns the underlying Prometheus registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
