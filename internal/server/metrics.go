package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/treeflow/pkg/observability"
)

// Metrics records pipeline, lifecycle, cache and HTTP events as Prometheus
// collectors. It implements every observability hook interface.
type Metrics struct {
	registry *prometheus.Registry

	transitions  *prometheus.CounterVec
	malformed    prometheus.Counter
	fetches      *prometheus.HistogramVec
	converted    *prometheus.HistogramVec
	renders      *prometheus.HistogramVec
	cacheEvents  *prometheus.CounterVec
	upstream     *prometheus.HistogramVec
	upstreamErrs *prometheus.CounterVec
	requests     *prometheus.HistogramVec
}

var (
	_ observability.PipelineHooks  = (*Metrics)(nil)
	_ observability.LifecycleHooks = (*Metrics)(nil)
	_ observability.CacheHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treeflow_lifecycle_transitions_total",
			Help: "Lifecycle state transitions",
		}, []string{"from", "to"}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treeflow_malformed_children_total",
			Help: "Child entries skipped during conversion",
		}),
		fetches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treeflow_fetch_duration_seconds",
			Help:    "Duration of tree fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		converted: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treeflow_convert_nodes",
			Help:    "Nodes produced per conversion",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"result"}),
		renders: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treeflow_export_duration_seconds",
			Help:    "Duration of artifact export",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treeflow_cache_events_total",
			Help: "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treeflow_upstream_request_duration_seconds",
			Help:    "Duration of outgoing HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"host", "status"}),
		upstreamErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treeflow_upstream_errors_total",
			Help: "Outgoing HTTP requests that failed before a response",
		}, []string{"host"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treeflow_http_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.transitions, m.malformed, m.fetches, m.converted, m.renders,
		m.cacheEvents, m.upstream, m.upstreamErrs, m.requests,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Install sets m as the global observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetLifecycleHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnFetchStart(context.Context, string) {}

func (m *Metrics) OnFetchComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.fetches.WithLabelValues(result(err)).Observe(d.Seconds())
}

func (m *Metrics) OnConvertComplete(_ context.Context, nodes, _, _ int, _ time.Duration, err error) {
	m.converted.WithLabelValues(result(err)).Observe(float64(nodes))
}

func (m *Metrics) OnMalformedChild(context.Context, string, int) { m.malformed.Inc() }

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renders.WithLabelValues(result(err)).Observe(d.Seconds())
}

// =============================================================================
// Lifecycle, Cache and HTTP Hooks
// =============================================================================

func (m *Metrics) OnTransition(_ context.Context, _ string, from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.upstream.WithLabelValues(host, statusClass(status)).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamErrs.WithLabelValues(host).Inc()
}

// observeRequest records an API request served by the router.
func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, statusClass(status)).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
