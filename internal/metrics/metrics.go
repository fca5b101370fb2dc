// Package metrics holds the Prometheus collectors for the API, the TMDb
// client and the migration job.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vibereel"

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Classifications *prometheus.CounterVec
	TMDbRequests    *prometheus.CounterVec
	TMDbCache       *prometheus.CounterVec
	MigratedMovies  *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classifications by resulting attention level and vibe.",
		}, []string{"attention_level", "vibe"}),
		TMDbRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tmdb_requests_total",
			Help:      "Upstream TMDb requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		TMDbCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tmdb_cache_lookups_total",
			Help:      "TMDb response cache lookups by result (hit, miss).",
		}, []string{"result"}),
		MigratedMovies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "migrated_movies_total",
			Help:      "Movies processed by the migration job by result (success, failure).",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveClassification(attention, vibe string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(attention, vibe).Inc()
}

func (m *Metrics) ObserveTMDbRequest(endpoint string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.TMDbRequests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TMDbCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveMigrated(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.MigratedMovies.WithLabelValues(result).Inc()
}
