package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rohmanhakim/newsguard/internal/metadata"
)

// Metrics is a metadata.MetadataSink that turns events into Prometheus
// series. It owns its registry so several instances can coexist.
type Metrics struct {
	registry         *prometheus.Registry
	scans            *prometheus.CounterVec
	cacheEvents      *prometheus.CounterVec
	requests         *prometheus.CounterVec
	requestDurations prometheus.Histogram
	errors           *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsguard",
			Name:      "scans_total",
			Help:      "Scans by terminal outcome.",
		}, []string{"outcome"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsguard",
			Name:      "cache_events_total",
			Help:      "Cache events by kind (hit, miss, expired, corrupt, write, clear).",
		}, []string{"event"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsguard",
			Name:      "analysis_requests_total",
			Help:      "Requests sent to the analysis service by HTTP status (0 when no response).",
		}, []string{"status"}),
		requestDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "newsguard",
			Name:      "analysis_request_duration_seconds",
			Help:      "Latency of requests to the analysis service.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsguard",
			Name:      "errors_total",
			Help:      "Recorded errors by package and cause.",
		}, []string{"package", "cause"}),
	}
	m.registry.MustRegister(
		m.scans,
		m.cacheEvents,
		m.requests,
		m.requestDurations,
		m.errors,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordError(
	_ time.Time,
	packageName string,
	_ string,
	cause metadata.ErrorCause,
	_ string,
	_ []metadata.Attribute,
) {
	m.errors.WithLabelValues(packageName, cause.String()).Inc()
}

func (m *Metrics) RecordRequest(_ string, httpStatus int, duration time.Duration, _ string) {
	m.requests.WithLabelValues(strconv.Itoa(httpStatus)).Inc()
	m.requestDurations.Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheEvent(kind metadata.CacheEventKind, _ string, _ []metadata.Attribute) {
	m.cacheEvents.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) RecordScan(_ string, _ string, outcome metadata.ScanOutcome, _ time.Duration) {
	m.scans.WithLabelValues(string(outcome)).Inc()
}
