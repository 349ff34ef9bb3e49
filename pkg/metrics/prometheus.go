package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	snapshotsSent   *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a recorder registered with the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mbgate_upstream_requests_total",
				Help: "Requests sent to the brokerage API",
			},
			[]string{"operation", "status", "class"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mbgate_upstream_request_duration_seconds",
				Help:    "Brokerage API round-trip time",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mbgate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		snapshotsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mbgate_snapshots_sent_total",
				Help: "Position snapshots delivered to a backend",
			},
			[]string{"backend"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mbgate_cache_lookups_total",
				Help: "Portfolio read cache lookups",
			},
			[]string{"operation", "result"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mbgate_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(r.upstreamCalls, r.upstreamLatency, r.errorsTotal, r.snapshotsSent, r.cacheLookups, r.latency)
	return r
}

// RecordUpstreamCall records one completed brokerage request.
func (r *Recorder) RecordUpstreamCall(op string, status int, seconds float64) {
	r.upstreamCalls.WithLabelValues(op, strconv.Itoa(status), statusClass(status)).Inc()
	r.upstreamLatency.WithLabelValues(op).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSnapshotSent records a snapshot delivered to backend.
func (r *Recorder) RecordSnapshotSent(backend string) {
	r.snapshotsSent.WithLabelValues(backend).Inc()
}

// RecordCache records a cache lookup.
func (r *Recorder) RecordCache(op string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(op, result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}
