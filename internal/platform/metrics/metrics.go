package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dossier service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Provider lookup latencies by provider id and outcome (ok, empty, or an
	// error category)
	ProviderLatency *prometheus.HistogramVec

	PreviewLatency   prometheus.Histogram
	DeepAuditLatency prometheus.Histogram

	// Judgment outcomes: model, fallback, breaker_open
	JudgmentOutcome *prometheus.CounterVec

	// Red flags emitted by kind and phase
	RedFlags *prometheus.CounterVec

	QueueDepth  prometheus.Gauge
	CacheLookup *prometheus.CounterVec

	// HTTP request latencies by route pattern and status code
	HTTPLatency *prometheus.HistogramVec
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dossier_provider_lookup_duration_seconds",
			Help:    "Duration of evidence provider lookups by provider and outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "outcome"}),

		PreviewLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dossier_preview_duration_seconds",
			Help:    "Duration of the fast preview phase",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		DeepAuditLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dossier_deep_audit_duration_seconds",
			Help:    "Duration of the background deep audit",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		JudgmentOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_judgment_outcomes_total",
			Help: "Risk judgment outcomes by source",
		}, []string{"outcome"}),

		RedFlags: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_red_flags_total",
			Help: "Red flags emitted by kind and phase",
		}, []string{"kind", "phase"}),

		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "dossier_audit_queue_depth",
			Help: "Deep audits waiting in the in-process queue",
		}),

		CacheLookup: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_cache_lookups_total",
			Help: "Dossier cache lookups by result",
		}, []string{"result"}),

		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dossier_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ObserveProviderLatency(provider, outcome string, d time.Duration) {
	if m != nil {
		m.ProviderLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) ObservePreviewLatency(d time.Duration) {
	if m != nil {
		m.PreviewLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveDeepAuditLatency(d time.Duration) {
	if m != nil {
		m.DeepAuditLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementJudgment(outcome string) {
	if m != nil {
		m.JudgmentOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementRedFlag(kind, phase string) {
	if m != nil {
		m.RedFlags.WithLabelValues(kind, phase).Inc()
	}
}

func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

// IncrementCache records a cache lookup; result is hit, pending or miss.
func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheLookup.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
