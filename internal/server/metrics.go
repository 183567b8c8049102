package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoicehs/internal/pipeline"
)

// Metrics owns its registry so several services can coexist in one process.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	items       prometheus.Counter
	matched     prometheus.Counter
	unmatched   prometheus.Counter
	duration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoicehs",
			Name:      "conversions_total",
			Help:      "Conversion runs by outcome.",
		}, []string{"outcome"}),
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "invoicehs",
			Name:      "line_items_total",
			Help:      "Line items extracted from invoices.",
		}),
		matched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "invoicehs",
			Name:      "line_items_matched_total",
			Help:      "Line items resolved to an HS code.",
		}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "invoicehs",
			Name:      "line_items_not_found_total",
			Help:      "Line items left as NOT FOUND.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "invoicehs",
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of one conversion run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.conversions, m.items, m.matched, m.unmatched, m.duration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(res pipeline.ConversionResult, elapsed time.Duration) {
	m.conversions.WithLabelValues("ok").Inc()
	m.items.Add(float64(res.Counts.Items))
	m.matched.Add(float64(res.Counts.Matched))
	m.unmatched.Add(float64(res.Counts.Unmatched))
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) failed(outcome string) {
	m.conversions.WithLabelValues(outcome).Inc()
}
