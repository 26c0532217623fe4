// Package metrics exposes Prometheus collectors for dashboard conversions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tobilg/dashconv/internal/api"
	"github.com/tobilg/dashconv/internal/converter"
)

const namespace = "dashconv"

// Result labels for the conversions counter
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// FallbackKind labels panels replaced by the placeholder text panel
const FallbackKind = "fallback"

// Metrics holds the conversion collectors and the registry they are bound to
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	panels      *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates collectors on a fresh registry so that independent instances never collide
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "The total number of classic dashboards converted, labeled by result",
			},
			[]string{"result"},
		),
		panels: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "panels_converted_total",
				Help:      "The total number of panels emitted, labeled by visual mode",
			},
			[]string{"kind"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Time spent converting a single dashboard",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}
}

// ObserveConversion records one conversion attempt. A nil receiver is a no-op.
func (m *Metrics) ObserveConversion(summary api.ConversionSummary, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	m.duration.Observe(elapsed.Seconds())
	if err != nil {
		m.conversions.WithLabelValues(ResultFailure).Inc()
		return
	}

	m.conversions.WithLabelValues(ResultSuccess).Inc()
	m.panels.WithLabelValues(converter.KindText.String()).Add(float64(summary.TextPanels))
	m.panels.WithLabelValues(converter.KindTimeSeries.String()).Add(float64(summary.TimeSeriesPanels))
	m.panels.WithLabelValues(converter.KindDistribution.String()).Add(float64(summary.DistributionPanels))
	m.panels.WithLabelValues(FallbackKind).Add(float64(summary.FallbackPanels))
}

// Registry returns the registry the collectors are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
