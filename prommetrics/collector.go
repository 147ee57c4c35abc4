// Package prommetrics provides a Prometheus-backed implementation of
// signmatch.MetricsCollector.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/signmatch"
)

// Collector implements signmatch.MetricsCollector on Prometheus
// primitives.
type Collector struct {
	matchTotal       *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	matchCombined    prometheus.Histogram
	fallbackTotal    *prometheus.CounterVec
	fallbackDuration prometheus.Histogram
	recognizeTotal   *prometheus.CounterVec
}

var _ signmatch.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// Pass prometheus.DefaultRegisterer for the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		matchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signmatch",
			Name:      "match_attempts_total",
			Help:      "Local match attempts, partitioned by acceptance.",
		}, []string{"accepted"}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "signmatch",
			Name:      "match_duration_seconds",
			Help:      "Duration of local match attempts.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		matchCombined: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "signmatch",
			Name:      "match_combined_score",
			Help:      "Combined confidence of the best local candidate.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signmatch",
			Name:      "fallback_calls_total",
			Help:      "External fallback calls, partitioned by outcome.",
		}, []string{"outcome"}),
		fallbackDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "signmatch",
			Name:      "fallback_duration_seconds",
			Help:      "Duration of external fallback calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		recognizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signmatch",
			Name:      "recognitions_total",
			Help:      "Completed recognitions, partitioned by result source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		c.matchTotal,
		c.matchDuration,
		c.matchCombined,
		c.fallbackTotal,
		c.fallbackDuration,
		c.recognizeTotal,
	)
	return c
}

// RecordMatch implements signmatch.MetricsCollector.
func (c *Collector) RecordMatch(combined float32, accepted bool, duration time.Duration) {
	label := "false"
	if accepted {
		label = "true"
	}
	c.matchTotal.WithLabelValues(label).Inc()
	c.matchDuration.Observe(duration.Seconds())
	c.matchCombined.Observe(float64(combined))
}

// RecordFallback implements signmatch.MetricsCollector.
func (c *Collector) RecordFallback(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.fallbackTotal.WithLabelValues(outcome).Inc()
	c.fallbackDuration.Observe(duration.Seconds())
}

// RecordRecognize implements signmatch.MetricsCollector.
func (c *Collector) RecordRecognize(source string, _ time.Duration) {
	c.recognizeTotal.WithLabelValues(source).Inc()
}
