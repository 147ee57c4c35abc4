package signmatch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus; see the prommetrics package for a ready-made collector.
type MetricsCollector interface {
	// RecordMatch is called after each local-match attempt.
	// combined is the best combined score (0 when no candidate was
	// found), accepted reports whether it cleared the threshold.
	RecordMatch(combined float32, accepted bool, duration time.Duration)

	// RecordFallback is called after each external fallback call.
	// err is nil if the call succeeded.
	RecordFallback(duration time.Duration, err error)

	// RecordRecognize is called after each completed recognition with
	// the source of the result ("local", "remote", "remote-degraded").
	RecordRecognize(source string, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMatch(float32, bool, time.Duration) {}
func (NoopMetricsCollector) RecordFallback(time.Duration, error)      {}
func (NoopMetricsCollector) RecordRecognize(string, time.Duration)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MatchCount         atomic.Int64
	MatchAccepted      atomic.Int64
	MatchTotalNanos    atomic.Int64
	FallbackCount      atomic.Int64
	FallbackErrors     atomic.Int64
	FallbackTotalNanos atomic.Int64
	LocalResults       atomic.Int64
	RemoteResults      atomic.Int64
	DegradedResults    atomic.Int64
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(combined float32, accepted bool, duration time.Duration) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if accepted {
		b.MatchAccepted.Add(1)
	}
}

// RecordFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFallback(duration time.Duration, err error) {
	b.FallbackCount.Add(1)
	b.FallbackTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FallbackErrors.Add(1)
	}
}

// RecordRecognize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRecognize(source string, _ time.Duration) {
	switch source {
	case "local":
		b.LocalResults.Add(1)
	case "remote":
		b.RemoteResults.Add(1)
	case "remote-degraded":
		b.DegradedResults.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MatchCount:      b.MatchCount.Load(),
		MatchAccepted:   b.MatchAccepted.Load(),
		MatchAvgNanos:   avg(b.MatchTotalNanos.Load(), b.MatchCount.Load()),
		FallbackCount:   b.FallbackCount.Load(),
		FallbackErrors:  b.FallbackErrors.Load(),
		FallbackAvg:     avg(b.FallbackTotalNanos.Load(), b.FallbackCount.Load()),
		LocalResults:    b.LocalResults.Load(),
		RemoteResults:   b.RemoteResults.Load(),
		DegradedResults: b.DegradedResults.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	MatchCount      int64
	MatchAccepted   int64
	MatchAvgNanos   int64
	FallbackCount   int64
	FallbackErrors  int64
	FallbackAvg     int64
	LocalResults    int64
	RemoteResults   int64
	DegradedResults int64
}
