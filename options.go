package signmatch

import (
	"log/slog"
	"time"

	"github.com/hupe1980/signmatch/similarity"
)

type options struct {
	threshold          float32
	fallbackLabel      string
	degradedConfidence float32
	remoteConfidence   float32
	simFn              similarity.Func
	metricsCollector   MetricsCollector
	logger             *Logger
	now                func() time.Time
}

// Option configures Recognizer constructor behavior.
type Option func(*options)

// WithThreshold sets the acceptance threshold for the local match.
// Combined scores at or above the threshold resolve locally; anything
// below falls back to the external call. Callers typically pick a value
// in [0.6, 0.75]. Default 0.75.
func WithThreshold(threshold float32) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithFallbackLabel sets the label substituted when the external call
// fails or answers with nothing usable. Default "hello".
//
// Results carrying this forced label have LowConfidence set, so callers
// that want to treat forced answers differently can.
func WithFallbackLabel(label string) Option {
	return func(o *options) {
		o.fallbackLabel = label
	}
}

// WithDegradedConfidence sets the confidence reported when the external
// call fails outright. Must be within [0.75, 0.88]. Default 0.8.
func WithDegradedConfidence(confidence float32) Option {
	return func(o *options) {
		o.degradedConfidence = confidence
	}
}

// WithRemoteConfidence sets the confidence reported for answers the
// external call produced. The external model reports no score of its
// own, so this is a fixed constant. Must be within [0, 1]. Default 0.9.
func WithRemoteConfidence(confidence float32) Option {
	return func(o *options) {
		o.remoteConfidence = confidence
	}
}

// WithSimilarityFunc overrides the similarity metric used by the local
// match. If nil is passed, similarity.MeanAbsDiff is used.
func WithSimilarityFunc(fn similarity.Func) Option {
	return func(o *options) {
		if fn == nil {
			fn = similarity.MeanAbsDiff
		}
		o.simFn = fn
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := signmatch.NewJSONLogger(slog.LevelInfo)
//	r, _ := signmatch.New(client, set, signmatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// withClock overrides the result timestamp source. Tests only.
func withClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threshold:          DefaultThreshold,
		fallbackLabel:      DefaultFallbackLabel,
		degradedConfidence: DefaultDegradedConfidence,
		remoteConfidence:   DefaultRemoteConfidence,
		simFn:              similarity.MeanAbsDiff,
		metricsCollector:   NoopMetricsCollector{},
		logger:             NoopLogger(),
		now:                time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
