package signmatch

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with signmatch-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithLabel adds a label field to the logger.
func (l *Logger) WithLabel(label string) *Logger {
	return &Logger{
		Logger: l.Logger.With("label", label),
	}
}

// WithSource adds a result-source field to the logger.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", source),
	}
}

// LogMatch logs the local-match attempt of a recognition call.
func (l *Logger) LogMatch(ctx context.Context, label string, combined float32, accepted bool) {
	if accepted {
		l.DebugContext(ctx, "local match accepted",
			"label", label,
			"combined", combined,
		)
	} else {
		l.DebugContext(ctx, "local match below threshold",
			"label", label,
			"combined", combined,
		)
	}
}

// LogFallback logs the outcome of the external fallback call.
func (l *Logger) LogFallback(ctx context.Context, label string, err error) {
	if err != nil {
		l.WarnContext(ctx, "fallback call failed, substituting fallback label",
			"label", label,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fallback call completed",
			"label", label,
		)
	}
}

// LogRecognize logs a completed recognition call.
func (l *Logger) LogRecognize(ctx context.Context, label string, source string, confidence float32) {
	l.DebugContext(ctx, "recognition completed",
		"label", label,
		"source", source,
		"confidence", confidence,
	)
}
