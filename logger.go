package rostercache

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with rostercache-specific context.
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

// WithUserID adds a user_id field to the logger.
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("user_id", userID),
	}
}

// WithPage adds a page field to the logger.
func (l *Logger) WithPage(page int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page", page),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogLoad logs the outcome of a load request.
func (l *Logger) LogLoad(ctx context.Context, force bool, total int, warning string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"force", force,
			"error", err,
		)
		return
	}
	if warning != "" {
		l.WarnContext(ctx, "load degraded to cached data",
			"force", force,
			"total", total,
			"warning", warning,
		)
		return
	}
	l.InfoContext(ctx, "load completed",
		"force", force,
		"total", total,
	)
}

// LogCacheHit logs a load served from fresh cache without a network call.
func (l *Logger) LogCacheHit(ctx context.Context, total int) {
	l.DebugContext(ctx, "serving fresh cache",
		"total", total,
	)
}

// LogIngest logs an ingestion run.
func (l *Logger) LogIngest(ctx context.Context, batches, total int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingestion failed",
			"batches_applied", batches,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "ingestion completed",
			"batches", batches,
			"total", total,
		)
	}
}

// LogFallback logs a degradation to cached data.
func (l *Logger) LogFallback(ctx context.Context, reason string, err error) {
	l.WarnContext(ctx, "falling back to cached data",
		"reason", reason,
		"error", err,
	)
}

// LogSupplemental logs a supplemental-detail fetch.
func (l *Logger) LogSupplemental(ctx context.Context, voterID string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "supplemental fetch failed",
			"voter_id", voterID,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "supplemental fetch completed",
			"voter_id", voterID,
		)
	}
}
