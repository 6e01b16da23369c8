package neardup

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/neardup/lsh"
)

// Logger wraps slog.Logger with neardup-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithID adds an ID field to the logger (useful for tagging operations).
func (l *Logger) WithID(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogConfig logs the resolved index configuration.
func (l *Logger) LogConfig(ctx context.Context, k int, threshold float64, p lsh.Params) {
	l.InfoContext(ctx, "index configured",
		"k", k,
		"threshold", threshold,
		"bands", p.Bands,
		"rows", p.Rows,
		"crossover", p.Crossover(),
	)
}

// LogInsert logs an insert operation. Rejected duplicates are logged at warn level.
func (l *Logger) LogInsert(ctx context.Context, id uint64, err error) {
	if errors.Is(err, ErrDuplicateID) {
		l.LogDuplicate(ctx, id)
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"id", id,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, candidates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"candidates", candidates,
		)
	}
}

// LogDuplicate logs a record rejected because its id was already indexed.
func (l *Logger) LogDuplicate(ctx context.Context, id uint64) {
	l.WarnContext(ctx, "duplicate id rejected",
		"id", id,
	)
}

// LogIngest logs the summary of an ingest run.
func (l *Logger) LogIngest(ctx context.Context, r *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"records", r.Records,
			"skipped", r.Skipped,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "ingest completed",
			"order", r.Order.String(),
			"records", r.Records,
			"with_candidates", r.WithCandidates,
			"skipped", r.Skipped,
			"duration", r.Duration.Round(time.Millisecond),
		)
	}
}
