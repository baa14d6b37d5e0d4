package songclust

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with songclust-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogFit logs a Lloyd refinement run.
func (l *Logger) LogFit(ctx context.Context, rule string, iterations int, converged bool, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"rule", rule,
			"error", err,
		)
		return
	}
	if !converged {
		l.WarnContext(ctx, "fit stopped at iteration cap",
			"rule", rule,
			"iterations", iterations,
			"duration", duration,
		)
		return
	}
	l.InfoContext(ctx, "fit completed",
		"rule", rule,
		"iterations", iterations,
		"duration", duration,
	)
}

// LogEmptyCluster logs the reseeding of an empty cluster.
func (l *Logger) LogEmptyCluster(ctx context.Context, cluster, point, iteration int) {
	l.DebugContext(ctx, "empty cluster reseeded",
		"cluster", cluster,
		"point", point,
		"iteration", iteration,
	)
}

// LogTrials logs the outcome of a best-of-trials run.
func (l *Logger) LogTrials(ctx context.Context, trials int, best float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "trials failed",
			"trials", trials,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "trials completed",
		"trials", trials,
		"inertia", best,
	)
}

// LogAgglomerate logs an agglomerative clustering run.
func (l *Logger) LogAgglomerate(ctx context.Context, linkage string, merges int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "agglomerate failed",
			"linkage", linkage,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "agglomerate completed",
		"linkage", linkage,
		"merges", merges,
		"duration", duration,
	)
}

// LogHash logs a batch hashing run.
func (l *Logger) LogHash(ctx context.Context, family string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "hash failed",
			"family", family,
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "hash completed",
		"family", family,
		"count", count,
	)
}

// LogQuery logs a similarity query.
func (l *Logger) LogQuery(ctx context.Context, candidates, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"candidates", candidates,
		"results", results,
	)
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op,
		"name", name,
	)
}
