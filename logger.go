package molframe

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with molframe-specific context.
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
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", name),
	}
}

// WithOp adds an operation field to the logger.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op),
	}
}

// LogParseFailure logs a SMILES string that could not be parsed.
func (l *Logger) LogParseFailure(row int, smiles string, err error) {
	l.Debug("smiles parse failed",
		"row", row,
		"smiles", smiles,
		"error", err,
	)
}

// LogParse logs a completed (or failed) SMILES2Mol call.
func (l *Logger) LogParse(rows, failed, kept int, err error) {
	if err != nil {
		l.Error("smiles parsing failed",
			"rows", rows,
			"error", err,
		)
	} else if failed > 0 {
		l.Warn("smiles parsing completed with failures",
			"rows", rows,
			"failed", failed,
			"kept", kept,
		)
	} else {
		l.Info("smiles parsing completed",
			"rows", rows,
		)
	}
}

// LogFeaturize logs a completed (or failed) featurization call.
func (l *Logger) LogFeaturize(op string, rows, columns int, err error) {
	if err != nil {
		l.Error("featurization failed",
			"op", op,
			"rows", rows,
			"error", err,
		)
	} else {
		l.Info("featurization completed",
			"op", op,
			"rows", rows,
			"columns", columns,
		)
	}
}
