package firequery

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/clog/hooks"
)

type loggerKeyType string

const loggerKey loggerKeyType = "logger"

// WithLogger attaches a logger to the context. The builder and executor
// pick it up for warnings and debug output.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFrom returns the context logger, falling back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// NewLogger builds a logger in the house style: a colorized console
// handler that expands goerr key/values, or plain JSON for collectors.
func NewLogger(w io.Writer, level slog.Level, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithAttrHook(hooks.GoErr()),
	))
}
