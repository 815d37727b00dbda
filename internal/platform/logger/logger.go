package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"

	"bizsuite/pkg/requestcontext"
)

// New returns the process JSON logger and installs it as the slog default.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout, slog.LevelInfo)
}

// NewWithWriter builds a JSON logger on w; tests pass io.Discard or a buffer.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// From decorates logger with the request id and the active trace/span ids so
// background notification logs can be joined with the request that caused them.
func From(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		logger = logger.With(slog.String("request_id", reqID))
	}
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return logger
}
