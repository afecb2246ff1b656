package slogx

import (
	"context"
	"log/slog"
	"time"

	slogctx "github.com/veqryn/slog-context"
	"go.opentelemetry.io/otel/trace"
)

// TraceExtractor adds the trace and span ids of the span carried by ctx, if any.
var TraceExtractor slogctx.AttrExtractor = func(ctx context.Context, _ time.Time, _ slog.Level, _ string) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
