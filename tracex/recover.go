package tracex

import (
	"context"

	internaltracex "github.com/mlibrary/solr-cloud-connection/internal/tracex"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	exceptionMessageKey    = attribute.Key("exception.message")
	exceptionStacktraceKey = attribute.Key("exception.stacktrace")
)

// RecoverWithStackTrace recovers from a panic and logs the message with a stack trace.
// It should only be used as a defer statement at the beginning of a function.
// i.e. defer tracex.RecoverWithStackTrace(ctx, l, "panic while running command")
func RecoverWithStackTrace(ctx context.Context, l *loggerx.Logger, msg string) {
	// The recoverer itself must never panic.
	defer func() {
		_ = recover()
	}()

	if r := recover(); r != nil {
		if l == nil {
			return
		}

		l.Error(ctx, msg, StackTraceAttrs(r)...)
	}
}

func StackTraceAttrs(recovered any) []attribute.KeyValue {
	out := []attribute.KeyValue{}
	if recovered == nil {
		return out
	}

	out = append(out, exceptionStacktraceKey.String(internaltracex.GetStackTrace(3)))
	switch v := recovered.(type) {
	case string:
		out = append(out, exceptionMessageKey.String(v))
	case error:
		out = append(out, exceptionMessageKey.String(v.Error()))
	default:
		out = append(out, exceptionMessageKey.String("unknown panic"))
	}

	return out
}
