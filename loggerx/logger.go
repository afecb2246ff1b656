package loggerx

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	internaltracex "github.com/mlibrary/solr-cloud-connection/internal/tracex"
	"github.com/mlibrary/solr-cloud-connection/slogx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const exceptionStacktraceKey = attribute.Key("exception.stacktrace")

type Logger struct {
	*slog.Logger
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.Logger.With(slogx.ErrorAttr(err))}
}

func (l *Logger) WithStackTrace() *Logger {
	// Skip runtime.Callers, GetStackTrace and WithStackTrace itself.
	stackTrace := internaltracex.GetStackTrace(3)
	return l.WithFields(exceptionStacktraceKey.String(stackTrace))
}

// WithErrorStackTrace adds the frames captured where err was built, if err
// carries an errorx.CliniaError. Other errors leave the logger unchanged.
func (l *Logger) WithErrorStackTrace(err error) *Logger {
	cerr, ok := errorx.IsCliniaError(err)
	if !ok {
		return l
	}
	frames := cerr.StackTrace()
	if len(frames) == 0 {
		return l
	}

	b := &strings.Builder{}
	for _, f := range frames {
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	return l.WithFields(exceptionStacktraceKey.String(b.String()))
}

// WithSpanStartOptions copies the attributes given to a span onto the logger.
func (l *Logger) WithSpanStartOptions(opts ...trace.SpanStartOption) *Logger {
	cfg := trace.NewSpanStartConfig(opts...)
	attrs := cfg.Attributes()
	if len(attrs) == 0 {
		return l
	}
	return l.WithFields(attrs...)
}

func (l *Logger) Error(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelError, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelWarn, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) Info(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) Debug(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelDebug, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) WithFields(kvs ...attribute.KeyValue) *Logger {
	lfs := slogx.NewLogFields(kvs...)
	// This is a workaround until we get a nice slog.WithAttrs method - See https://github.com/golang/go/issues/66937#issuecomment-2730350514
	return &Logger{l.Logger.With("", slog.GroupValue(lfs...))}
}
