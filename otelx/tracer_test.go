package otelx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	loggerxtest "github.com/mlibrary/solr-cloud-connection/loggerx/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracer(t *testing.T) {
	ctx := context.Background()
	l := loggerxtest.NewTestLogger(t)

	t.Run("should default to a noop tracer", func(t *testing.T) {
		tr, err := NewTracer(ctx, l, &TracerConfig{ServiceName: "solrctl"})
		require.NoError(t, err)
		assert.True(t, tr.IsLoaded())

		_, span := tr.Tracer("test").Start(ctx, "noop")
		assert.False(t, span.SpanContext().IsValid())
		span.End()
		assert.NoError(t, tr.Shutdown(ctx))
	})

	t.Run("should export spans to the stdout writer", func(t *testing.T) {
		var buf bytes.Buffer
		tr, err := NewTracer(ctx, l, &TracerConfig{
			ServiceName: "solrctl",
			Provider:    ProviderStdout,
			Stdout:      StdoutConfig{Writer: &buf},
		})
		require.NoError(t, err)

		_, span := tr.Tracer("test").Start(ctx, "solrcloudx.Connection.CreateCollection")
		assert.True(t, span.SpanContext().IsValid())
		span.End()
		require.NoError(t, tr.Shutdown(ctx))

		assert.Contains(t, buf.String(), "solrcloudx.Connection.CreateCollection")
		assert.Contains(t, buf.String(), "solrctl")
	})

	t.Run("should build an otlp exporter without contacting the collector", func(t *testing.T) {
		tr, err := NewTracer(ctx, l, &TracerConfig{
			ServiceName: "solrctl",
			Provider:    ProviderOTLP,
			OTLP:        OTLPConfig{Endpoint: "127.0.0.1:4318", Insecure: true},
		})
		require.NoError(t, err)

		_, span := tr.Tracer("test").Start(ctx, "solrcloudx.Connection.Connect")
		assert.True(t, span.SpanContext().IsValid())
		span.End()

		shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_ = tr.Shutdown(shutdownCtx)
	})

	t.Run("should reject unknown providers", func(t *testing.T) {
		_, err := NewTracer(ctx, l, &TracerConfig{Provider: "jaeger"})
		assert.True(t, errorx.IsInvalidArgumentError(err))
	})

	t.Run("should build a noop tracer", func(t *testing.T) {
		tr := NewNoopTracer()
		assert.True(t, tr.IsLoaded())
		assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, tr.Propagator().Fields())
		assert.NotNil(t, tr.Provider())
		assert.False(t, (*Tracer)(nil).IsLoaded())
	})
}
