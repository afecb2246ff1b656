package otelx

import (
	"context"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Tracer struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
	shutdown   func(ctx context.Context) error
}

// NewTracer constructs the tracer provider selected by the configuration.
func NewTracer(ctx context.Context, l *loggerx.Logger, c *TracerConfig) (*Tracer, error) {
	t := &Tracer{
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		shutdown: func(context.Context) error { return nil },
	}

	switch c.Provider {
	case ProviderStdout:
		tp, err := newStdoutProvider(c)
		if err != nil {
			return nil, err
		}
		t.provider = tp
		t.shutdown = tp.Shutdown
		l.Debug(ctx, "stdout tracer configured", attribute.String("service_name", c.ServiceName))
	case ProviderOTLP:
		tp, err := newOTLPProvider(ctx, c)
		if err != nil {
			return nil, err
		}
		t.provider = tp
		t.shutdown = tp.Shutdown
		l.Debug(ctx, "otlp tracer configured", attribute.String("endpoint", c.OTLP.Endpoint))
	case ProviderNone:
		t.provider = noop.NewTracerProvider()
		l.Debug(ctx, "no tracer configured, skipping tracing setup")
	default:
		return nil, errorx.InvalidArgumentErrorf("unknown tracer provider %q, expected one of [%q, %q, %q]", c.Provider, ProviderNone, ProviderStdout, ProviderOTLP)
	}

	return t, nil
}

// NewNoopTracer drops every span but still propagates incoming trace context.
func NewNoopTracer() *Tracer {
	return &Tracer{
		provider:   noop.NewTracerProvider(),
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		shutdown:   func(context.Context) error { return nil },
	}
}

// IsLoaded returns true if the tracer has been loaded.
func (t *Tracer) IsLoaded() bool {
	return t != nil && t.provider != nil
}

func (t *Tracer) Provider() trace.TracerProvider {
	return t.provider
}

func (t *Tracer) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

func (t *Tracer) Propagator() propagation.TextMapPropagator {
	return t.propagator
}

// Shutdown flushes and stops the exporter, if any.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}
