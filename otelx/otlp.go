package otelx

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newOTLPProvider(ctx context.Context, c *TracerConfig) (*sdktrace.TracerProvider, error) {
	var clientOpts []otlptracehttp.Option
	if c.OTLP.Endpoint != "" {
		clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(c.OTLP.Endpoint))
	}
	if c.OTLP.Insecure {
		clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
	}

	exp, err := otlptrace.New(ctx, otlptracehttp.NewClient(clientOpts...))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create the otlp exporter")
	}

	ratio := c.OTLP.SamplingRatio
	if ratio == 0 {
		ratio = 1
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(serviceNameKey.String(c.ServiceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	), nil
}
