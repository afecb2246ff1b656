package tracex

import (
	"context"

	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const ComponentNameSeparator = "."

func ComponentName(packageName, structName string) string {
	return packageName + ComponentNameSeparator + structName
}

/*
Instrument starts a span named after the component and operation and returns a
logger carrying the span attributes and the component name. `span.End()` must
be called at the end of using the span.

	const connectionComponent = "solrcloudx.Connection"

	func (c *Connection) instrument(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span, *loggerx.Logger) {
		return tracex.Instrument(ctx, c.logger, c.tracer, connectionComponent, name, opts...)
	}
*/
func Instrument(ctx context.Context, l *loggerx.Logger, tracer trace.Tracer, componentName string, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span, *loggerx.Logger) {
	fullComponentName := ComponentName(componentName, name)
	ctx, span := tracer.Start(ctx, fullComponentName, opts...)
	logger := l.
		WithSpanStartOptions(opts...).
		WithFields(attribute.Key("component").String(fullComponentName))
	return ctx, span, logger
}
