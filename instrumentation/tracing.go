package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the harness tracer.
func (i *Instrumentation) Tracer() trace.Tracer {
	return i.tracerProvider.Tracer(instrumentationScope)
}

// StartBootstrapSpan starts a span covering one bootstrap call.
func (i *Instrumentation) StartBootstrapSpan(ctx context.Context, variant string) (context.Context, trace.Span) {
	return i.Tracer().Start(ctx, "harness.bootstrap",
		trace.WithAttributes(attribute.String("bootstrap.variant", variant)))
}
