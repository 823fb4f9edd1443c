package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingHandler wraps the tracer the dispatcher spans its work with.
type TracingHandler struct {
	Tracer      trace.Tracer
	Propagators propagation.TextMapPropagator
}

// NewTracingHandler builds a handler on the globally installed provider.
func NewTracingHandler(name string) *TracingHandler {
	return &TracingHandler{
		Tracer:      otel.Tracer(name),
		Propagators: otel.GetTextMapPropagator(),
	}
}

// StartNewSpan starts a span under ctx.
func (th *TracingHandler) StartNewSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	return th.Tracer.Start(ctx, spanName, opts...)
}

// ExtractContext restores a propagated trace context from a carrier, for
// invocations relayed through an external queue.
func (th *TracingHandler) ExtractContext(carrier propagation.MapCarrier) context.Context {
	return th.Propagators.Extract(context.Background(), carrier)
}

// InjectContext captures ctx's trace context into a fresh carrier.
func (th *TracingHandler) InjectContext(ctx context.Context) propagation.MapCarrier {
	carrier := propagation.MapCarrier{}
	th.Propagators.Inject(ctx, carrier)
	return carrier
}
