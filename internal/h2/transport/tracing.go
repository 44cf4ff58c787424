package transport

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/potatosalad/cowboy/internal/h2/stream"
)

// streamTracer opens one server span per stream, from initialisation to
// terminate. Trace context is extracted from the request headers so spans
// join the caller's trace. Owned by the connection's execution context.
type streamTracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	spans      map[uint32]trace.Span
}

func newStreamTracer() *streamTracer {
	return &streamTracer{
		tracer:     otel.Tracer("cowboy"),
		propagator: propagation.TraceContext{},
		spans:      make(map[uint32]trace.Span),
	}
}

// start opens the span for a freshly initialised stream.
func (t *streamTracer) start(req *stream.Request) {
	parentCtx := t.propagator.Extract(context.Background(), headerCarrier(req.Headers))
	_, span := t.tracer.Start(
		parentCtx,
		req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindServer),
	)
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.target", req.Path),
		attribute.String("http.scheme", req.Scheme),
		attribute.String("http.host", req.Authority),
	)
	t.spans[req.StreamID] = span
}

// end closes a stream's span with a status derived from its termination
// reason. Streams that never started a span (rejected before
// initialisation) are a no-op.
func (t *streamTracer) end(streamID uint32, reason stream.Reason) {
	span, ok := t.spans[streamID]
	if !ok {
		return
	}
	delete(t.spans, streamID)
	switch reason.Kind {
	case stream.ReasonNormal, stream.ReasonStop:
		span.SetStatus(codes.Ok, "")
	case stream.ReasonInternal, stream.ReasonSocket:
		if reason.Err != nil {
			span.RecordError(reason.Err)
		}
		span.SetStatus(codes.Error, reason.String())
	default:
		span.SetStatus(codes.Error, reason.String())
	}
	span.End()
}

// headerCarrier adapts the request header map to propagation.TextMapCarrier.
type headerCarrier map[string]string

func (hc headerCarrier) Get(key string) string {
	return hc[key]
}

func (hc headerCarrier) Set(key, value string) {
	hc[key] = value
}

func (hc headerCarrier) Keys() []string {
	keys := make([]string, 0, len(hc))
	for k := range hc {
		keys = append(keys, k)
	}
	return keys
}
