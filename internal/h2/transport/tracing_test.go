package transport

import (
	"testing"

	"golang.org/x/net/http2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/potatosalad/cowboy/internal/h2/stream"
)

func setupSpanRecorder() *tracetest.SpanRecorder {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	return sr
}

func TestTracingSpanPerStream(t *testing.T) {
	sr := setupSpanRecorder()

	h := &testHandler{
		onInit: func(id uint32, req *stream.Request) []stream.Command {
			return []stream.Command{stream.Response{Status: 200}, stream.Stop{}}
		},
	}
	conn, _ := newTestConn(h, Options{})

	cl := newClient()
	cl.preface().settings()
	cl.headers(1, true, true, getFields(1))
	conn.Receive(cl.take())

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d ended spans, want 1", len(ended))
	}
	span := ended[0]
	if span.Name() != "GET /" {
		t.Errorf("span name = %q, want %q", span.Name(), "GET /")
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", span.Status().Code)
	}
}

func TestTracingSpanEndsOnReset(t *testing.T) {
	sr := setupSpanRecorder()

	h := &testHandler{}
	conn, _ := newTestConn(h, Options{})

	cl := newClient()
	cl.preface().settings()
	cl.headers(1, true, true, getFields(1))
	conn.Receive(cl.take())

	if ended := sr.Ended(); len(ended) != 0 {
		t.Fatalf("span ended before the stream terminated")
	}

	if err := cl.fr.WriteRSTStream(1, http2.ErrCodeCancel); err != nil {
		t.Fatalf("writing RST_STREAM: %v", err)
	}
	conn.Receive(cl.take())

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d ended spans, want 1", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error for a peer reset", ended[0].Status().Code)
	}
}

func TestHeaderCarrier(t *testing.T) {
	hc := headerCarrier{"traceparent": "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01"}
	if got := hc.Get("traceparent"); got == "" {
		t.Errorf("Get returned empty value")
	}
	hc.Set("tracestate", "vendor=1")
	if got := hc.Get("tracestate"); got != "vendor=1" {
		t.Errorf("Set/Get = %q", got)
	}
	if len(hc.Keys()) != 2 {
		t.Errorf("Keys() = %v, want 2 entries", hc.Keys())
	}
}
