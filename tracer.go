package swtmiddleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Tracer starts spans around token validation.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span is the part of a span the middleware uses.
type Span interface {
	SetAttribute(key, value string)
	RecordError(err error)
	End()
}

// NoopTracer is a default tracer that does nothing.
type NoopTracer struct{}

// Start returns ctx unchanged and a span that does nothing.
func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttribute(string, string) {}
func (noopSpan) RecordError(error)           {}
func (noopSpan) End()                        {}

// NewOpenTelemetryTracer returns a Tracer backed by an OpenTelemetry tracer.
// Spans become children of whatever span the request context carries.
func NewOpenTelemetryTracer(tracer oteltrace.Tracer) Tracer {
	return &otelTracer{tracer: tracer}
}

type otelTracer struct {
	tracer oteltrace.Tracer
}

func (t *otelTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, oteltrace.WithSpanKind(oteltrace.SpanKindServer))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span oteltrace.Span
}

func (s *otelSpan) SetAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *otelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpan) End() { s.span.End() }
