package otel

import (
	"fmt"
	"time"

	"cowork/shared/failure"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Scope is the single span a handler, service or repository call works in.
type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type spanScope struct {
	span oteltrace.Span
}

func NewScope(span oteltrace.Span) Scope {
	return spanScope{span: span}
}

func (s spanScope) End() {
	s.span.End()
}

// TraceError records err on the span. Only server errors fail the span, so a booking
// conflict or a missing room shows up as an event on an otherwise healthy trace.
func (s spanScope) TraceError(err error) {
	if err == nil {
		return
	}

	s.span.RecordError(err, oteltrace.WithAttributes(attribute.Int("http.status_code", failure.GetCode(err))))

	if failure.IsClient(err) {
		return
	}

	s.span.SetStatus(codes.Error, err.Error())
}

func (s spanScope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s spanScope) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s spanScope) SetAttribute(key string, value any) {
	s.span.SetAttributes(attributeOf(key, value))
}

func (s spanScope) SetAttributes(attributes map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, attributeOf(key, value))
	}

	s.span.SetAttributes(kvs...)
}

// attributeOf keeps numbers and booleans typed. Durations are recorded in
// milliseconds, anything else unknown as its printed form.
func attributeOf(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
