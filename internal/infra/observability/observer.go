package observability

import (
	"context"

	"order-service/internal/usecase/commands"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "order-service/orders"

// SpanObserver implements commands.Observer on top of OpenTelemetry spans.
type SpanObserver struct {
	tracer trace.Tracer
}

func NewSpanObserver(tp trace.TracerProvider) *SpanObserver {
	return &SpanObserver{tracer: tp.Tracer(TracerName)}
}

var _ commands.Observer = (*SpanObserver)(nil)

func (o *SpanObserver) Observe(ctx context.Context, name string, attrs []commands.Attr, fn func(ctx context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, name, trace.WithAttributes(toKeyValues(attrs)...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (o *SpanObserver) Event(ctx context.Context, name string, attrs ...commands.Attr) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(toKeyValues(attrs)...))
}

func toKeyValues(attrs []commands.Attr) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		kvs = append(kvs, attribute.String(a.Key, a.Value))
	}
	return kvs
}
