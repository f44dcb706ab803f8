package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"order-service/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const listenerTracerName = "order-service/notification"

// NotificationListener consumes OrderPlacedEvents and continues the trace
// started by the producing request.
type NotificationListener struct {
	consumer Consumer
	tracer   trace.Tracer
}

func NewNotificationListener(consumer Consumer, tp trace.TracerProvider) *NotificationListener {
	return &NotificationListener{consumer: consumer, tracer: tp.Tracer(listenerTracerName)}
}

// Run reads until ctx ends or the consumer is closed. Handler errors are
// logged and the message is skipped.
func (l *NotificationListener) Run(ctx context.Context) error {
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read notification: %w", err)
		}
		if err := l.Handle(ctx, *msg); err != nil {
			slog.ErrorContext(ctx, "failed to handle notification",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err.Error())
		}
	}
}

func (l *NotificationListener) Handle(ctx context.Context, msg kafka.Message) error {
	carrier := propagation.MapCarrier{}
	for _, h := range msg.Headers {
		carrier[h.Key] = string(h.Value)
	}
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, carrier)

	msgCtx, span := l.tracer.Start(msgCtx, fmt.Sprintf("%s process", msg.Topic),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(msg.Topic),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()

	var event commands.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid payload")
		return fmt.Errorf("invalid order placed event: %w", err)
	}

	slog.InfoContext(msgCtx, "Received notification for order",
		"order_number", event.OrderNumber)
	return nil
}
