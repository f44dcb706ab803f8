//go:build unit

package messaging_test

import (
	"context"
	"errors"
	"testing"

	"order-service/internal/infra/messaging"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type fakeConsumer struct {
	messages []kafka.Message
	err      error
}

func (c *fakeConsumer) ReadMessage(ctx context.Context) (*kafka.Message, error) {
	if len(c.messages) == 0 {
		if c.err != nil {
			return nil, c.err
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	msg := c.messages[0]
	c.messages = c.messages[1:]
	return &msg, nil
}

func (c *fakeConsumer) Close() error { return nil }

func TestNotificationListener_Handle(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	l := messaging.NewNotificationListener(&fakeConsumer{}, tp)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")

	t.Run("continues the producer trace", func(t *testing.T) {
		msg := kafka.Message{
			Topic: "notificationTopic",
			Value: []byte(`{"orderNumber":"order-1"}`),
			Headers: []kafka.Header{
				{Key: "traceparent", Value: []byte("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")},
			},
		}

		require.NoError(t, l.Handle(context.Background(), msg))

		spans := recorder.Ended()
		require.NotEmpty(t, spans)
		last := spans[len(spans)-1]
		assert.Equal(t, "notificationTopic process", last.Name())
		assert.Equal(t, trace.SpanKindConsumer, last.SpanKind())
		assert.Equal(t, traceID, last.SpanContext().TraceID())
		assert.Equal(t, traceID, last.Parent().TraceID())
	})

	t.Run("invalid payload is an error", func(t *testing.T) {
		err := l.Handle(context.Background(), kafka.Message{Topic: "notificationTopic", Value: []byte(`not-json`)})

		require.Error(t, err)
		spans := recorder.Ended()
		assert.Equal(t, codes.Error, spans[len(spans)-1].Status().Code)
	})
}

func TestNotificationListener_Run(t *testing.T) {
	tp := sdktrace.NewTracerProvider()

	t.Run("stops when the context ends", func(t *testing.T) {
		consumer := &fakeConsumer{messages: []kafka.Message{
			{Topic: "notificationTopic", Value: []byte(`{"orderNumber":"order-1"}`)},
			{Topic: "notificationTopic", Value: []byte(`broken`)},
		}}
		l := messaging.NewNotificationListener(consumer, tp)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- l.Run(ctx) }()
		cancel()

		assert.NoError(t, <-done)
	})

	t.Run("read failure is returned", func(t *testing.T) {
		l := messaging.NewNotificationListener(&fakeConsumer{err: errors.New("broker gone")}, tp)

		err := l.Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker gone")
	})
}
