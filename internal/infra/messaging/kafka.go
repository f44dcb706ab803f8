package messaging

import (
	"context"
	"fmt"

	"order-service/internal/pkg/config"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const clientID = "order-service"

// Producer publishes to a single topic fixed at construction.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

type Consumer interface {
	ReadMessage(ctx context.Context) (*kafka.Message, error)
	Close() error
}

// NewKafkaProducer writes to the notification topic and injects the caller's
// trace context into the message headers.
func NewKafkaProducer(cfg config.KafkaConfig, tp trace.TracerProvider) (Producer, error) {
	base := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.NotificationTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	writer, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(cfg.NotificationTopic),
				attribute.String("messaging.kafka.client_id", clientID),
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka writer: %w", err)
	}
	return writer, nil
}

func NewKafkaConsumer(cfg config.KafkaConfig) (Consumer, error) {
	base := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.NotificationTopic,
		GroupID: cfg.GroupID,
	})

	reader, err := otelkafka.NewReader(base)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka reader: %w", err)
	}
	return reader, nil
}
