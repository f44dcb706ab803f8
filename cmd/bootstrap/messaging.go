package bootstrap

import (
	"context"
	"log/slog"

	"order-service/internal/infra/messaging"
	"order-service/internal/pkg/config"
	"order-service/internal/usecase/commands"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewProducer,
		NewSpool,
		fx.Annotate(
			NewEmitter,
			fx.As(new(commands.EventPublisher)),
		),
	),
)

func NewProducer(lc fx.Lifecycle, cfg config.KafkaConfig, tp trace.TracerProvider) (messaging.Producer, error) {
	producer, err := messaging.NewKafkaProducer(cfg, tp)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})
	return producer, nil
}

// NewSpool returns a nil Spool when REDIS_URL is empty.
func NewSpool(lc fx.Lifecycle, cfg config.RedisConfig) (messaging.Spool, error) {
	if cfg.URL == "" {
		slog.Info("event spool disabled, undeliverable events will be dropped")
		return nil, nil
	}
	client, err := messaging.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return messaging.NewRedisSpool(client, cfg.SpoolKey), nil
}

func NewEmitter(lc fx.Lifecycle, producer messaging.Producer, spool messaging.Spool, kcfg config.KafkaConfig, rcfg config.RedisConfig) *messaging.KafkaEmitter {
	emitter := messaging.NewKafkaEmitter(producer, spool, kcfg, rcfg)
	// registered after the producer hook, so it stops (and flushes) first
	lc.Append(fx.Hook{
		OnStart: emitter.Start,
		OnStop:  emitter.Stop,
	})
	return emitter
}
