package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-service/internal/handler/middleware"
	"order-service/internal/infra/messaging"
	"order-service/internal/infra/observability"
	"order-service/internal/pkg/config"

	"github.com/kelseyhightower/envconfig"
)

// notificationConfig is the subset of settings the listener needs; it does not
// require the HTTP or database variables of the order service.
type notificationConfig struct {
	Log       config.LogConfig
	Kafka     config.KafkaConfig
	Telemetry config.TelemetryConfig
}

func main() {
	var cfg notificationConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to process env config", "error", err)
		os.Exit(1)
	}
	cfg.Telemetry.ServiceName = "notification-service"

	middleware.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := observability.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	consumer, err := messaging.NewKafkaConsumer(cfg.Kafka)
	if err != nil {
		slog.Error("failed to create kafka consumer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Warn("failed to close kafka consumer", "error", err.Error())
		}
	}()

	slog.Info("📨 notification listener started", "topic", cfg.Kafka.NotificationTopic, "group_id", cfg.Kafka.GroupID)
	if err := messaging.NewNotificationListener(consumer, tp).Run(ctx); err != nil {
		slog.Error("notification listener stopped", "error", err)
		return
	}
	slog.Info("notification listener stopped")
}
