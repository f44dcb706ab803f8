package bootstrap

import (
	"context"
	"log/slog"

	"order-service/internal/infra/observability"
	"order-service/internal/pkg/config"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var TelemetryModule = fx.Module("telemetry",
	fx.Provide(
		NewTracerProvider,
	),
)

func NewTracerProvider(lc fx.Lifecycle, cfg config.Config) (trace.TracerProvider, error) {
	tp, err := observability.SetupTracing(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := tp.Shutdown(ctx); err != nil {
				slog.Warn("failed to shut down tracer provider", "error", err.Error())
			}
			return nil
		},
	})

	return tp, nil
}
