package bootstrap

import (
	"order-service/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TelemetryModule,
	DBModule,
	MessagingModule,
	InventoryModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
