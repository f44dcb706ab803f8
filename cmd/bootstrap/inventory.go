package bootstrap

import (
	"order-service/internal/infra/inventory"
	"order-service/internal/pkg/config"
	"order-service/internal/pkg/resilience"
	"order-service/internal/usecase/commands"

	"go.uber.org/fx"
)

var InventoryModule = fx.Module("inventory",
	fx.Provide(
		resilience.NewRegistry,
		func(cfg config.Config) resilience.Config { return resilience.NewConfig(cfg.Resilience) },
		inventory.NewHTTPClient,
		fx.Annotate(
			inventory.NewClient,
			fx.As(new(commands.InventoryGateway)),
		),
	),
)
