package bootstrap

import (
	"order-service/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.KafkaConfig { return cfg.Kafka },
		func(cfg config.Config) config.RedisConfig { return cfg.Redis },
		func(cfg config.Config) config.AsyncConfig { return cfg.Async },
		func(cfg config.Config) config.InventoryConfig { return cfg.Inventory },
	),
)
