package components

import (
	"order-service/internal/handler"
	"order-service/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewHealthHandler,
	),
	fx.Invoke(handler.NewRouter),
)
