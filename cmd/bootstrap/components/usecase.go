package components

import (
	"order-service/internal/infra/observability"
	"order-service/internal/pkg/clock"
	"order-service/internal/usecase/async"
	"order-service/internal/usecase/commands"
	"order-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	async.NewExecutor,
	fx.Annotate(
		observability.NewSpanObserver,
		fx.As(new(commands.Observer)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderOrchestrator,
		commands.NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
	),
)
