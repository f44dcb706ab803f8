package components

import (
	"order-service/internal/infra/readstore"
	sqlc "order-service/internal/infra/sqlc/generated"
	"order-service/internal/infra/uow"
	"order-service/internal/usecase/commands"
	"order-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Order
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.OrderViewQueries)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Order
		fx.Annotate(
			uow.NewOrderStore,
			fx.As(new(commands.OrderStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
