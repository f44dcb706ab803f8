package shared

import (
	"context"

	"order-service/internal/domain/order"
	sqlc "order-service/internal/infra/sqlc/generated"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
}

type Tx interface {
	Orders() OrderRepository
	DB() sqlc.DBTX
}

type OrderRepository interface {
	// Create inserts the order header and its line items and returns the row id.
	Create(ctx context.Context, tx sqlc.DBTX, o *order.Order) (int64, error)
}
