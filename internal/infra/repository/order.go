package repository

//go:generate mockgen -source=order.go -destination=../../../tests/mock/repository/mock_order.go -package=repositorymock

import (
	"context"

	"order-service/internal/domain/order"
	"order-service/internal/infra"
	"order-service/internal/infra/repository/converter"
	sqlc "order-service/internal/infra/sqlc/generated"
)

type OrderWriteQueries interface {
	CreateOrder(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateOrderParams) (int64, error)
	CreateOrderLineItem(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateOrderLineItemParams) error
}

type OrderRepository struct {
	queries OrderWriteQueries
	db      sqlc.DBTX
}

func NewOrderRepository(queries OrderWriteQueries, db sqlc.DBTX) *OrderRepository {
	return &OrderRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OrderRepository) Create(ctx context.Context, tx sqlc.DBTX, o *order.Order) (int64, error) {
	orderID, err := r.queries.CreateOrder(ctx, tx, converter.OrderToCreateParams(o))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create order", err)
	}

	params, err := converter.LineItemsToCreateParams(orderID, o.LineItems())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to convert order line items", err, infra.KindDBFailure)
	}
	for _, p := range params {
		if err := r.queries.CreateOrderLineItem(ctx, tx, p); err != nil {
			return 0, infra.WrapRepoErr("failed to create order line item", err)
		}
	}
	return orderID, nil
}
