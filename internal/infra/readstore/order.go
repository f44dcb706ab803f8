package readstore

//go:generate mockgen -source=order.go -destination=../../../tests/mock/repository/mock_order_view.go -package=repositorymock

import (
	"context"

	"order-service/internal/infra"
	sqlc "order-service/internal/infra/sqlc/generated"
	"order-service/internal/pkg/pgconv"
	"order-service/internal/usecase/queries"

	"github.com/shopspring/decimal"
)

type OrderViewQueries interface {
	GetOrderByNumber(ctx context.Context, db sqlc.DBTX, orderNumber string) (sqlc.TOrders, error)
	ListOrderLineItems(ctx context.Context, db sqlc.DBTX, orderID int64) ([]sqlc.TOrderLineItems, error)
}

type OrderReadStore struct {
	queries OrderViewQueries
	db      sqlc.DBTX
}

func NewOrderReadStore(queries OrderViewQueries, db sqlc.DBTX) *OrderReadStore {
	return &OrderReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *OrderReadStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*queries.OrderView, error) {
	row, err := r.queries.GetOrderByNumber(ctx, r.db, orderNumber)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order by number", err)
	}

	items, err := r.queries.ListOrderLineItems(ctx, r.db, row.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order line items", err)
	}

	view := &queries.OrderView{
		OrderNumber: row.OrderNumber,
		LineItems:   make([]queries.OrderLineItemView, 0, len(items)),
		Total:       decimal.Zero,
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
	}
	for _, it := range items {
		price, err := pgconv.DecimalFromNumeric(it.Price)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid line item price", err, infra.KindDBFailure)
		}
		view.LineItems = append(view.LineItems, queries.OrderLineItemView{
			Position:  it.Position,
			SkuCode:   it.SkuCode,
			UnitPrice: price,
			Quantity:  it.Quantity,
		})
		view.Total = view.Total.Add(price.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return view, nil
}
