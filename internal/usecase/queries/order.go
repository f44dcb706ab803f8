package queries

//go:generate mockgen -source=order.go -destination=../../../tests/mock/queries/mock_order.go -package=queriesmock

import (
	"context"
	"errors"
	"time"

	"order-service/internal/infra"

	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderLineItemView struct {
	Position  int32           `json:"position"`
	SkuCode   string          `json:"sku_code"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
}

type OrderView struct {
	OrderNumber string              `json:"order_number"`
	LineItems   []OrderLineItemView `json:"line_items"`
	Total       decimal.Decimal     `json:"total"`
	CreatedAt   time.Time           `json:"created_at"`
}

type OrderReadStore interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*OrderView, error)
}

type OrderQueries interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderView, error)
}

type orderQueriesImpl struct {
	repo OrderReadStore
}

func NewOrderQueries(repo OrderReadStore) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderView, error) {
	view, err := q.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}
