//go:build unit || e2e

package builder

import (
	"time"

	"order-service/internal/domain/order"
	reqdto "order-service/internal/handler/dto/request"
	sqlc "order-service/internal/infra/sqlc/generated"
	"order-service/internal/pkg/clock"
	"order-service/internal/pkg/pgconv"
	"order-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderBuilder struct {
	OrderNumber string
	Items       []order.LineItem
	CreatedAt   time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		OrderNumber: uuid.NewString(),
		Items: []order.LineItem{
			{SkuCode: "iphone_13", Quantity: 2, UnitPrice: decimal.RequireFromString("1200.00")},
		},
		CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithItems(items ...order.LineItem) *OrderBuilder {
	b.Items = items
	return b
}

// Build methods
func (b *OrderBuilder) BuildDomain() (*order.Order, error) {
	return order.ReconstructOrder(b.OrderNumber, b.Items, b.CreatedAt)
}

func (b *OrderBuilder) BuildNew() (*order.Order, error) {
	return order.NewOrder(b.BuildClock(), b.Items)
}

func (b *OrderBuilder) BuildClock() *clock.MockClock {
	return clock.NewMockClock(b.CreatedAt)
}

func (b *OrderBuilder) BuildPlaceRequestDTO() reqdto.PlaceOrderRequest {
	req := reqdto.PlaceOrderRequest{}
	for _, li := range b.Items {
		req.OrderLineItemsDtoList = append(req.OrderLineItemsDtoList, reqdto.OrderLineItemRequest{
			SkuCode:  li.SkuCode,
			Price:    li.UnitPrice,
			Quantity: li.Quantity,
		})
	}
	return req
}

func (b *OrderBuilder) BuildInfra(id int64) sqlc.TOrders {
	return sqlc.TOrders{
		ID:          id,
		OrderNumber: b.OrderNumber,
		CreatedAt:   pgconv.TimeToPgtype(b.CreatedAt),
	}
}

func (b *OrderBuilder) BuildInfraLineItems(orderID int64) []sqlc.TOrderLineItems {
	rows := make([]sqlc.TOrderLineItems, 0, len(b.Items))
	for i, li := range b.Items {
		rows = append(rows, sqlc.TOrderLineItems{
			ID:       int64(i + 1),
			OrderID:  orderID,
			Position: int32(i + 1),
			SkuCode:  li.SkuCode,
			Price:    pgconv.DecimalToNumeric(li.UnitPrice),
			Quantity: int32(li.Quantity),
		})
	}
	return rows
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	view := &queries.OrderView{
		OrderNumber: b.OrderNumber,
		CreatedAt:   b.CreatedAt,
		Total:       decimal.Zero,
	}
	for i, li := range b.Items {
		view.LineItems = append(view.LineItems, queries.OrderLineItemView{
			Position:  int32(i + 1),
			SkuCode:   li.SkuCode,
			UnitPrice: li.UnitPrice,
			Quantity:  int32(li.Quantity),
		})
		view.Total = view.Total.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return view
}
