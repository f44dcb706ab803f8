package request

import (
	"order-service/internal/domain/order"

	"github.com/shopspring/decimal"
)

type OrderLineItemRequest struct {
	SkuCode  string          `json:"skuCode" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
}

type PlaceOrderRequest struct {
	OrderLineItemsDtoList []OrderLineItemRequest `json:"orderLineItemsDtoList" binding:"required,min=1,dive"`
}

func (r *PlaceOrderRequest) ToDomain() []order.LineItem {
	items := make([]order.LineItem, 0, len(r.OrderLineItemsDtoList))
	for _, li := range r.OrderLineItemsDtoList {
		items = append(items, order.LineItem{
			SkuCode:   li.SkuCode,
			Quantity:  li.Quantity,
			UnitPrice: li.Price,
		})
	}
	return items
}
