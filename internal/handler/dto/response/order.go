package response

import (
	"order-service/internal/pkg/resilience"
	"order-service/internal/usecase/commands"
	"order-service/internal/usecase/queries"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type PlaceOrderResponse struct {
	OrderNumber string   `json:"orderNumber"`
	Message     string   `json:"message"`
	Warnings    []string `json:"warnings"`
}

func FromOrderResult(r *commands.OrderResult) (*PlaceOrderResponse, error) {
	res := &PlaceOrderResponse{}
	if err := copier.Copy(res, r); err != nil {
		return nil, err
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res, nil
}

// MessageResponse is returned for every outcome that did not place an order.
type MessageResponse struct {
	Message string `json:"message"`
}

type OrderLineItemResponse struct {
	Position  int32           `json:"position"`
	SkuCode   string          `json:"skuCode"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
}

type OrderResponse struct {
	OrderNumber string                  `json:"orderNumber"`
	LineItems   []OrderLineItemResponse `json:"orderLineItems"`
	Total       decimal.Decimal         `json:"total"`
	CreatedAt   int64                   `json:"createdAt"`
}

func FromOrderView(v *queries.OrderView) (*OrderResponse, error) {
	res := &OrderResponse{
		OrderNumber: v.OrderNumber,
		Total:       v.Total,
		CreatedAt:   v.CreatedAt.Unix(),
	}
	if err := copier.Copy(&res.LineItems, &v.LineItems); err != nil {
		return nil, err
	}
	return res, nil
}

type HealthResponse struct {
	Status   string                       `json:"status"`
	Breakers []resilience.BreakerSnapshot `json:"circuitBreakers"`
}
