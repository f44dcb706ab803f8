package commands

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/mock_ports.go -package=commandsmock

import (
	"context"

	"order-service/internal/domain/order"
)

type StockDecrement struct {
	SkuCode  string `json:"skuCode"`
	Quantity int    `json:"quantity"`
}

// InventoryGateway reaches the remote inventory service. Both operations fail
// with errs.ErrRemoteUnavailable when the service cannot be used.
type InventoryGateway interface {
	CheckAvailability(ctx context.Context, skuCodes []string) (map[string]bool, error)
	DecrementStock(ctx context.Context, items []StockDecrement) error
}

type OrderStore interface {
	Save(ctx context.Context, o *order.Order) (string, error)
}

type OrderPlacedEvent struct {
	OrderNumber string `json:"orderNumber"`
}

// EventPublisher is fire-and-forget: delivery problems never reach the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderPlacedEvent)
}

type Attr struct {
	Key   string
	Value string
}

// Observer wraps fn in a named observation (span) carrying attrs.
type Observer interface {
	Observe(ctx context.Context, name string, attrs []Attr, fn func(ctx context.Context) error) error
	Event(ctx context.Context, name string, attrs ...Attr)
}
