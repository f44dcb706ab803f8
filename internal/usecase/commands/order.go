package commands

//go:generate mockgen -source=order.go -destination=../../../tests/mock/commands/mock_order.go -package=commandsmock

import (
	"context"
	"errors"
	"log/slog"

	"order-service/internal/domain/order"
	"order-service/internal/pkg/clock"
	"order-service/internal/pkg/errs"
	"order-service/internal/usecase/async"
)

const (
	MessagePlaced          = "Order placed successfully!"
	MessageDegraded        = "Oops! Inventory service is down, please try again later."
	MessageOutOfStock      = "Product is not in stock, please try again later"
	MessageProductNotFound = "Product does not exist!"

	WarningDecrementFailed = "Inventory could not be updated for this order; stock will be reconciled later."

	ObservationLookup    = "inventory-service-lookup"
	ObservationDecrement = "inventory-service-decrement"
	asyncTaskName        = "order.async"
)

type OrderStatus string

const (
	StatusPlaced   OrderStatus = "placed"
	StatusDegraded OrderStatus = "degraded"
)

type OrderResult struct {
	OrderNumber string
	Status      OrderStatus
	Message     string
	Warnings    []string
}

func (r *OrderResult) IsPlaced() bool {
	return r != nil && r.Status == StatusPlaced
}

// OrderCommands is the entry point used by the HTTP layer. The returned
// future settles once the workflow finishes or the caller's context ends.
type OrderCommands interface {
	PlaceOrder(ctx context.Context, items []order.LineItem) *async.Future[*OrderResult]
}

type orderCommandsImpl struct {
	orchestrator *OrderOrchestrator
	executor     *async.Executor
}

func NewOrderCommands(orchestrator *OrderOrchestrator, executor *async.Executor) OrderCommands {
	return &orderCommandsImpl{orchestrator: orchestrator, executor: executor}
}

func (c *orderCommandsImpl) PlaceOrder(ctx context.Context, items []order.LineItem) *async.Future[*OrderResult] {
	items = append([]order.LineItem(nil), items...)
	return async.Submit(ctx, c.executor, asyncTaskName, func(ctx context.Context) (*OrderResult, error) {
		return c.orchestrator.Place(ctx, items)
	})
}

var lookupAttrs = []Attr{{Key: "call", Value: "inventory-service-from-order-service"}}

type OrderOrchestrator struct {
	inventory InventoryGateway
	store     OrderStore
	events    EventPublisher
	observer  Observer
	clock     clock.Clock
}

func NewOrderOrchestrator(inventory InventoryGateway, store OrderStore, events EventPublisher, observer Observer, clk clock.Clock) *OrderOrchestrator {
	return &OrderOrchestrator{
		inventory: inventory,
		store:     store,
		events:    events,
		observer:  observer,
		clock:     clk,
	}
}

// Place runs one order placement. Nothing is persisted unless every distinct
// sku of the request is known to the inventory service and in stock. An
// unreachable inventory service yields a degraded result instead of an error.
func (o *OrderOrchestrator) Place(ctx context.Context, items []order.LineItem) (*OrderResult, error) {
	if err := order.ValidateLineItems(items); err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	skus := order.DistinctSkuCodes(items)

	var availability map[string]bool
	err := o.observer.Observe(ctx, ObservationLookup, lookupAttrs, func(ctx context.Context) error {
		var err error
		availability, err = o.inventory.CheckAvailability(ctx, skus)
		if err == nil {
			o.observer.Event(ctx, "Retrieved inventory")
		}
		return err
	})
	if err != nil {
		if errors.Is(err, errs.ErrRemoteUnavailable) {
			slog.WarnContext(ctx, "inventory service unavailable, order not placed",
				"skus", skus,
				"error", err.Error())
			return &OrderResult{Status: StatusDegraded, Message: MessageDegraded}, nil
		}
		return nil, errs.Wrap(err, "check inventory availability")
	}

	if err := verifyStock(skus, availability); err != nil {
		slog.InfoContext(ctx, "order rejected", "skus", skus, "reason", err.Error())
		return nil, err
	}

	ord, err := order.NewOrder(o.clock, items)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	orderNumber, err := o.store.Save(ctx, ord)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrOrderPersistFailed)
	}

	result := &OrderResult{
		OrderNumber: orderNumber,
		Status:      StatusPlaced,
		Message:     MessagePlaced,
	}

	decrements := stockDecrements(items)
	decAttrs := []Attr{lookupAttrs[0], {Key: "order.number", Value: orderNumber}}
	err = o.observer.Observe(ctx, ObservationDecrement, decAttrs, func(ctx context.Context) error {
		err := o.inventory.DecrementStock(ctx, decrements)
		if err == nil {
			o.observer.Event(ctx, "Decremented inventory")
		}
		return err
	})
	if err != nil {
		// the order stays committed; no compensation
		err = errs.Mark(err, errs.ErrDecrementFailed)
		slog.ErrorContext(ctx, "inventory decrement failed after order was saved",
			"order_number", orderNumber,
			"error", err.Error())
		o.observer.Event(ctx, "Inventory decrement failed", Attr{Key: "order.number", Value: orderNumber})
		result.Warnings = append(result.Warnings, WarningDecrementFailed)
	}

	o.events.Publish(ctx, OrderPlacedEvent{OrderNumber: orderNumber})

	slog.InfoContext(ctx, "order placed",
		"order_number", orderNumber,
		"line_items", len(items))
	return result, nil
}

func verifyStock(skus []string, availability map[string]bool) error {
	if len(availability) != len(skus) {
		return errs.Mark(errs.Newf("inventory returned %d of %d skus", len(availability), len(skus)), errs.ErrProductNotFound)
	}
	for _, sku := range skus {
		if _, ok := availability[sku]; !ok {
			return errs.Mark(errs.Newf("sku %q unknown to inventory", sku), errs.ErrProductNotFound)
		}
	}
	for _, sku := range skus {
		if !availability[sku] {
			return errs.Mark(errs.Newf("sku %q out of stock", sku), errs.ErrOutOfStock)
		}
	}
	return nil
}

// stockDecrements sums quantities per sku, keeping first-seen order.
func stockDecrements(items []order.LineItem) []StockDecrement {
	index := make(map[string]int, len(items))
	out := make([]StockDecrement, 0, len(items))
	for _, li := range items {
		if i, ok := index[li.SkuCode]; ok {
			out[i].Quantity += li.Quantity
			continue
		}
		index[li.SkuCode] = len(out)
		out = append(out, StockDecrement{SkuCode: li.SkuCode, Quantity: li.Quantity})
	}
	return out
}
