package order

import (
	"errors"
	"time"

	"order-service/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder         = errors.New("order must contain at least one line item")
	ErrEmptySkuCode       = errors.New("sku code cannot be empty")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrPricePrecision     = errors.New("price cannot have more than 2 decimal places")
	ErrInvalidOrderNumber = errors.New("invalid order number")
)

// PriceScale is the number of decimal places a stored price keeps.
const PriceScale = 2

type LineItem struct {
	SkuCode   string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (li LineItem) Validate() error {
	if li.SkuCode == "" {
		return ErrEmptySkuCode
	}
	if li.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if li.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if !li.UnitPrice.Equal(li.UnitPrice.Truncate(PriceScale)) {
		return ErrPricePrecision
	}
	return nil
}

func ValidateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DistinctSkuCodes keeps the first occurrence of every sku in request order.
func DistinctSkuCodes(items []LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	skus := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.SkuCode]; ok {
			continue
		}
		seen[item.SkuCode] = struct{}{}
		skus = append(skus, item.SkuCode)
	}
	return skus
}

type Order struct {
	orderNumber string
	lineItems   []LineItem
	createdAt   time.Time
}

func NewOrder(clk clock.Clock, items []LineItem) (*Order, error) {
	if err := ValidateLineItems(items); err != nil {
		return nil, err
	}
	return &Order{
		orderNumber: uuid.NewString(),
		lineItems:   append([]LineItem(nil), items...),
		createdAt:   clk.Now(),
	}, nil
}

func ReconstructOrder(orderNumber string, items []LineItem, createdAt time.Time) (*Order, error) {
	if _, err := uuid.Parse(orderNumber); err != nil {
		return nil, ErrInvalidOrderNumber
	}
	if err := ValidateLineItems(items); err != nil {
		return nil, err
	}
	return &Order{
		orderNumber: orderNumber,
		lineItems:   append([]LineItem(nil), items...),
		createdAt:   createdAt,
	}, nil
}

func (o *Order) OrderNumber() string { return o.orderNumber }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// LineItems returns a copy; the order itself never changes after creation.
func (o *Order) LineItems() []LineItem {
	return append([]LineItem(nil), o.lineItems...)
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.lineItems {
		total = total.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total
}
