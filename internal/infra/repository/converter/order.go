package converter

import (
	"order-service/internal/domain/order"
	sqlc "order-service/internal/infra/sqlc/generated"
	"order-service/internal/pkg/pgconv"
)

func OrderToCreateParams(o *order.Order) sqlc.CreateOrderParams {
	return sqlc.CreateOrderParams{
		OrderNumber: o.OrderNumber(),
		CreatedAt:   pgconv.TimeToPgtype(o.CreatedAt()),
	}
}

// LineItemsToCreateParams numbers items from 1 in request order.
func LineItemsToCreateParams(orderID int64, items []order.LineItem) ([]sqlc.CreateOrderLineItemParams, error) {
	params := make([]sqlc.CreateOrderLineItemParams, 0, len(items))
	for i, li := range items {
		qty, err := pgconv.IntToInt32(li.Quantity)
		if err != nil {
			return nil, err
		}
		params = append(params, sqlc.CreateOrderLineItemParams{
			OrderID:  orderID,
			Position: int32(i + 1), // #nosec G115 -- bounded by request size
			SkuCode:  li.SkuCode,
			Price:    pgconv.DecimalToNumeric(li.UnitPrice),
			Quantity: qty,
		})
	}
	return params, nil
}
