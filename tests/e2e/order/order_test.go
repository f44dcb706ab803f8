//go:build e2e

package order_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"order-service/internal/domain/order"
	"order-service/internal/handler/dto/response"
	"order-service/internal/usecase/commands"
	"order-service/tests/common/builder"
	"order-service/tests/common/dbtest"
	"order-service/tests/common/httptest"
	"order-service/tests/e2e"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	orderURL  = "/api/order"
	healthURL = "/health"
)

func twoItemOrder() *builder.OrderBuilder {
	return builder.NewOrderBuilder().WithItems(
		order.LineItem{SkuCode: "iphone_13", Quantity: 2, UnitPrice: decimal.RequireFromString("1200.00")},
		order.LineItem{SkuCode: "galaxy_s24", Quantity: 1, UnitPrice: decimal.RequireFromString("999.99")},
	)
}

type OrderSuite struct {
	e2e.SharedSuite
}

func TestOrderSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OrderSuite))
}

// =============================================================================
// TestPlaceOrder - Order placement API tests
// =============================================================================

func (s *OrderSuite) TestPlaceOrder() {
	s.Run("Normal case: order is stored, stock decremented and event emitted", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		s.Env.Inventory.SetStock("galaxy_s24", true)

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, twoItemOrder().BuildPlaceRequestDTO())

		var res response.PlaceOrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		require.NotEmpty(t, res.OrderNumber)
		s.Equal(commands.MessagePlaced, res.Message)
		s.Empty(res.Warnings)

		s.Equal(1, dbtest.CountOrders(t, s.Env.DB))
		s.Equal([]string{"iphone_13", "galaxy_s24"}, dbtest.LineItemSkus(t, s.Env.DB, res.OrderNumber))

		decrements := s.Env.Inventory.Decrements()
		require.Len(t, decrements, 1)
		s.ElementsMatch([]e2e.StockDecrement{
			{SkuCode: "iphone_13", Quantity: 2},
			{SkuCode: "galaxy_s24", Quantity: 1},
		}, decrements[0])

		s.Eventually(func() bool {
			keys := s.Env.Events.Keys()
			return len(keys) == 1 && keys[0] == res.OrderNumber
		}, 2*time.Second, 10*time.Millisecond, "order placed event should be published")
	})

	s.Run("Normal case: repeated sku is checked once and decremented in total", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		b := builder.NewOrderBuilder().WithItems(
			order.LineItem{SkuCode: "iphone_13", Quantity: 1, UnitPrice: decimal.RequireFromString("1200.00")},
			order.LineItem{SkuCode: "iphone_13", Quantity: 3, UnitPrice: decimal.RequireFromString("1100.00")},
		)

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, b.BuildPlaceRequestDTO())

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		decrements := s.Env.Inventory.Decrements()
		require.Len(t, decrements, 1)
		s.Equal([]e2e.StockDecrement{{SkuCode: "iphone_13", Quantity: 4}}, decrements[0])
	})

	s.Run("Normal case: identical requests create distinct orders", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		req := builder.NewOrderBuilder().BuildPlaceRequestDTO()

		var first, second response.PlaceOrderResponse
		httptest.AssertSuccessResponse(t, httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, req), http.StatusCreated, &first)
		httptest.AssertSuccessResponse(t, httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, req), http.StatusCreated, &second)

		s.NotEqual(first.OrderNumber, second.OrderNumber)
		s.Equal(2, dbtest.CountOrders(t, s.Env.DB))
	})

	s.Run("Partial success: failed decrement keeps the order and warns", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		s.Env.Inventory.FailDecrements(true)

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, builder.NewOrderBuilder().BuildPlaceRequestDTO())

		var res response.PlaceOrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		s.Equal([]string{commands.WarningDecrementFailed}, res.Warnings)
		s.Equal(1, dbtest.CountOrders(t, s.Env.DB))
	})

	s.Run("Rejected: out of stock sku stores nothing", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		s.Env.Inventory.SetStock("galaxy_s24", false)

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, twoItemOrder().BuildPlaceRequestDTO())

		httptest.AssertMessageResponse(t, w, http.StatusOK, commands.MessageOutOfStock)
		s.Zero(dbtest.CountOrders(t, s.Env.DB))
		s.Empty(s.Env.Inventory.Decrements())
		s.Empty(s.Env.Events.Keys())
	})

	s.Run("Rejected: unknown sku stores nothing", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, twoItemOrder().BuildPlaceRequestDTO())

		httptest.AssertMessageResponse(t, w, http.StatusOK, commands.MessageProductNotFound)
		s.Zero(dbtest.CountOrders(t, s.Env.DB))
	})

	s.Run("Invalid: empty line item list", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, map[string]any{"orderLineItemsDtoList": []any{}})

		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
		s.Zero(dbtest.CountOrders(t, s.Env.DB))
	})

	s.Run("Invalid: negative price", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		req := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) {
			b.Items[0].UnitPrice = decimal.RequireFromString("-1")
		}).BuildPlaceRequestDTO()

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, req)

		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
		s.Zero(dbtest.CountOrders(t, s.Env.DB))
	})
}

// =============================================================================
// TestGetOrder - Order lookup API tests
// =============================================================================

func (s *OrderSuite) TestGetOrder() {
	s.Run("Normal case: placed order can be read back", func() {
		t := s.T()
		s.Env.Inventory.SetStock("iphone_13", true)
		s.Env.Inventory.SetStock("galaxy_s24", true)

		var placed response.PlaceOrderResponse
		httptest.AssertSuccessResponse(t,
			httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, twoItemOrder().BuildPlaceRequestDTO()),
			http.StatusCreated, &placed)

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodGet, fmt.Sprintf("%s/%s", orderURL, placed.OrderNumber), nil)

		var got response.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		s.Equal(placed.OrderNumber, got.OrderNumber)
		require.Len(t, got.LineItems, 2)
		s.Equal(int32(1), got.LineItems[0].Position)
		s.Equal("iphone_13", got.LineItems[0].SkuCode)
		s.Equal("3399.99", got.Total.StringFixed(2))
	})

	s.Run("Not found: unknown order number", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Env.Router, http.MethodGet, orderURL+"/does-not-exist", nil)

		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})
}

// =============================================================================
// TestHealth
// =============================================================================

func (s *OrderSuite) TestHealth() {
	w := httptest.PerformRequest(s.T(), s.Env.Router, http.MethodGet, healthURL, nil)

	var res response.HealthResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
	s.Equal("UP", res.Status)
}
