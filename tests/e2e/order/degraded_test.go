//go:build e2e

package order_test

import (
	"net/http"
	"testing"

	"order-service/internal/handler/dto/response"
	"order-service/internal/infra/inventory"
	"order-service/internal/usecase/commands"
	"order-service/tests/common/builder"
	"order-service/tests/common/dbtest"
	"order-service/tests/common/httptest"
	"order-service/tests/e2e"

	"github.com/stretchr/testify/suite"
)

// DegradedSuite runs on its own app so the breakers it opens do not leak
// into OrderSuite.
type DegradedSuite struct {
	e2e.SharedSuite
}

func TestDegradedSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DegradedSuite))
}

func (s *DegradedSuite) TestInventoryDown() {
	t := s.T()
	s.Env.Inventory.SetStock("iphone_13", true)
	s.Env.Inventory.SetDown(true)
	req := builder.NewOrderBuilder().BuildPlaceRequestDTO()

	minCalls := s.Env.Config.Resilience.MinimumCalls
	for range minCalls + 1 {
		w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, req)
		httptest.AssertMessageResponse(t, w, http.StatusOK, commands.MessageDegraded)
	}

	s.Equal("OPEN", s.checkBreakerState())
	lookups := s.Env.Inventory.Lookups()

	w := httptest.PerformRequest(t, s.Env.Router, http.MethodPost, orderURL, req)
	httptest.AssertMessageResponse(t, w, http.StatusOK, commands.MessageDegraded)
	s.Equal(lookups, s.Env.Inventory.Lookups(), "open breaker must keep requests away from inventory")

	s.Zero(dbtest.CountOrders(t, s.Env.DB))
	s.Empty(s.Env.Events.Keys())

	w = httptest.PerformRequest(t, s.Env.Router, http.MethodGet, healthURL, nil)
	var res response.HealthResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	s.Equal("DEGRADED", res.Status)
}

func (s *DegradedSuite) checkBreakerState() string {
	w := httptest.PerformRequest(s.T(), s.Env.Router, http.MethodGet, healthURL, nil)
	var res response.HealthResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
	for _, b := range res.Breakers {
		if b.Name == inventory.CheckPolicyName {
			return b.State
		}
	}
	return ""
}
