package api

import (
	"net/http"

	resdto "order-service/internal/handler/dto/response"
	"order-service/internal/pkg/resilience"

	"github.com/gin-gonic/gin"
)

const (
	healthUp       = "UP"
	healthDegraded = "DEGRADED"
)

type HealthHandler struct {
	registry *resilience.Registry
}

func NewHealthHandler(registry *resilience.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// @Summary Health check
// @Description Service status with the state of every circuit breaker
// @Tags health
// @Produce json
// @Success 200 {object} resdto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	breakers := h.registry.Snapshot()
	status := healthUp
	for _, b := range breakers {
		if b.State != resilience.StateClosed.String() {
			status = healthDegraded
			break
		}
	}
	c.JSON(http.StatusOK, resdto.HealthResponse{Status: status, Breakers: breakers})
}
