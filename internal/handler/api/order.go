package api

import (
	"errors"
	"log/slog"
	"net/http"

	reqdto "order-service/internal/handler/dto/request"
	resdto "order-service/internal/handler/dto/response"
	"order-service/internal/handler/httperr"
	"order-service/internal/pkg/errs"
	"order-service/internal/usecase/commands"
	"order-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const (
	messageCancelled     = "Order request was cancelled, please try again later."
	messagePersistFailed = "Order could not be saved, please try again later."
	messageUnexpected    = "Order could not be placed, please try again later."
)

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

// @Summary Place order
// @Description Check inventory, persist the order and trigger the stock decrement
// @Tags orders
// @Accept json
// @Produce json
// @Param request body reqdto.PlaceOrderRequest true "Place order request"
// @Success 201 {object} resdto.PlaceOrderResponse
// @Success 200 {object} resdto.MessageResponse
// @Failure 400 {object} httperr.Response
// @Router /order [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req reqdto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	ctx := c.Request.Context()
	result, err := h.cmds.PlaceOrder(ctx, req.ToDomain()).Await(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order", nil)
			return
		}
		msg := outcomeMessage(err)
		slog.WarnContext(ctx, "order not placed", "error", err.Error(), "message", msg)
		c.JSON(http.StatusOK, resdto.MessageResponse{Message: msg})
		return
	}
	if !result.IsPlaced() {
		c.JSON(http.StatusOK, resdto.MessageResponse{Message: result.Message})
		return
	}

	res, err := resdto.FromOrderResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to build response", nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Get order
// @Description Get a placed order by its order number
// @Tags orders
// @Produce json
// @Param orderNumber path string true "Order number"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /order/{orderNumber} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	view, err := h.q.GetByOrderNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		if errors.Is(err, queries.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load order", nil)
		return
	}
	res, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to build response", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

func outcomeMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrOutOfStock):
		return commands.MessageOutOfStock
	case errors.Is(err, errs.ErrProductNotFound):
		return commands.MessageProductNotFound
	case errors.Is(err, errs.ErrRemoteUnavailable):
		return commands.MessageDegraded
	case errors.Is(err, errs.ErrCancelled):
		return messageCancelled
	case errors.Is(err, errs.ErrOrderPersistFailed):
		return messagePersistFailed
	default:
		return messageUnexpected
	}
}
