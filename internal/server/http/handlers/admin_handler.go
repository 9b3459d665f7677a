package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
)

const defaultSweepHours = 24

// AdminHandler exposes staff order management.
type AdminHandler struct {
	facade OrderAdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade OrderAdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// List handles GET /api/shop/admin/orders?status=&limit=.
func (h *AdminHandler) List(c *gin.Context) {
	filter := model.OrderFilter{
		Status: model.OrderStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	orders, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, dto.NewOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/shop/admin/orders/:id.
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Fulfill handles POST /api/shop/admin/orders/:id/fulfill.
func (h *AdminHandler) Fulfill(c *gin.Context) {
	h.act(c, h.facade.FulfillOrder)
}

// Deliver handles POST /api/shop/admin/orders/:id/deliver.
func (h *AdminHandler) Deliver(c *gin.Context) {
	h.act(c, h.facade.DeliverOrder)
}

// Undeliver handles POST /api/shop/admin/orders/:id/undeliver.
func (h *AdminHandler) Undeliver(c *gin.Context) {
	h.act(c, h.facade.UndeliverOrder)
}

// Cancel handles POST /api/shop/admin/orders/:id/cancel.
func (h *AdminHandler) Cancel(c *gin.Context) {
	h.act(c, h.facade.CancelOrder)
}

// Revert handles POST /api/shop/admin/orders/:id/revert. An empty body reverts to PAID.
func (h *AdminHandler) Revert(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.RevertRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	to := model.OrderStatus(strings.ToUpper(strings.TrimSpace(req.To)))
	order, err := h.facade.RevertOrder(c.Request.Context(), id, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Sweep handles POST /api/shop/admin/orders/sweep.
func (h *AdminHandler) Sweep(c *gin.Context) {
	req := dto.SweepRequest{Hours: defaultSweepHours}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	count, err := h.facade.SweepOrders(c.Request.Context(), time.Duration(req.Hours)*time.Hour, req.DryRun)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SweepResponse{Count: count, DryRun: req.DryRun})
}

func (h *AdminHandler) act(c *gin.Context, fn func(ctx context.Context, id int64) (*model.Order, error)) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := fn(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrAlreadyDelivered):
		respondErrorDetails(c, http.StatusConflict, "Action not allowed for this order", err.Error())
	case errors.Is(err, domainErrors.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "Unknown order status")
	case errors.Is(err, domainErrors.ErrInvalidThreshold):
		respondError(c, http.StatusBadRequest, "Hours must be positive")
	default:
		internalError(c)
	}
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return id, true
}
