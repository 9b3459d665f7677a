package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
)

// CheckoutHandler creates orders and handles the payment callback.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Create handles POST /api/shop/orders/create.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.facade.Checkout(c.Request.Context(), req.ToModel())
	if err != nil {
		var unavailable *domainErrors.ProductsUnavailableError
		var rejected *domainErrors.GatewayRejectedError
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, "Cart is empty")
		case errors.As(err, &unavailable):
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Products with IDs %v not found or inactive", unavailable.IDs))
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, "Invalid item quantity")
		case errors.Is(err, domainErrors.ErrInvalidCustomer):
			respondError(c, http.StatusBadRequest, "A valid email address is required")
		case errors.As(err, &rejected):
			respondErrorDetails(c, http.StatusBadRequest, "Payment initialization failed", rejected.Message)
		case errors.Is(err, domainErrors.ErrGatewayUnavailable):
			respondError(c, http.StatusServiceUnavailable, "Payment service temporarily unavailable. Please try again.")
		default:
			internalError(c)
		}
		return
	}

	response := dto.CreateOrderResponse{
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		Reference:        result.Reference,
		OrderID:          result.OrderID,
	}
	switch {
	case result.Mock:
		response.Message = "Mock payment mode. No real charge will be made."
	case result.Reused:
		response.Message = "Existing pending order reused"
	}
	c.JSON(http.StatusOK, response)
}

// Verify handles GET /api/shop/verify-payment?reference=...
func (h *CheckoutHandler) Verify(c *gin.Context) {
	settlement, err := h.facade.VerifyPayment(c.Request.Context(), c.Query("reference"))
	if err != nil {
		var rejected *domainErrors.GatewayRejectedError
		switch {
		case errors.Is(err, domainErrors.ErrReferenceRequired):
			respondError(c, http.StatusBadRequest, "No reference provided")
		case errors.Is(err, domainErrors.ErrPaymentNotSuccessful):
			respondError(c, http.StatusBadRequest, "Payment verification failed")
		case errors.As(err, &rejected):
			respondErrorDetails(c, http.StatusBadRequest, "Payment verification failed", rejected.Message)
		case errors.Is(err, domainErrors.ErrNotFound):
			respondError(c, http.StatusNotFound, "Order not found")
		case errors.Is(err, domainErrors.ErrAmountMismatch):
			respondError(c, http.StatusBadRequest, "Payment amount mismatch. Please contact support.")
		case errors.Is(err, domainErrors.ErrGatewayUnavailable):
			respondError(c, http.StatusServiceUnavailable, "Could not verify payment. Please try again shortly.")
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			respondError(c, http.StatusConflict, "Order can no longer be paid")
		default:
			internalError(c)
		}
		return
	}

	message := "Payment verified successfully"
	if settlement.AlreadyPaid {
		message = "Order already paid"
	}
	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Message: message,
		Order:   dto.NewOrderResponse(settlement.Order),
	})
}
