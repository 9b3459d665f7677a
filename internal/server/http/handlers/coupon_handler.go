package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
)

// CouponHandler answers coupon validation requests from the cart page.
type CouponHandler struct {
	facade CouponFacade
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(facade CouponFacade) *CouponHandler {
	return &CouponHandler{facade: facade}
}

// Validate handles POST /api/shop/coupons/validate.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CouponResponse{Message: "Invalid request body"})
		return
	}

	quote, err := h.facade.ValidateCoupon(c.Request.Context(), req.Code, req.Total())
	if err != nil {
		var rejected *domainErrors.CouponRejectedError
		switch {
		case errors.Is(err, domainErrors.ErrCouponCodeRequired):
			c.JSON(http.StatusBadRequest, dto.CouponResponse{Message: "Please enter a coupon code"})
		case errors.As(err, &rejected):
			status := http.StatusBadRequest
			if rejected.Reason == string(model.CouponNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, dto.CouponResponse{Message: rejected.Message})
		default:
			c.JSON(http.StatusInternalServerError, dto.CouponResponse{Message: "Could not validate coupon"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewCouponResponse(quote))
}
