package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
)

// AuthHandler processes staff login.
type AuthHandler struct {
	facade StaffFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade StaffFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Login handles POST /api/shop/admin/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.facade.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			internalError(c)
		}
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
