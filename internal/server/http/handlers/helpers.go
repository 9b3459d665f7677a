package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/acesshop/internal/server/http/dto"
	"github.com/polkiloo/acesshop/internal/server/http/middleware"
)

// CurrentStaffID extracts authenticated staff identifier from context.
func CurrentStaffID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.StaffIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Error: message})
}

func respondErrorDetails(c *gin.Context, status int, message, details string) {
	c.JSON(status, dto.ErrorResponse{Error: message, Details: details})
}

func internalError(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
