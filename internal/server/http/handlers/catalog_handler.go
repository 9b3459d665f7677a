package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
)

// CatalogHandler serves read-only catalogue endpoints.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Health handles GET /api/shop/health.
func (h *CatalogHandler) Health(c *gin.Context) {
	report := h.facade.Health(c.Request.Context())
	if !report.Healthy {
		c.JSON(http.StatusInternalServerError, dto.HealthResponse{Status: "unhealthy", Error: report.Error})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:       "healthy",
		ProductCount: report.ProductCount,
		OrderCount:   report.OrderCount,
	})
}

// List handles GET /api/shop/products.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		internalError(c)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, dto.NewProductResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/shop/products/:slug.
func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}
