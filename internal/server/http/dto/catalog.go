package dto

import (
	"time"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// ProductResponse is the public view of a catalog entry.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProductResponse renders product with a 2-decimal price.
func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// HealthResponse reports database reachability.
type HealthResponse struct {
	Status       string `json:"status"`
	ProductCount int64  `json:"product_count,omitempty"`
	OrderCount   int64  `json:"order_count,omitempty"`
	Error        string `json:"error,omitempty"`
}
