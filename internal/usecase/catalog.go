package usecase

import (
	"context"
	"time"

	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

const healthTimeout = 2 * time.Second

// CatalogUseCase serves the read-only storefront and the health probe.
type CatalogUseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	health   repository.HealthChecker
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository, orders repository.OrderRepository, health repository.HealthChecker) *CatalogUseCase {
	return &CatalogUseCase{products: products, orders: orders, health: health}
}

func (u *CatalogUseCase) Products(ctx context.Context) ([]model.Product, error) {
	return u.products.ListActive(ctx)
}

func (u *CatalogUseCase) Product(ctx context.Context, slug string) (*model.Product, error) {
	return u.products.GetBySlug(ctx, slug)
}

// Health pings the database and counts catalog and order rows.
func (u *CatalogUseCase) Health(ctx context.Context) model.HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := u.health.HealthCheck(ctx); err != nil {
		return model.HealthReport{Error: err.Error()}
	}
	products, err := u.products.Count(ctx)
	if err != nil {
		return model.HealthReport{Error: err.Error()}
	}
	orders, err := u.orders.Count(ctx)
	if err != nil {
		return model.HealthReport{Error: err.Error()}
	}
	return model.HealthReport{Healthy: true, ProductCount: products, OrderCount: orders}
}
