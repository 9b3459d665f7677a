package repository

import (
	"context"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// ProductRepository reads the catalog.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
}

// CouponRepository reads coupons. Usage counters are adjusted by OrderRepository.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}
