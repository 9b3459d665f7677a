package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

// CouponUseCase answers the storefront's coupon preview.
type CouponUseCase struct {
	coupons repository.CouponRepository
	now     func() time.Time
}

// NewCouponUseCase constructs CouponUseCase.
func NewCouponUseCase(coupons repository.CouponRepository) *CouponUseCase {
	return &CouponUseCase{coupons: coupons, now: time.Now}
}

// Validate prices code against cartTotal. Unlike checkout, an unusable code
// is an error carrying the specific reason.
func (u *CouponUseCase) Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponQuote, error) {
	code = model.NormalizeCouponCode(code)
	if code == "" {
		return nil, domainErrors.ErrCouponCodeRequired
	}

	coupon, err := u.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, rejected(model.CouponNotFound)
		}
		return nil, err
	}

	if reason := coupon.Rejection(u.now()); reason != model.CouponAccepted {
		return nil, rejected(reason)
	}

	if cartTotal.IsNegative() {
		cartTotal = decimal.Zero
	}
	quote := coupon.Quote(cartTotal)
	return &quote, nil
}

func rejected(reason model.CouponRejection) error {
	return &domainErrors.CouponRejectedError{Reason: string(reason), Message: reason.Message()}
}
