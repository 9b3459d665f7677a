package postgres

import (
	"context"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

const couponColumns = `id, code, discount_percent, max_uses, times_used, expires_at, is_active, owner_name, owner_role, created_at`

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const query = `SELECT ` + couponColumns + ` FROM coupons WHERE code=$1`
	var c model.Coupon
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.DiscountPercent, &c.MaxUses, &c.TimesUsed,
		&c.ExpiresAt, &c.IsActive, &c.OwnerName, &c.OwnerRole, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

// claimCoupon increments usage only while the limit has not been reached.
func claimCoupon(ctx context.Context, q querier, couponID int64) (bool, error) {
	tag, err := q.Exec(ctx, `UPDATE coupons SET times_used = times_used + 1 WHERE id=$1 AND times_used < max_uses`, couponID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// releaseCoupon decrements usage without going below zero.
func releaseCoupon(ctx context.Context, q querier, couponID int64) error {
	_, err := q.Exec(ctx, `UPDATE coupons SET times_used = times_used - 1 WHERE id=$1 AND times_used > 0`, couponID)
	return err
}
