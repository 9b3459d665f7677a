package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Staff() StaffRepository
	Products() ProductRepository
	Coupons() CouponRepository
	Orders() OrderRepository
	WebhookLogs() WebhookLogRepository
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
