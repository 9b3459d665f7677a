package repository

import (
	"context"
	"time"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Every
// read-then-write sequence runs inside one transaction holding the row lock.
type OrderRepository interface {
	// CreateOrReuse persists the draft. A PENDING order for the same email
	// created at or after reuseSince and already carrying a payment reference
	// is overwritten instead of inserting a new row.
	CreateOrReuse(ctx context.Context, draft model.OrderDraft, reuseSince time.Time) (*model.Order, bool, error)
	AttachPaymentReference(ctx context.Context, orderID int64, reference string) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByReference(ctx context.Context, reference string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
	// Settle moves a PENDING order to PAID and decrements stock, or reports
	// AlreadyPaid without side effects.
	Settle(ctx context.Context, reference string, reportedMinor int64, verificationCode string) (*model.Settlement, error)
	// Transition applies fn to the locked order and persists status and timestamps.
	Transition(ctx context.Context, id int64, fn func(*model.Order) error) (*model.Order, error)
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
	CountStale(ctx context.Context, cutoff time.Time) (int64, error)
}
