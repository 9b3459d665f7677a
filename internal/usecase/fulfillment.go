package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

const defaultListLimit = 100

// FulfillmentUseCase drives the operator side of the order lifecycle.
type FulfillmentUseCase struct {
	orders repository.OrderRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewFulfillmentUseCase constructs FulfillmentUseCase.
func NewFulfillmentUseCase(orders repository.OrderRepository, logger *slog.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{orders: orders, logger: logger, now: time.Now}
}

// List returns recent orders, optionally narrowed to one status.
func (u *FulfillmentUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > defaultListLimit {
		filter.Limit = defaultListLimit
	}
	return u.orders.List(ctx, filter)
}

func (u *FulfillmentUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// Fulfill marks a PAID order as prepared.
func (u *FulfillmentUseCase) Fulfill(ctx context.Context, id int64) (*model.Order, error) {
	now := u.now()
	return u.apply(ctx, id, "fulfill", func(o *model.Order) error { return o.Fulfill(now) })
}

// Revert returns a fulfilled order to PAID or PENDING. An empty target means PAID.
func (u *FulfillmentUseCase) Revert(ctx context.Context, id int64, to model.OrderStatus) (*model.Order, error) {
	if to == "" {
		to = model.OrderStatusPaid
	}
	return u.apply(ctx, id, "revert", func(o *model.Order) error { return o.RevertFulfillment(to) })
}

func (u *FulfillmentUseCase) Deliver(ctx context.Context, id int64) (*model.Order, error) {
	now := u.now()
	return u.apply(ctx, id, "deliver", func(o *model.Order) error { return o.MarkDelivered(now) })
}

func (u *FulfillmentUseCase) Undeliver(ctx context.Context, id int64) (*model.Order, error) {
	return u.apply(ctx, id, "undeliver", func(o *model.Order) error { return o.UndoDelivery() })
}

// Cancel fails an undelivered order. Stock is not restored.
func (u *FulfillmentUseCase) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	return u.apply(ctx, id, "cancel", func(o *model.Order) error { return o.Cancel() })
}

func (u *FulfillmentUseCase) apply(ctx context.Context, id int64, action string, fn func(*model.Order) error) (*model.Order, error) {
	order, err := u.orders.Transition(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	u.logger.Info("order updated", slog.Int64("order_id", id), slog.String("action", action), slog.String("status", string(order.Status)))
	return order, nil
}
