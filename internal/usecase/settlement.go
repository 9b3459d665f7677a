package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
	"github.com/polkiloo/acesshop/internal/logger"
)

// SettlementUseCase is the only path that moves an order from PENDING to PAID.
// Both the browser callback and the webhook go through Settle.
type SettlementUseCase struct {
	orders     repository.OrderRepository
	notifier   Notifier
	dispatcher Dispatcher
	logger     *slog.Logger
	newCode    func() string
}

// NewSettlementUseCase constructs SettlementUseCase.
func NewSettlementUseCase(orders repository.OrderRepository, notifier Notifier, dispatcher Dispatcher, logger *slog.Logger) *SettlementUseCase {
	return &SettlementUseCase{
		orders:     orders,
		notifier:   notifier,
		dispatcher: dispatcher,
		logger:     logger,
		newCode:    uuid.NewString,
	}
}

// Settle marks the order paid when reportedMinor matches its total. Repeated
// calls for a paid order return AlreadyPaid and have no side effects.
func (u *SettlementUseCase) Settle(ctx context.Context, reference string, reportedMinor int64) (*model.Settlement, error) {
	result, err := u.orders.Settle(ctx, reference, reportedMinor, u.newCode())
	if err != nil {
		var mismatch *domainErrors.AmountMismatchError
		if errors.As(err, &mismatch) {
			u.reportMismatch(ctx, reference, mismatch)
			return nil, err
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Error("settlement failed", slog.String("reference", reference), slog.String("error", err.Error()))
		}
		return nil, err
	}

	if result.AlreadyPaid {
		u.logger.Info("order already paid", slog.String("reference", reference), slog.Int64("order_id", result.Order.ID))
		return result, nil
	}

	for _, productID := range result.Oversold {
		u.logger.Warn("product oversold", slog.Int64("product_id", productID), slog.Int64("order_id", result.Order.ID))
	}
	u.logger.Info("order paid", slog.String("reference", reference), slog.Int64("order_id", result.Order.ID))

	u.notify(result.Order)
	return result, nil
}

// CheckAmount compares the gateway amount with the order total before an
// entry point hands the order to Settle.
func (u *SettlementUseCase) CheckAmount(ctx context.Context, order *model.Order, reportedMinor int64) error {
	expected := order.AmountMinor()
	if expected == reportedMinor {
		return nil
	}
	mismatch := &domainErrors.AmountMismatchError{OrderID: order.ID, Expected: expected, Reported: reportedMinor}
	u.reportMismatch(ctx, derefString(order.PaymentReference), mismatch)
	return mismatch
}

func (u *SettlementUseCase) reportMismatch(ctx context.Context, reference string, mismatch *domainErrors.AmountMismatchError) {
	u.logger.Log(ctx, logger.LevelCritical, "payment amount mismatch",
		slog.String("reference", reference),
		slog.Int64("order_id", mismatch.OrderID),
		slog.Int64("expected", mismatch.Expected),
		slog.Int64("reported", mismatch.Reported))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// notify queues the emails after commit. Each job is independent so a slow
// or failing send never delays the other.
func (u *SettlementUseCase) notify(order *model.Order) {
	snapshot := *order
	if !u.dispatcher.Dispatch("customer-receipt", func(ctx context.Context) error {
		return u.notifier.CustomerReceipt(ctx, &snapshot)
	}) {
		u.logger.Error("customer receipt dropped", slog.Int64("order_id", order.ID))
	}

	if !u.notifier.NotifiesAdmin() {
		return
	}
	if !u.dispatcher.Dispatch("admin-notice", func(ctx context.Context) error {
		return u.notifier.AdminNotice(ctx, &snapshot)
	}) {
		u.logger.Error("admin notice dropped", slog.Int64("order_id", order.ID))
	}
}
