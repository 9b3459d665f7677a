package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

// VerificationUseCase handles the browser callback after a hosted payment.
type VerificationUseCase struct {
	orders     repository.OrderRepository
	gateway    PaymentGateway
	settlement *SettlementUseCase
	mock       bool
	logger     *slog.Logger
}

// NewVerificationUseCase constructs VerificationUseCase. Mock references are
// honoured only when mock is true.
func NewVerificationUseCase(orders repository.OrderRepository, gateway PaymentGateway, settlement *SettlementUseCase, mock bool, logger *slog.Logger) *VerificationUseCase {
	return &VerificationUseCase{orders: orders, gateway: gateway, settlement: settlement, mock: mock, logger: logger}
}

// Verify asks the gateway about reference and settles on success.
func (u *VerificationUseCase) Verify(ctx context.Context, reference string) (*model.Settlement, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domainErrors.ErrReferenceRequired
	}

	if model.IsMockReference(reference) {
		return u.verifyMock(ctx, reference)
	}

	verification, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !verification.Successful() {
		u.logger.Info("payment not successful", slog.String("reference", reference), slog.String("status", verification.Status))
		return nil, fmt.Errorf("%w: gateway status %q", domainErrors.ErrPaymentNotSuccessful, verification.Status)
	}

	order, err := u.orders.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !order.Settled() {
		if err := u.settlement.CheckAmount(ctx, order, verification.AmountMinor); err != nil {
			return nil, err
		}
	}

	return u.settlement.Settle(ctx, reference, verification.AmountMinor)
}

func (u *VerificationUseCase) verifyMock(ctx context.Context, reference string) (*model.Settlement, error) {
	if !u.mock {
		u.logger.Warn("mock reference rejected", slog.String("reference", reference))
		return nil, fmt.Errorf("%w: mock payments are disabled", domainErrors.ErrPaymentNotSuccessful)
	}

	order, err := u.orders.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return u.settlement.Settle(ctx, reference, order.AmountMinor())
}
