package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/config"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCatalogUseCase,
	NewCouponUseCase,
	NewFulfillmentUseCase,
	NewSweepUseCase,
	NewSettlementUseCase,
	NewWebhookUseCase,
	newCheckoutUseCase,
	newVerificationUseCase,
)

type checkoutParams struct {
	fx.In

	Config   *config.Config
	Products repository.ProductRepository
	Coupons  repository.CouponRepository
	Orders   repository.OrderRepository
	Gateway  PaymentGateway
	Logger   *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Products, p.Coupons, p.Orders, p.Gateway, CheckoutOptions{
		Currency:    p.Config.Currency,
		CallbackURL: p.Config.CallbackURL(),
		ReuseWindow: p.Config.OrderReuseWindow,
	}, p.Logger)
}

type verificationParams struct {
	fx.In

	Config     *config.Config
	Orders     repository.OrderRepository
	Gateway    PaymentGateway
	Settlement *SettlementUseCase
	Logger     *slog.Logger
}

func newVerificationUseCase(p verificationParams) *VerificationUseCase {
	return NewVerificationUseCase(p.Orders, p.Gateway, p.Settlement, p.Config.MockPayments(), p.Logger)
}
