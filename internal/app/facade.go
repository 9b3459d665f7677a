package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/usecase"
)

// ShopFacade exposes the use cases as the single surface the HTTP layer talks to.
type ShopFacade struct {
	auth         *usecase.AuthUseCase
	catalog      *usecase.CatalogUseCase
	checkout     *usecase.CheckoutUseCase
	verification *usecase.VerificationUseCase
	coupons      *usecase.CouponUseCase
	webhooks     *usecase.WebhookUseCase
	fulfillment  *usecase.FulfillmentUseCase
	sweeps       *usecase.SweepUseCase
}

func NewShopFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	checkout *usecase.CheckoutUseCase,
	verification *usecase.VerificationUseCase,
	coupons *usecase.CouponUseCase,
	webhooks *usecase.WebhookUseCase,
	fulfillment *usecase.FulfillmentUseCase,
	sweeps *usecase.SweepUseCase,
) *ShopFacade {
	return &ShopFacade{
		auth:         auth,
		catalog:      catalog,
		checkout:     checkout,
		verification: verification,
		coupons:      coupons,
		webhooks:     webhooks,
		fulfillment:  fulfillment,
		sweeps:       sweeps,
	}
}

func (f *ShopFacade) Login(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *ShopFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *ShopFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.Products(ctx)
}

func (f *ShopFacade) Product(ctx context.Context, slug string) (*model.Product, error) {
	return f.catalog.Product(ctx, slug)
}

func (f *ShopFacade) Health(ctx context.Context) model.HealthReport {
	return f.catalog.Health(ctx)
}

func (f *ShopFacade) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	return f.checkout.Checkout(ctx, req)
}

func (f *ShopFacade) VerifyPayment(ctx context.Context, reference string) (*model.Settlement, error) {
	return f.verification.Verify(ctx, reference)
}

func (f *ShopFacade) ValidateCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponQuote, error) {
	return f.coupons.Validate(ctx, code, cartTotal)
}

func (f *ShopFacade) ReceiveWebhook(ctx context.Context, delivery model.WebhookDelivery) (model.WebhookReply, error) {
	return f.webhooks.Receive(ctx, delivery)
}

func (f *ShopFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.fulfillment.List(ctx, filter)
}

func (f *ShopFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.fulfillment.Get(ctx, id)
}

func (f *ShopFacade) FulfillOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.fulfillment.Fulfill(ctx, id)
}

func (f *ShopFacade) RevertOrder(ctx context.Context, id int64, to model.OrderStatus) (*model.Order, error) {
	return f.fulfillment.Revert(ctx, id, to)
}

func (f *ShopFacade) DeliverOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.fulfillment.Deliver(ctx, id)
}

func (f *ShopFacade) UndeliverOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.fulfillment.Undeliver(ctx, id)
}

func (f *ShopFacade) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.fulfillment.Cancel(ctx, id)
}

func (f *ShopFacade) SweepOrders(ctx context.Context, age time.Duration, dryRun bool) (int64, error) {
	return f.sweeps.Sweep(ctx, age, dryRun)
}
