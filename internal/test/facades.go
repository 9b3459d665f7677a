package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
)

// ShopFacadeStub implements the HTTP facade with per-method overrides.
// Unset overrides return zero values, or ErrNotFound for single-order lookups.
type ShopFacadeStub struct {
	ProductsFn       func(context.Context) ([]model.Product, error)
	ProductFn        func(context.Context, string) (*model.Product, error)
	HealthFn         func(context.Context) model.HealthReport
	CheckoutFn       func(context.Context, model.CheckoutRequest) (*model.CheckoutResult, error)
	VerifyPaymentFn  func(context.Context, string) (*model.Settlement, error)
	ValidateCouponFn func(context.Context, string, decimal.Decimal) (*model.CouponQuote, error)
	ReceiveWebhookFn func(context.Context, model.WebhookDelivery) (model.WebhookReply, error)
	LoginFn          func(context.Context, string, string) (string, error)
	ParseTokenFn     func(string) (int64, error)
	OrdersFn         func(context.Context, model.OrderFilter) ([]model.Order, error)
	OrderFn          func(context.Context, int64) (*model.Order, error)
	ActionFn         func(ctx context.Context, action string, id int64) (*model.Order, error)
	RevertFn         func(context.Context, int64, model.OrderStatus) (*model.Order, error)
	SweepFn          func(context.Context, time.Duration, bool) (int64, error)
}

func (s ShopFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return nil, nil
}

func (s ShopFacadeStub) Product(ctx context.Context, slug string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, slug)
	}
	return nil, domainErrors.ErrNotFound
}

func (s ShopFacadeStub) Health(ctx context.Context) model.HealthReport {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return model.HealthReport{Healthy: true}
}

func (s ShopFacadeStub) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, req)
	}
	return &model.CheckoutResult{}, nil
}

func (s ShopFacadeStub) VerifyPayment(ctx context.Context, reference string) (*model.Settlement, error) {
	if s.VerifyPaymentFn != nil {
		return s.VerifyPaymentFn(ctx, reference)
	}
	return nil, domainErrors.ErrNotFound
}

func (s ShopFacadeStub) ValidateCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponQuote, error) {
	if s.ValidateCouponFn != nil {
		return s.ValidateCouponFn(ctx, code, cartTotal)
	}
	return nil, &domainErrors.CouponRejectedError{Reason: string(model.CouponNotFound), Message: model.CouponNotFound.Message()}
}

func (s ShopFacadeStub) ReceiveWebhook(ctx context.Context, delivery model.WebhookDelivery) (model.WebhookReply, error) {
	if s.ReceiveWebhookFn != nil {
		return s.ReceiveWebhookFn(ctx, delivery)
	}
	return model.WebhookReplyProcessed, nil
}

func (s ShopFacadeStub) Login(ctx context.Context, email, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return "token", nil
}

func (s ShopFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return 1, nil
}

func (s ShopFacadeStub) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return nil, nil
}

func (s ShopFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s ShopFacadeStub) FulfillOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.action(ctx, "fulfill", id)
}

func (s ShopFacadeStub) RevertOrder(ctx context.Context, id int64, to model.OrderStatus) (*model.Order, error) {
	if s.RevertFn != nil {
		return s.RevertFn(ctx, id, to)
	}
	return nil, domainErrors.ErrNotFound
}

func (s ShopFacadeStub) DeliverOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.action(ctx, "deliver", id)
}

func (s ShopFacadeStub) UndeliverOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.action(ctx, "undeliver", id)
}

func (s ShopFacadeStub) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.action(ctx, "cancel", id)
}

func (s ShopFacadeStub) SweepOrders(ctx context.Context, age time.Duration, dryRun bool) (int64, error) {
	if s.SweepFn != nil {
		return s.SweepFn(ctx, age, dryRun)
	}
	return 0, nil
}

func (s ShopFacadeStub) action(ctx context.Context, name string, id int64) (*model.Order, error) {
	if s.ActionFn != nil {
		return s.ActionFn(ctx, name, id)
	}
	return nil, domainErrors.ErrNotFound
}

// Order builds a minimal persisted order for handler tests.
func Order(id int64, status model.OrderStatus, total string) *model.Order {
	return &model.Order{
		ID:          id,
		Customer:    model.Customer{FullName: "Ada Obi", Email: "ada@example.com"},
		TotalAmount: decimal.RequireFromString(total),
		Status:      status,
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
