package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// CatalogFacade exposes the product catalogue and health probe.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, slug string) (*model.Product, error)
	Health(ctx context.Context) model.HealthReport
}

// CheckoutFacade creates orders and confirms their payment.
type CheckoutFacade interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error)
	VerifyPayment(ctx context.Context, reference string) (*model.Settlement, error)
}

// CouponFacade quotes coupon discounts.
type CouponFacade interface {
	ValidateCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponQuote, error)
}

// WebhookFacade ingests gateway deliveries.
type WebhookFacade interface {
	ReceiveWebhook(ctx context.Context, delivery model.WebhookDelivery) (model.WebhookReply, error)
}

// StaffFacade describes staff authentication capabilities required by handlers.
type StaffFacade interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderAdminFacade encapsulates staff order operations.
type OrderAdminFacade interface {
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	FulfillOrder(ctx context.Context, id int64) (*model.Order, error)
	RevertOrder(ctx context.Context, id int64, to model.OrderStatus) (*model.Order, error)
	DeliverOrder(ctx context.Context, id int64) (*model.Order, error)
	UndeliverOrder(ctx context.Context, id int64) (*model.Order, error)
	CancelOrder(ctx context.Context, id int64) (*model.Order, error)
	SweepOrders(ctx context.Context, age time.Duration, dryRun bool) (int64, error)
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	CatalogFacade
	CheckoutFacade
	CouponFacade
	WebhookFacade
	StaffFacade
	OrderAdminFacade
}
