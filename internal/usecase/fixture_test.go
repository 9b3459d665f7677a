package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/polkiloo/acesshop/internal/domain/model"
	testhelpers "github.com/polkiloo/acesshop/internal/test"
)

const webhookSecret = "valid-signature"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// shop wires every use case against the in-memory stubs.
type shop struct {
	products   *testhelpers.ProductRepositoryStub
	coupons    *testhelpers.CouponRepositoryStub
	orders     *testhelpers.OrderRepositoryStub
	logs       *testhelpers.WebhookLogRepositoryStub
	gateway    *testhelpers.GatewayStub
	notifier   *testhelpers.NotifierStub
	dispatcher *testhelpers.DispatcherStub

	checkout     *CheckoutUseCase
	settlement   *SettlementUseCase
	verification *VerificationUseCase
	webhooks     *WebhookUseCase
}

func newShop(mock bool) *shop {
	now := time.Now()
	s := &shop{
		products: testhelpers.NewProductRepositoryStub(
			testhelpers.Product(7, "50.00", 10),
			testhelpers.Product(8, "12.50", 3),
		),
		coupons: testhelpers.NewCouponRepositoryStub(
			model.Coupon{ID: 1, Code: "ACES10", DiscountPercent: 10, MaxUses: 100, ExpiresAt: now.Add(24 * time.Hour), IsActive: true},
			model.Coupon{ID: 2, Code: "EXEC20", DiscountPercent: 20, MaxUses: 100, ExpiresAt: now.Add(24 * time.Hour), IsActive: true},
			model.Coupon{ID: 3, Code: "OLD5", DiscountPercent: 5, MaxUses: 100, ExpiresAt: now.Add(-time.Hour), IsActive: true},
		),
		logs:       &testhelpers.WebhookLogRepositoryStub{},
		gateway:    &testhelpers.GatewayStub{},
		notifier:   &testhelpers.NotifierStub{Admin: true},
		dispatcher: &testhelpers.DispatcherStub{},
	}
	s.orders = testhelpers.NewOrderRepositoryStub(s.products, s.coupons)

	logger := discardLogger()
	s.checkout = NewCheckoutUseCase(s.products, s.coupons, s.orders, s.gateway, CheckoutOptions{
		Currency:    "GHS",
		CallbackURL: "http://localhost:3000/shop/success",
		ReuseWindow: time.Hour,
	}, logger)
	s.settlement = NewSettlementUseCase(s.orders, s.notifier, s.dispatcher, logger)
	s.verification = NewVerificationUseCase(s.orders, s.gateway, s.settlement, mock, logger)
	s.webhooks = NewWebhookUseCase(s.logs, s.orders, testhelpers.SignatureVerifierStub{Valid: webhookSecret}, s.settlement, logger)
	return s
}

func cart(email string, coupon string, lines ...model.CartLine) model.CheckoutRequest {
	return model.CheckoutRequest{
		Items:      lines,
		Customer:   model.Customer{FullName: "Kofi Mensah", Email: email, Phone: "0240000000", Address: "Hall 3"},
		CouponCode: coupon,
	}
}

func line(productID int64, quantity int) model.CartLine {
	return model.CartLine{ProductID: productID, Quantity: quantity}
}
