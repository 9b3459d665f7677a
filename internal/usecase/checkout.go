package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

// CheckoutOptions carries the deployment settings checkout depends on.
type CheckoutOptions struct {
	Currency    string
	CallbackURL string
	ReuseWindow time.Duration
}

// CheckoutUseCase prices carts, persists orders and opens gateway sessions.
type CheckoutUseCase struct {
	products repository.ProductRepository
	coupons  repository.CouponRepository
	orders   repository.OrderRepository
	gateway  PaymentGateway
	opts     CheckoutOptions
	logger   *slog.Logger
	now      func() time.Time
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	products repository.ProductRepository,
	coupons repository.CouponRepository,
	orders repository.OrderRepository,
	gateway PaymentGateway,
	opts CheckoutOptions,
	logger *slog.Logger,
) *CheckoutUseCase {
	if opts.ReuseWindow <= 0 {
		opts.ReuseWindow = time.Hour
	}
	return &CheckoutUseCase{
		products: products,
		coupons:  coupons,
		orders:   orders,
		gateway:  gateway,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Checkout creates or reuses a PENDING order and initializes its payment.
// Prices always come from the catalog.
func (u *CheckoutUseCase) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	customer, err := validateCheckout(req)
	if err != nil {
		return nil, err
	}

	items, err := u.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	draft := model.NewOrderDraft(customer, items)
	coupon, err := u.lookupCoupon(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}
	if coupon != nil {
		draft.ApplyCoupon(coupon)
	}

	now := u.now()
	order, reused, err := u.orders.CreateOrReuse(ctx, draft, now.Add(-u.opts.ReuseWindow))
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	session, err := u.gateway.Initialize(ctx, model.PaymentRequest{
		OrderID:     order.ID,
		Email:       order.Email,
		AmountMinor: order.AmountMinor(),
		Currency:    u.opts.Currency,
		CallbackURL: u.opts.CallbackURL,
	})
	if err != nil {
		u.logger.Error("payment initialization failed",
			slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := u.orders.AttachPaymentReference(ctx, order.ID, session.Reference); err != nil {
		return nil, fmt.Errorf("attach payment reference: %w", err)
	}

	u.logger.Info("checkout initialized",
		slog.Int64("order_id", order.ID),
		slog.String("reference", session.Reference),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.Bool("reused", reused))

	return &model.CheckoutResult{
		OrderID:          order.ID,
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
		Reference:        session.Reference,
		Reused:           reused,
		Mock:             session.Mock,
	}, nil
}

func validateCheckout(req model.CheckoutRequest) (model.Customer, error) {
	if len(req.Items) == 0 {
		return model.Customer{}, domainErrors.ErrEmptyCart
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return model.Customer{}, domainErrors.ErrInvalidQuantity
		}
	}

	customer := model.Customer{
		FullName: strings.TrimSpace(req.Customer.FullName),
		Email:    strings.TrimSpace(req.Customer.Email),
		Phone:    strings.TrimSpace(req.Customer.Phone),
		Address:  strings.TrimSpace(req.Customer.Address),
	}
	if customer.Email == "" {
		return model.Customer{}, domainErrors.ErrInvalidCustomer
	}
	return customer, nil
}

// priceLines resolves every product in one lookup and snapshots its price.
func (u *CheckoutUseCase) priceLines(ctx context.Context, lines []model.CartLine) ([]model.OrderItem, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	products, err := u.products.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &domainErrors.ProductsUnavailableError{IDs: missing}
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		product := byID[line.ProductID]
		items = append(items, model.OrderItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Price:         product.Price,
			Quantity:      line.Quantity,
			SelectedColor: line.Color,
			SelectedSize:  line.Size,
		})
	}
	return items, nil
}

// lookupCoupon returns nil for a blank, unknown or unusable code.
func (u *CheckoutUseCase) lookupCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	code = model.NormalizeCouponCode(code)
	if code == "" {
		return nil, nil
	}

	coupon, err := u.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Info("checkout coupon ignored", slog.String("code", code), slog.String("reason", string(model.CouponNotFound)))
			return nil, nil
		}
		return nil, fmt.Errorf("load coupon: %w", err)
	}
	if reason := coupon.Rejection(u.now()); reason != model.CouponAccepted {
		u.logger.Info("checkout coupon ignored", slog.String("code", code), slog.String("reason", string(reason)))
		return nil, nil
	}
	return coupon, nil
}
