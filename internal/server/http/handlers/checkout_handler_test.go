package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
	testhelpers "github.com/polkiloo/acesshop/internal/test"
)

func TestCheckoutHandlerCreate(t *testing.T) {
	var got model.CheckoutRequest
	handler := NewCheckoutHandler(testhelpers.ShopFacadeStub{CheckoutFn: func(_ context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
		got = req
		return &model.CheckoutResult{
			OrderID:          12,
			AuthorizationURL: "https://checkout.paystack.com/abc",
			AccessCode:       "abc",
			Reference:        "ref-12",
			Reused:           true,
		}, nil
	}})

	body := []byte(`{
		"items": [{"id": 7, "quantity": 2, "color": "Black", "size": " "}, {"product_id": 8, "quantity": 1}],
		"user_details": {"full_name": "Ada Obi", "email": "ada@example.com", "phone": "0800", "address": "Hall 3"},
		"coupon_code": "aces10"
	}`)
	resp := performRequest(t, http.MethodPost, "/orders/create", "/orders/create", handler.Create, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var created dto.CreateOrderResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	if created.OrderID != 12 || created.Reference != "ref-12" || created.AuthorizationURL == "" {
		t.Fatalf("unexpected response %+v", created)
	}
	if created.Message == "" {
		t.Fatalf("expected reuse message")
	}

	if len(got.Items) != 2 || got.Items[0].ProductID != 7 || got.Items[1].ProductID != 8 {
		t.Fatalf("unexpected cart lines %+v", got.Items)
	}
	if got.Items[0].Color == nil || *got.Items[0].Color != "Black" || got.Items[0].Size != nil {
		t.Fatalf("expected color kept and blank size dropped, got %+v", got.Items[0])
	}
	if got.Customer.Email != "ada@example.com" || got.CouponCode != "aces10" {
		t.Fatalf("unexpected customer mapping %+v", got)
	}
}

func TestCheckoutHandlerTopLevelCustomer(t *testing.T) {
	var got model.CheckoutRequest
	handler := NewCheckoutHandler(testhelpers.ShopFacadeStub{CheckoutFn: func(_ context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
		got = req
		return &model.CheckoutResult{OrderID: 1, Mock: true}, nil
	}})
	body := []byte(`{"items":[{"id":7,"quantity":1}],"full_name":"Ada","email":"top@example.com"}`)
	resp := performRequest(t, http.MethodPost, "/orders/create", "/orders/create", handler.Create, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.Customer.Email != "top@example.com" || got.Customer.FullName != "Ada" {
		t.Fatalf("expected top-level customer fields, got %+v", got.Customer)
	}
}

func TestCheckoutHandlerCreateErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		want    int
		message string
	}{
		{name: "empty cart", err: domainErrors.ErrEmptyCart, want: http.StatusBadRequest, message: "Cart is empty"},
		{name: "unavailable", err: &domainErrors.ProductsUnavailableError{IDs: []int64{3, 9}}, want: http.StatusBadRequest, message: "Products with IDs [3 9] not found or inactive"},
		{name: "quantity", err: domainErrors.ErrInvalidQuantity, want: http.StatusBadRequest},
		{name: "customer", err: domainErrors.ErrInvalidCustomer, want: http.StatusBadRequest},
		{name: "gateway rejected", err: &domainErrors.GatewayRejectedError{Message: "Invalid key"}, want: http.StatusBadRequest, message: "Payment initialization failed"},
		{name: "gateway down", err: fmt.Errorf("init: %w", domainErrors.ErrGatewayUnavailable), want: http.StatusServiceUnavailable},
		{name: "storage", err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCheckoutHandler(testhelpers.ShopFacadeStub{CheckoutFn: func(context.Context, model.CheckoutRequest) (*model.CheckoutResult, error) {
				return nil, tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/orders/create", "/orders/create", handler.Create, []byte(`{"items":[]}`), jsonHeaders)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
			if tc.message != "" {
				if got := decodeError(t, resp).Error; got != tc.message {
					t.Fatalf("expected message %q, got %q", tc.message, got)
				}
			}
		})
	}

	handler := NewCheckoutHandler(testhelpers.ShopFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/orders/create", "/orders/create", handler.Create, []byte(`not json`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestCheckoutHandlerVerify(t *testing.T) {
	code := "c0de"
	var gotRef string
	handler := NewCheckoutHandler(testhelpers.ShopFacadeStub{VerifyPaymentFn: func(_ context.Context, ref string) (*model.Settlement, error) {
		gotRef = ref
		order := testhelpers.Order(5, model.OrderStatusPaid, "45")
		order.VerificationCode = &code
		return &model.Settlement{Order: order, AlreadyPaid: ref == "again"}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/verify-payment", "/verify-payment?reference=ref-5", handler.Verify, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotRef != "ref-5" {
		t.Fatalf("expected reference to be forwarded, got %q", gotRef)
	}
	var verified dto.VerifyPaymentResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &verified)
	if verified.Message != "Payment verified successfully" {
		t.Fatalf("unexpected message %q", verified.Message)
	}
	if verified.Order.Status != "PAID" || verified.Order.TotalAmount != "45.00" || verified.Order.VerificationCode == nil {
		t.Fatalf("unexpected order projection %+v", verified.Order)
	}

	resp = performRequest(t, http.MethodGet, "/verify-payment", "/verify-payment?reference=again", handler.Verify, nil, nil)
	_ = json.Unmarshal(resp.Body.Bytes(), &verified)
	if resp.Code != http.StatusOK || verified.Message != "Order already paid" {
		t.Fatalf("expected idempotent success, got %d %q", resp.Code, verified.Message)
	}
}

func TestCheckoutHandlerVerifyErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "no reference", err: domainErrors.ErrReferenceRequired, want: http.StatusBadRequest},
		{name: "not successful", err: fmt.Errorf("status abandoned: %w", domainErrors.ErrPaymentNotSuccessful), want: http.StatusBadRequest},
		{name: "gateway rejected", err: &domainErrors.GatewayRejectedError{Message: "Transaction reference not found"}, want: http.StatusBadRequest},
		{name: "order missing", err: domainErrors.ErrNotFound, want: http.StatusNotFound},
		{name: "amount mismatch", err: &domainErrors.AmountMismatchError{OrderID: 1, Expected: 100, Reported: 1}, want: http.StatusBadRequest},
		{name: "gateway down", err: domainErrors.ErrGatewayUnavailable, want: http.StatusServiceUnavailable},
		{name: "failed order", err: domainErrors.ErrInvalidTransition, want: http.StatusConflict},
		{name: "storage", err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCheckoutHandler(testhelpers.ShopFacadeStub{VerifyPaymentFn: func(context.Context, string) (*model.Settlement, error) {
				return nil, tc.err
			}})
			resp := performRequest(t, http.MethodGet, "/verify-payment", "/verify-payment?reference=x", handler.Verify, nil, nil)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}
