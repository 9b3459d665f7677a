package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
	"github.com/polkiloo/acesshop/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/acesshop/internal/test"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, pattern, target string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, pattern, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestCurrentStaffID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentStaffID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.StaffIDContextKey, int64(42))
	if got := CurrentStaffID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	email := testhelpers.RandomEmail()
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	handler := NewAuthHandler(testhelpers.ShopFacadeStub{LoginFn: func(_ context.Context, gotEmail, gotPassword string) (string, error) {
		if gotEmail != email || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotEmail, gotPassword)
		}
		return "jwt-token", nil
	}})

	resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var login dto.LoginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if login.Token != "jwt-token" {
		t.Fatalf("expected token in body, got %q", login.Token)
	}
	if resp.Header().Get("Authorization") != "Bearer jwt-token" {
		t.Fatalf("expected auth header to be set")
	}
}

func TestAuthHandlerLoginErrors(t *testing.T) {
	cases := []struct {
		name string
		body []byte
		err  error
		want int
	}{
		{name: "malformed body", body: []byte("{"), want: http.StatusBadRequest},
		{name: "bad credentials", body: []byte(`{"email":"a@b.c","password":"x"}`), err: domainErrors.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "storage failure", body: []byte(`{"email":"a@b.c","password":"x"}`), err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAuthHandler(testhelpers.ShopFacadeStub{LoginFn: func(context.Context, string, string) (string, error) {
				return "", tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, tc.body, jsonHeaders)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestCatalogHandlerHealth(t *testing.T) {
	handler := NewCatalogHandler(testhelpers.ShopFacadeStub{HealthFn: func(context.Context) model.HealthReport {
		return model.HealthReport{Healthy: true, ProductCount: 4, OrderCount: 9}
	}})
	resp := performRequest(t, http.MethodGet, "/health", "/health", handler.Health, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var health dto.HealthResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &health)
	if health.Status != "healthy" || health.ProductCount != 4 || health.OrderCount != 9 {
		t.Fatalf("unexpected health body %+v", health)
	}

	handler = NewCatalogHandler(testhelpers.ShopFacadeStub{HealthFn: func(context.Context) model.HealthReport {
		return model.HealthReport{Error: "connection refused"}
	}})
	resp = performRequest(t, http.MethodGet, "/health", "/health", handler.Health, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &health)
	if health.Status != "unhealthy" || health.Error != "connection refused" {
		t.Fatalf("unexpected health body %+v", health)
	}
}

func TestCatalogHandlerProducts(t *testing.T) {
	handler := NewCatalogHandler(testhelpers.ShopFacadeStub{
		ProductsFn: func(context.Context) ([]model.Product, error) {
			return []model.Product{testhelpers.Product(7, "50", 3)}, nil
		},
		ProductFn: func(_ context.Context, slug string) (*model.Product, error) {
			if slug != "product-7" {
				return nil, domainErrors.ErrNotFound
			}
			p := testhelpers.Product(7, "50", 3)
			return &p, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/products", "/products", handler.List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var products []dto.ProductResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &products)
	if len(products) != 1 || products[0].Price != "50.00" {
		t.Fatalf("unexpected products %+v", products)
	}

	resp = performRequest(t, http.MethodGet, "/products/:slug", "/products/product-7", handler.Get, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/products/:slug", "/products/nope", handler.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	failing := NewCatalogHandler(testhelpers.ShopFacadeStub{ProductsFn: func(context.Context) ([]model.Product, error) {
		return nil, errors.New("boom")
	}})
	resp = performRequest(t, http.MethodGet, "/products", "/products", failing.List, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestCouponHandlerValidate(t *testing.T) {
	var gotTotal decimal.Decimal
	handler := NewCouponHandler(testhelpers.ShopFacadeStub{ValidateCouponFn: func(_ context.Context, code string, total decimal.Decimal) (*model.CouponQuote, error) {
		gotTotal = total
		switch code {
		case "":
			return nil, domainErrors.ErrCouponCodeRequired
		case "ACES10":
			return &model.CouponQuote{
				Valid:           true,
				Code:            "ACES10",
				DiscountPercent: 10,
				DiscountAmount:  decimal.RequireFromString("5"),
				NewTotal:        decimal.RequireFromString("45"),
				RemainingUses:   3,
				Message:         "10% discount applied!",
			}, nil
		case "OLD5":
			return nil, &domainErrors.CouponRejectedError{Reason: string(model.CouponExpired), Message: model.CouponExpired.Message()}
		case "FAIL":
			return nil, errors.New("db down")
		}
		return nil, &domainErrors.CouponRejectedError{Reason: string(model.CouponNotFound), Message: model.CouponNotFound.Message()}
	}})

	resp := performRequest(t, http.MethodPost, "/validate", "/validate", handler.Validate, []byte(`{"code":"ACES10","cart_total":"50.00"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !gotTotal.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected string cart total to parse, got %s", gotTotal)
	}
	var quote dto.CouponResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &quote)
	if !quote.Valid || quote.DiscountAmount != "5.00" || quote.NewTotal != "45.00" || quote.RemainingUses == nil || *quote.RemainingUses != 3 {
		t.Fatalf("unexpected quote %+v", quote)
	}

	resp = performRequest(t, http.MethodPost, "/validate", "/validate", handler.Validate, []byte(`{"code":"ACES10","cart_total":"abc"}`), jsonHeaders)
	if resp.Code != http.StatusOK || !gotTotal.IsZero() {
		t.Fatalf("expected unparsable total to become zero, got %d %s", resp.Code, gotTotal)
	}

	cases := []struct {
		body string
		want int
	}{
		{body: `{"code":"","cart_total":10}`, want: http.StatusBadRequest},
		{body: `{"code":"NOPE","cart_total":10}`, want: http.StatusNotFound},
		{body: `{"code":"OLD5","cart_total":10}`, want: http.StatusBadRequest},
		{body: `{"code":"FAIL","cart_total":10}`, want: http.StatusInternalServerError},
		{body: `{`, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := performRequest(t, http.MethodPost, "/validate", "/validate", handler.Validate, []byte(tc.body), jsonHeaders)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, resp.Code)
		}
		var rejected dto.CouponResponse
		_ = json.Unmarshal(resp.Body.Bytes(), &rejected)
		if rejected.Valid || rejected.Message == "" {
			t.Fatalf("%s: expected invalid response with message, got %+v", tc.body, rejected)
		}
	}
}
