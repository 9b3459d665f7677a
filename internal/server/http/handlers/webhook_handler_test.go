package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
	testhelpers "github.com/polkiloo/acesshop/internal/test"
)

func TestWebhookHandlerPassesRawDelivery(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"reference":"` + testhelpers.RandomReference() + `","amount":5000}}`)
	var got model.WebhookDelivery
	handler := NewWebhookHandler(testhelpers.ShopFacadeStub{ReceiveWebhookFn: func(_ context.Context, d model.WebhookDelivery) (model.WebhookReply, error) {
		got = d
		return model.WebhookReplyProcessed, nil
	}})

	resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handler.Paystack, payload, map[string]string{
		"Content-Type":         "application/json",
		"X-Paystack-Signature": "abc123",
		"X-Forwarded-For":      "52.31.139.75, 10.0.0.1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var reply dto.WebhookResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &reply)
	if reply.Status != "processed" {
		t.Fatalf("expected processed status, got %q", reply.Status)
	}

	if string(got.Body) != string(payload) {
		t.Fatalf("expected raw body to be forwarded, got %q", got.Body)
	}
	if got.Signature != "abc123" || got.Provider != "paystack" {
		t.Fatalf("unexpected delivery %+v", got)
	}
	if got.IPAddress != "52.31.139.75" {
		t.Fatalf("expected first forwarded hop, got %q", got.IPAddress)
	}
	if got.Headers["Content-Type"] != "application/json" {
		t.Fatalf("expected headers to be captured, got %+v", got.Headers)
	}
}

func TestWebhookHandlerErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing signature", err: domainErrors.ErrMissingSignature, want: http.StatusBadRequest},
		{name: "bad signature", err: domainErrors.ErrInvalidSignature, want: http.StatusUnauthorized},
		{name: "bad json", err: domainErrors.ErrInvalidPayload, want: http.StatusBadRequest},
		{name: "no reference", err: domainErrors.ErrReferenceRequired, want: http.StatusBadRequest},
		{name: "log failure", err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewWebhookHandler(testhelpers.ShopFacadeStub{ReceiveWebhookFn: func(context.Context, model.WebhookDelivery) (model.WebhookReply, error) {
				return "", tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handler.Paystack, []byte(`{}`), nil)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestWebhookHandlerNonSuccessRepliesAreOK(t *testing.T) {
	for _, reply := range []model.WebhookReply{
		model.WebhookReplyAlreadyProcessed,
		model.WebhookReplyOrderNotFound,
		model.WebhookReplyAmountMismatch,
		model.WebhookReplyEventIgnored,
	} {
		handler := NewWebhookHandler(testhelpers.ShopFacadeStub{ReceiveWebhookFn: func(context.Context, model.WebhookDelivery) (model.WebhookReply, error) {
			return reply, nil
		}})
		resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handler.Paystack, []byte(`{}`), nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", reply, resp.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	if got := clientIP(req); got != "10.1.2.3" {
		t.Fatalf("expected socket host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " 1.1.1.1 ")
	if got := clientIP(req); got != "1.1.1.1" {
		t.Fatalf("expected forwarded address, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", ",")
	if got := clientIP(req); got != "10.1.2.3" {
		t.Fatalf("expected fallback for empty hop, got %q", got)
	}
}
