package paystack

import (
	"testing"
	"time"

	"github.com/polkiloo/acesshop/internal/config"
)

func TestNewGatewayUsesConfig(t *testing.T) {
	cfg := &config.Config{
		Environment:       config.EnvironmentProduction,
		PaystackBaseURL:   "https://api.paystack.co",
		PaystackSecretKey: "sk_live",
		GatewayTimeout:    time.Second,
	}
	gw, err := newGateway(gatewayParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gw.(*HTTPClient); !ok {
		t.Fatalf("expected HTTP client, got %T", gw)
	}

	cfg.PaystackSecretKey = ""
	if _, err := newGateway(gatewayParams{Config: cfg, Logger: testLogger()}); err == nil {
		t.Fatal("expected error without secret key")
	}
}

func TestNewGatewayMockOnlyOutsideProduction(t *testing.T) {
	cfg := &config.Config{Environment: config.EnvironmentDevelopment, PaystackMock: true}
	gw, err := newGateway(gatewayParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gw.(*MockGateway); !ok {
		t.Fatalf("expected mock gateway, got %T", gw)
	}

	cfg.Environment = config.EnvironmentProduction
	cfg.PaystackBaseURL = "https://api.paystack.co"
	cfg.PaystackSecretKey = "sk_live"
	gw, err = newGateway(gatewayParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gw.(*HTTPClient); !ok {
		t.Fatalf("expected real client in production, got %T", gw)
	}
}
