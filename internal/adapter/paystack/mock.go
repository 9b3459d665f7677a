package paystack

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
)

const mockAccessCode = "mock_access_code"

// MockGateway stands in for Paystack in development. It remembers the amount
// of every session it opened and reports those charges as successful.
type MockGateway struct {
	logger *slog.Logger
	nonce  func() string

	mu      sync.Mutex
	amounts map[string]int64
}

// NewMockGateway creates a gateway that never leaves the process.
func NewMockGateway(logger *slog.Logger) *MockGateway {
	return &MockGateway{logger: logger, nonce: uuid.NewString, amounts: make(map[string]int64)}
}

func (g *MockGateway) Initialize(_ context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	reference := model.MockReference(req.OrderID, g.nonce())

	callback, err := url.Parse(req.CallbackURL)
	if err != nil {
		return nil, fmt.Errorf("parse callback url: %w", err)
	}
	q := callback.Query()
	q.Set("reference", reference)
	callback.RawQuery = q.Encode()

	g.mu.Lock()
	g.amounts[reference] = req.AmountMinor
	g.mu.Unlock()

	g.logger.Warn("mock payment session created",
		slog.Int64("order_id", req.OrderID), slog.String("reference", reference))

	return &model.PaymentSession{
		AuthorizationURL: callback.String(),
		AccessCode:       mockAccessCode,
		Reference:        reference,
		Mock:             true,
	}, nil
}

// Verify reports success with the amount the session was opened for.
// References from before a restart are unknown and rejected.
func (g *MockGateway) Verify(_ context.Context, reference string) (*model.PaymentVerification, error) {
	g.mu.Lock()
	amount, ok := g.amounts[reference]
	g.mu.Unlock()
	if !ok {
		return nil, &domainErrors.GatewayRejectedError{Message: "unknown mock reference " + reference}
	}
	return &model.PaymentVerification{Reference: reference, Status: "success", AmountMinor: amount}, nil
}
