package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/sony/gobreaker/v2"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
)

const (
	maxResponseBytes      = 1 << 20
	breakerFailureTrigger = 5
	breakerOpenTimeout    = 30 * time.Second
)

// Gateway exposes the payment provider operations used by checkout and verification.
type Gateway interface {
	Initialize(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error)
	Verify(ctx context.Context, reference string) (*model.PaymentVerification, error)
}

// HTTPClient implements Gateway against the Paystack REST API.
type HTTPClient struct {
	baseURL    *url.URL
	secretKey  string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// envelope mirrors the common Paystack response wrapper.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	CallbackURL string         `json:"callback_url"`
	Metadata    map[string]any `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

// NewHTTPClient creates a gateway client guarded by a circuit breaker.
func NewHTTPClient(baseURL, secretKey string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse paystack url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("paystack url must be absolute")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("paystack secret key must be provided")
	}

	c := &HTTPClient{
		baseURL:    parsed,
		secretKey:  secretKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "paystack",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureTrigger
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment gateway circuit changed state",
				slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
	return c, nil
}

// Initialize opens a hosted checkout for the order amount.
func (c *HTTPClient) Initialize(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	body := initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
		Metadata:    map[string]any{"order_id": req.OrderID},
	}

	raw, err := c.call(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	data, err := decode[initializeData](raw)
	if err != nil {
		return nil, err
	}
	return &model.PaymentSession{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify asks the gateway what it recorded for reference.
func (c *HTTPClient) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	if reference == "" {
		return nil, domainErrors.ErrReferenceRequired
	}

	raw, err := c.call(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	data, err := decode[verifyData](raw)
	if err != nil {
		return nil, err
	}
	if data.Reference == "" {
		data.Reference = reference
	}
	return &model.PaymentVerification{
		Reference:   data.Reference,
		Status:      data.Status,
		AmountMinor: data.Amount,
	}, nil
}

func (c *HTTPClient) call(ctx context.Context, method, endpointPath string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, endpointPath, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	return raw, err
}

// roundTrip returns an error only for failures that should count against the
// breaker. Client errors come back as a body for decode to reject.
func (c *HTTPClient) roundTrip(ctx context.Context, method, endpointPath string, body any) ([]byte, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("payment gateway request failed", slog.String("path", endpointPath), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Error("payment gateway returned server error",
			slog.String("path", endpointPath), slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("%w: status %d", domainErrors.ErrGatewayUnavailable, resp.StatusCode)
	}
	return raw, nil
}

func decode[T any](raw []byte) (T, error) {
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: decode response: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	if !env.Status {
		var zero T
		msg := env.Message
		if msg == "" {
			msg = "request was not accepted"
		}
		return zero, &domainErrors.GatewayRejectedError{Message: msg}
	}
	return env.Data, nil
}
