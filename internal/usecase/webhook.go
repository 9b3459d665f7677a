package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
	"github.com/polkiloo/acesshop/internal/logger"
	pkgAuth "github.com/polkiloo/acesshop/internal/pkg/auth"
)

const eventChargeSuccess = "charge.success"

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
	} `json:"data"`
}

// WebhookUseCase reconciles gateway notifications with orders. Every delivery
// is logged before validation and the log row records the final decision.
type WebhookUseCase struct {
	logs       repository.WebhookLogRepository
	orders     repository.OrderRepository
	verifier   pkgAuth.SignatureVerifier
	settlement *SettlementUseCase
	logger     *slog.Logger
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(
	logs repository.WebhookLogRepository,
	orders repository.OrderRepository,
	verifier pkgAuth.SignatureVerifier,
	settlement *SettlementUseCase,
	logger *slog.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{logs: logs, orders: orders, verifier: verifier, settlement: settlement, logger: logger}
}

// Receive processes one delivery. A returned error means the request itself
// was rejected; every accepted delivery yields a reply instead.
func (u *WebhookUseCase) Receive(ctx context.Context, delivery model.WebhookDelivery) (model.WebhookReply, error) {
	entry := &model.WebhookLog{
		Provider:   delivery.Provider,
		Payload:    string(delivery.Body),
		RawPayload: delivery.Body,
		Headers:    delivery.Headers,
		IPAddress:  delivery.IPAddress,
	}
	logID, err := u.logs.Append(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("append webhook log: %w", err)
	}

	if err := u.verifier.Verify(delivery.Body, delivery.Signature); err != nil {
		u.logger.Warn("webhook signature rejected", slog.Int64("log_id", logID), slog.String("ip", delivery.IPAddress), slog.String("error", err.Error()))
		u.resolve(ctx, logID, model.WebhookResolution{Status: model.WebhookStatusIgnored, Note: err.Error()})
		return "", err
	}

	var event webhookEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		u.resolve(ctx, logID, model.WebhookResolution{Status: model.WebhookStatusFailed, Note: "Invalid JSON payload"})
		return "", fmt.Errorf("%w: %v", domainErrors.ErrInvalidPayload, err)
	}

	reference := strings.TrimSpace(event.Data.Reference)
	resolution := model.WebhookResolution{EventType: event.Event, Reference: reference}

	if event.Event != eventChargeSuccess {
		resolution.Status = model.WebhookStatusIgnored
		resolution.Note = fmt.Sprintf("Event type %s not handled", event.Event)
		u.resolve(ctx, logID, resolution)
		return model.WebhookReplyEventIgnored, nil
	}

	if reference == "" {
		resolution.Status = model.WebhookStatusIgnored
		resolution.Note = "Missing reference"
		u.resolve(ctx, logID, resolution)
		return "", domainErrors.ErrReferenceRequired
	}

	reply, resolution := u.chargeSucceeded(ctx, logID, reference, event.Data.Amount, resolution)
	u.resolve(ctx, logID, resolution)
	return reply, nil
}

func (u *WebhookUseCase) chargeSucceeded(ctx context.Context, logID int64, reference string, amount int64, resolution model.WebhookResolution) (model.WebhookReply, model.WebhookResolution) {
	ignored := func(reply model.WebhookReply, note string) (model.WebhookReply, model.WebhookResolution) {
		resolution.Status = model.WebhookStatusIgnored
		resolution.Note = note
		return reply, resolution
	}
	failed := func(reply model.WebhookReply, note string) (model.WebhookReply, model.WebhookResolution) {
		resolution.Status = model.WebhookStatusFailed
		resolution.Note = note
		return reply, resolution
	}

	processed, err := u.logs.HasProcessed(ctx, reference, logID)
	if err != nil {
		u.logger.Error("webhook idempotency check failed", slog.String("reference", reference), slog.String("error", err.Error()))
		return failed(model.WebhookReplyErrorLogged, err.Error())
	}
	if processed {
		return ignored(model.WebhookReplyAlreadyProcessed, "Already processed (idempotent skip)")
	}

	order, err := u.orders.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return ignored(model.WebhookReplyOrderNotFound, "Order not found")
		}
		u.logger.Error("webhook order lookup failed", slog.String("reference", reference), slog.String("error", err.Error()))
		return failed(model.WebhookReplyErrorLogged, err.Error())
	}
	if order.Settled() {
		return ignored(model.WebhookReplyAlreadyProcessed, "Order already PAID")
	}

	if expected := order.AmountMinor(); amount != expected {
		mismatch := &domainErrors.AmountMismatchError{OrderID: order.ID, Expected: expected, Reported: amount}
		u.logger.Log(ctx, logger.LevelCritical, "webhook amount mismatch",
			slog.String("reference", reference),
			slog.Int64("order_id", order.ID),
			slog.Int64("expected", expected),
			slog.Int64("reported", amount))
		return failed(model.WebhookReplyAmountMismatch, mismatch.Error())
	}

	result, err := u.settlement.Settle(ctx, reference, amount)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAmountMismatch) {
			return failed(model.WebhookReplyAmountMismatch, err.Error())
		}
		return failed(model.WebhookReplyErrorLogged, err.Error())
	}
	if result.AlreadyPaid {
		return ignored(model.WebhookReplyAlreadyProcessed, "Order already PAID")
	}

	resolution.Status = model.WebhookStatusProcessed
	return model.WebhookReplyProcessed, resolution
}

func (u *WebhookUseCase) resolve(ctx context.Context, logID int64, resolution model.WebhookResolution) {
	ok, err := u.logs.Resolve(ctx, logID, resolution)
	if err != nil {
		u.logger.Error("webhook log update failed", slog.Int64("log_id", logID), slog.String("error", err.Error()))
		return
	}
	if !ok {
		u.logger.Warn("webhook log already resolved", slog.Int64("log_id", logID))
	}
}
