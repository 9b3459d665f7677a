package usecase

import (
	"context"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

// SweepUseCase expires abandoned PENDING orders.
type SweepUseCase struct {
	orders repository.OrderRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewSweepUseCase constructs SweepUseCase.
func NewSweepUseCase(orders repository.OrderRepository, logger *slog.Logger) *SweepUseCase {
	return &SweepUseCase{orders: orders, logger: logger, now: time.Now}
}

// Sweep marks PENDING orders older than age as FAILED in one statement.
// With dryRun it only counts them. Running it twice is a no-op the second time.
func (u *SweepUseCase) Sweep(ctx context.Context, age time.Duration, dryRun bool) (int64, error) {
	if age <= 0 {
		return 0, domainErrors.ErrInvalidThreshold
	}
	cutoff := u.now().Add(-age)

	if dryRun {
		n, err := u.orders.CountStale(ctx, cutoff)
		if err != nil {
			return 0, err
		}
		u.logger.Info("stale orders counted", slog.Int64("count", n), slog.Time("cutoff", cutoff))
		return n, nil
	}

	n, err := u.orders.ExpireStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.logger.Info("stale orders expired", slog.Int64("count", n), slog.Time("cutoff", cutoff))
	}
	return n, nil
}
