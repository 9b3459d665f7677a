package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OrderExpirer fails PENDING orders older than age.
type OrderExpirer interface {
	Sweep(ctx context.Context, age time.Duration, dryRun bool) (int64, error)
}

// OrderSweeper periodically expires abandoned orders.
type OrderSweeper struct {
	expirer  OrderExpirer
	interval time.Duration
	age      time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOrderSweeper constructs the sweeper.
func NewOrderSweeper(expirer OrderExpirer, interval, age time.Duration, logger *slog.Logger) *OrderSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if age <= 0 {
		age = 24 * time.Hour
	}
	return &OrderSweeper{expirer: expirer, interval: interval, age: age, logger: logger}
}

// Start launches the background loop.
func (s *OrderSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop cancels the loop and waits for it to exit.
func (s *OrderSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *OrderSweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OrderSweeper) sweep(ctx context.Context) {
	n, err := s.expirer.Sweep(ctx, s.age, false)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("stale order sweep failed", slog.String("error", err.Error()))
		}
		return
	}
	s.logger.Debug("stale order sweep finished", slog.Int64("expired", n))
}
