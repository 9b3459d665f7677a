package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name string
	run  func(ctx context.Context) error
}

// NotificationDispatcher runs fire-and-forget jobs on a fixed pool of workers.
// Dispatch never blocks; a full queue drops the job.
type NotificationDispatcher struct {
	workers int
	timeout time.Duration
	logger  *slog.Logger

	jobs    chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewNotificationDispatcher constructs the pool. Each job gets timeout to finish.
func NewNotificationDispatcher(workers, queueSize int, timeout time.Duration, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &NotificationDispatcher{
		workers: workers,
		timeout: timeout,
		logger:  logger,
		jobs:    make(chan job, queueSize),
	}
}

// Start launches the workers. Jobs outlive ctx cancellation until Stop.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	base := context.WithoutCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(base)
	}
}

// Stop closes the queue and waits for queued jobs to drain.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Dispatch enqueues run under name and reports whether it was accepted.
func (d *NotificationDispatcher) Dispatch(name string, run func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Error("notification dropped: dispatcher stopped", slog.String("job", name))
		return false
	}

	select {
	case d.jobs <- job{name: name, run: run}:
		return true
	default:
		d.logger.Error("notification dropped: queue full", slog.String("job", name), slog.Int("capacity", cap(d.jobs)))
		return false
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handle(ctx, j)
	}
}

func (d *NotificationDispatcher) handle(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := safeRun(ctx, j.run)
	if err != nil {
		d.logger.Error("notification failed", slog.String("job", j.name), slog.String("error", err.Error()))
		return
	}
	d.logger.Debug("notification sent", slog.String("job", j.name), slog.Duration("elapsed", time.Since(start)))
}

func safeRun(ctx context.Context, run func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return run(ctx)
}
