package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/config"
	"github.com/polkiloo/acesshop/internal/usecase"
	"github.com/polkiloo/acesshop/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewShopFacade,
		newHTTPServer,
		newNotificationDispatcher,
		newOrderSweeper,
	),
	fx.Invoke(registerLifecycle),
)

const notificationTimeout = 30 * time.Second

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type dispatcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotificationDispatcher(p dispatcherParams) *worker.NotificationDispatcher {
	return worker.NewNotificationDispatcher(
		p.Config.NotifyWorkers,
		p.Config.NotifyQueueSize,
		notificationTimeout,
		p.Logger,
	)
}

type sweeperParams struct {
	fx.In

	Sweeps *usecase.SweepUseCase
	Config *config.Config
	Logger *slog.Logger
}

func newOrderSweeper(p sweeperParams) *worker.OrderSweeper {
	return worker.NewOrderSweeper(
		p.Sweeps,
		p.Config.SweepInterval,
		p.Config.StaleOrderAge,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.NotificationDispatcher
	Sweeper    *worker.OrderSweeper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting acesshop",
				slog.String("addr", p.Server.Addr),
				slog.Bool("mock_payments", p.Config.MockPayments()),
			)
			p.Dispatcher.Start(ctx)
			p.Sweeper.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			serverErr := p.Server.Shutdown(shutdownCtx)
			p.Sweeper.Stop()
			// Settlements already committed still owe their notifications.
			p.Dispatcher.Stop()

			if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
				return serverErr
			}
			p.Logger.Info("acesshop stopped")
			return nil
		},
	})
}
