package main

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/config"
	"github.com/polkiloo/acesshop/internal/domain/repository"
	"github.com/polkiloo/acesshop/internal/logger"
	pkgAuth "github.com/polkiloo/acesshop/internal/pkg/auth"
	"github.com/polkiloo/acesshop/internal/storage/postgres"
	"github.com/polkiloo/acesshop/internal/usecase"
)

// connect opens storage through the same fx modules the service uses.
func connect(ctx context.Context) (toolkit, func(), error) {
	var (
		factory repository.Factory
		hasher  pkgAuth.PasswordHasher
		tokens  pkgAuth.Strategy
		log     *slog.Logger
	)

	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		fx.Provide(config.FromEnv),
		logger.Module,
		pkgAuth.Module,
		postgres.Module,
		fx.Populate(&factory, &hasher, &tokens, &log),
	)
	if err := app.Start(ctx); err != nil {
		return toolkit{}, nil, err
	}

	kit := toolkit{
		staff:  usecase.NewAuthUseCase(factory.Staff(), hasher, tokens),
		sweeps: usecase.NewSweepUseCase(factory.Orders(), log),
	}
	return kit, func() { _ = app.Stop(context.Background()) }, nil
}
