package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/adapter/mailer"
	"github.com/polkiloo/acesshop/internal/adapter/paystack"
	"github.com/polkiloo/acesshop/internal/app"
	"github.com/polkiloo/acesshop/internal/config"
	"github.com/polkiloo/acesshop/internal/logger"
	"github.com/polkiloo/acesshop/internal/pkg/auth"
	"github.com/polkiloo/acesshop/internal/server/http/handlers"
	"github.com/polkiloo/acesshop/internal/server/http/router"
	"github.com/polkiloo/acesshop/internal/storage/postgres"
	"github.com/polkiloo/acesshop/internal/usecase"
	"github.com/polkiloo/acesshop/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		paystack.Module,
		mailer.Module,
		usecase.Module,
		fx.Provide(
			func(g paystack.Gateway) usecase.PaymentGateway { return g },
			func(n *mailer.OrderNotifier) usecase.Notifier { return n },
			func(d *worker.NotificationDispatcher) usecase.Dispatcher { return d },
			func(f *app.ShopFacade) handlers.ShopFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
