package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/config"
)

// Module provides the notification transport and the order notifier.
var Module = fx.Provide(newMailer, newOrderNotifier)

type mailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMailer(p mailerParams) (Mailer, error) {
	if p.Config.SMTPHost == "" {
		return NewLogMailer(p.Logger), nil
	}
	return NewSMTPMailer(p.Config.SMTPHost, p.Config.SMTPPort, p.Config.SMTPUsername, p.Config.SMTPPassword, p.Config.SMTPFrom)
}

type notifierParams struct {
	fx.In

	Config *config.Config
	Mailer Mailer
}

func newOrderNotifier(p notifierParams) *OrderNotifier {
	return NewOrderNotifier(p.Mailer, p.Config.Currency, p.Config.AdminEmail)
}
