package paystack

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/config"
)

// Module exposes the payment gateway implementation to fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	if p.Config.MockPayments() {
		p.Logger.Warn("payments are mocked; no money will move", slog.String("environment", p.Config.Environment))
		return NewMockGateway(p.Logger), nil
	}
	return NewHTTPClient(p.Config.PaystackBaseURL, p.Config.PaystackSecretKey, p.Config.GatewayTimeout, p.Logger)
}
