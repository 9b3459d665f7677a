package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/acesshop/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(newSignatureVerifier),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.JWTSecret, Options{})
}

func newSignatureVerifier(p strategyParams) SignatureVerifier {
	return NewWebhookSigner(p.Config.PaystackSecretKey)
}
