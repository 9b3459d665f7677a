package usecase

import (
	"context"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// PaymentGateway opens and verifies hosted checkout transactions.
type PaymentGateway interface {
	Initialize(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error)
	Verify(ctx context.Context, reference string) (*model.PaymentVerification, error)
}

// Notifier delivers the post-settlement emails.
type Notifier interface {
	CustomerReceipt(ctx context.Context, order *model.Order) error
	AdminNotice(ctx context.Context, order *model.Order) error
	NotifiesAdmin() bool
}

// Dispatcher runs jobs off the request path. Dispatch reports false when
// the job was dropped.
type Dispatcher interface {
	Dispatch(name string, job func(ctx context.Context) error) bool
}
