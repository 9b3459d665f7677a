package mailer

import (
	"context"
	"fmt"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// OrderNotifier renders and sends the paid-order emails.
type OrderNotifier struct {
	mailer     Mailer
	currency   string
	adminEmail string
}

// NewOrderNotifier builds a notifier. An empty adminEmail disables admin notices.
func NewOrderNotifier(m Mailer, currency, adminEmail string) *OrderNotifier {
	return &OrderNotifier{mailer: m, currency: currency, adminEmail: adminEmail}
}

func (n *OrderNotifier) CustomerReceipt(ctx context.Context, order *model.Order) error {
	msg, err := Receipt(order, n.currency)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send receipt for order %d: %w", order.ID, err)
	}
	return nil
}

func (n *OrderNotifier) AdminNotice(ctx context.Context, order *model.Order) error {
	if !n.NotifiesAdmin() {
		return nil
	}
	msg, err := AdminNotice(order, n.currency, n.adminEmail)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send admin notice for order %d: %w", order.ID, err)
	}
	return nil
}

func (n *OrderNotifier) NotifiesAdmin() bool {
	return n.adminEmail != ""
}
