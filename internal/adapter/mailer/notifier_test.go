package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/polkiloo/acesshop/internal/config"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestOrderNotifierSendsBothMessages(t *testing.T) {
	rec := &recordingMailer{}
	n := NewOrderNotifier(rec, "GHS", "shop@aces.org")
	order := paidOrder()

	if err := n.CustomerReceipt(context.Background(), order); err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if err := n.AdminNotice(context.Background(), order); err != nil {
		t.Fatalf("admin notice: %v", err)
	}
	if len(rec.sent) != 2 {
		t.Fatalf("expected two messages, got %d", len(rec.sent))
	}
	if rec.sent[0].To != order.Email || rec.sent[1].To != "shop@aces.org" {
		t.Fatalf("unexpected recipients %q %q", rec.sent[0].To, rec.sent[1].To)
	}
}

func TestOrderNotifierWithoutAdmin(t *testing.T) {
	rec := &recordingMailer{}
	n := NewOrderNotifier(rec, "GHS", "")
	if n.NotifiesAdmin() {
		t.Fatal("admin notices must be disabled without address")
	}
	if err := n.AdminNotice(context.Background(), paidOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.sent) != 0 {
		t.Fatalf("expected nothing sent, got %d", len(rec.sent))
	}
}

func TestOrderNotifierWrapsTransportErrors(t *testing.T) {
	boom := errors.New("connection refused")
	n := NewOrderNotifier(&recordingMailer{err: boom}, "GHS", "")
	err := n.CustomerReceipt(context.Background(), paidOrder())
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "send receipt") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNewOrderNotifierUsesConfig(t *testing.T) {
	n := newOrderNotifier(notifierParams{Config: &config.Config{Currency: "GHS", AdminEmail: "ops@aces.org"}, Mailer: &recordingMailer{}})
	if n.currency != "GHS" || n.adminEmail != "ops@aces.org" {
		t.Fatalf("unexpected notifier %+v", n)
	}
}
