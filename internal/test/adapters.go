package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// GatewayStub imitates the payment gateway.
type GatewayStub struct {
	InitializeFn func(context.Context, model.PaymentRequest) (*model.PaymentSession, error)
	VerifyFn     func(context.Context, string) (*model.PaymentVerification, error)

	mu       sync.Mutex
	Requests []model.PaymentRequest
	Verified []string
}

// Initialize records the request and returns a reference derived from the order id.
func (g *GatewayStub) Initialize(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	g.mu.Lock()
	g.Requests = append(g.Requests, req)
	call := len(g.Requests)
	g.mu.Unlock()
	if g.InitializeFn != nil {
		return g.InitializeFn(ctx, req)
	}
	reference := fmt.Sprintf("ref-%d-%d", req.OrderID, call)
	return &model.PaymentSession{
		AuthorizationURL: "https://checkout.example/" + reference,
		AccessCode:       "access-" + reference,
		Reference:        reference,
	}, nil
}

// Verify reports success for AmountMinor unless overridden.
func (g *GatewayStub) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	g.mu.Lock()
	g.Verified = append(g.Verified, reference)
	g.mu.Unlock()
	if g.VerifyFn != nil {
		return g.VerifyFn(ctx, reference)
	}
	return &model.PaymentVerification{Reference: reference, Status: "success"}, nil
}

// NotifierStub records sent notifications.
type NotifierStub struct {
	Admin      bool
	ReceiptErr error

	mu       sync.Mutex
	Receipts []int64
	Notices  []int64
}

func (n *NotifierStub) CustomerReceipt(_ context.Context, order *model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Receipts = append(n.Receipts, order.ID)
	return n.ReceiptErr
}

func (n *NotifierStub) AdminNotice(_ context.Context, order *model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notices = append(n.Notices, order.ID)
	return nil
}

func (n *NotifierStub) NotifiesAdmin() bool {
	return n.Admin
}

// Sent returns the number of receipts and admin notices.
func (n *NotifierStub) Sent() (receipts, notices int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Receipts), len(n.Notices)
}

// DispatcherStub runs jobs inline and records their names.
type DispatcherStub struct {
	Reject bool

	mu     sync.Mutex
	Jobs   []string
	Errors []error
}

func (d *DispatcherStub) Dispatch(name string, job func(context.Context) error) bool {
	if d.Reject {
		return false
	}
	err := job(context.Background())
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Jobs = append(d.Jobs, name)
	if err != nil {
		d.Errors = append(d.Errors, err)
	}
	return true
}
