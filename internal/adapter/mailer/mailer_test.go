package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/acesshop/internal/config"
	"github.com/polkiloo/acesshop/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewSMTPMailerValidates(t *testing.T) {
	if _, err := NewSMTPMailer("", 587, "u", "p", "from@example.com"); err == nil {
		t.Fatal("expected error without host")
	}
	if _, err := NewSMTPMailer("smtp.example.com", 587, "", "", ""); err == nil {
		t.Fatal("expected error without sender")
	}
	m, err := NewSMTPMailer("smtp.example.com", 587, "shop@example.com", "secret", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.from != "shop@example.com" || m.addr != "smtp.example.com:587" || m.auth == nil {
		t.Fatalf("unexpected mailer %+v", m)
	}
}

// relaySession is what the in-memory relay received.
type relaySession struct {
	from string
	to   string
	data string
}

// serveRelay speaks just enough SMTP for a single delivery.
func serveRelay(conn net.Conn, rejectRcpt bool, done chan<- relaySession) {
	defer conn.Close()
	var s relaySession
	defer func() { done <- s }()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 relay.test ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		switch cmd := strings.ToUpper(line); {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250 relay.test")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			s.from = line[len("MAIL FROM:"):]
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			s.to = line[len("RCPT TO:"):]
			if rejectRcpt {
				_ = tp.PrintfLine("550 no such user")
				continue
			}
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 go ahead")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.data = string(body)
			_ = tp.PrintfLine("250 queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 command not implemented")
		}
	}
}

func pipeMailer(t *testing.T, rejectRcpt bool) (*SMTPMailer, <-chan relaySession) {
	t.Helper()
	m, err := NewSMTPMailer("relay.test", 25, "", "", "shop@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := make(chan relaySession, 1)
	m.dial = func(_ context.Context, network, addr string) (net.Conn, error) {
		if network != "tcp" || addr != "relay.test:25" {
			t.Errorf("unexpected dial %s %s", network, addr)
		}
		client, server := net.Pipe()
		go serveRelay(server, rejectRcpt, done)
		return client, nil
	}
	return m, done
}

func TestSMTPMailerSend(t *testing.T) {
	m, done := pipeMailer(t, false)

	err := m.Send(context.Background(), Message{To: "kofi@example.com", Subject: "Receipt\r\nBcc: evil@example.com", HTMLBody: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := <-done
	if got.from != "<shop@example.com>" || got.to != "<kofi@example.com>" {
		t.Fatalf("unexpected envelope %q %q", got.from, got.to)
	}
	if strings.Contains(got.data, "\nBcc:") {
		t.Fatalf("expected header injection to be neutralised: %q", got.data)
	}
	if !strings.Contains(got.data, "Content-Type: text/html") || !strings.HasSuffix(strings.TrimSpace(got.data), "<p>hi</p>") {
		t.Fatalf("unexpected message %q", got.data)
	}
}

func TestSMTPMailerSendErrors(t *testing.T) {
	m, done := pipeMailer(t, true)
	if err := m.Send(context.Background(), Message{To: "nobody@example.com"}); err == nil {
		t.Fatal("expected rejected recipient to fail")
	}
	<-done

	if err := m.Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected error without recipient")
	}

	m.dial = func(context.Context, string, string) (net.Conn, error) { return nil, errors.New("connection refused") }
	if err := m.Send(context.Background(), Message{To: "kofi@example.com"}); err == nil {
		t.Fatal("expected dial error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, Message{To: "kofi@example.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestSMTPMailerHonoursContextWithSilentRelay(t *testing.T) {
	m, err := NewSMTPMailer("relay.test", 25, "", "", "shop@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var servers []net.Conn
	m.dial = func(context.Context, string, string) (net.Conn, error) {
		client, server := net.Pipe()
		servers = append(servers, server)
		return client, nil
	}
	defer func() {
		for _, c := range servers {
			c.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := m.Send(ctx, Message{To: "kofi@example.com"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("send outlived its deadline: %v", elapsed)
	}

	ctx, cancel = context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	if err := m.Send(ctx, Message{To: "kofi@example.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestLogMailer(t *testing.T) {
	if err := NewLogMailer(testLogger()).Send(context.Background(), Message{To: "x@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func paidOrder() *model.Order {
	code := "5f0c-verify"
	coupon := "ACES10"
	size := "L"
	return &model.Order{
		ID:               42,
		Customer:         model.Customer{FullName: "Kofi <Mensah>", Email: "kofi@example.com", Phone: "024", Address: "Legon"},
		TotalAmount:      decimal.RequireFromString("90.00"),
		DiscountAmount:   decimal.RequireFromString("10.00"),
		CouponCode:       &coupon,
		Status:           model.OrderStatusPaid,
		VerificationCode: &code,
		CreatedAt:        time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductName: "Club Hoodie", Price: decimal.RequireFromString("50"), Quantity: 2, SelectedSize: &size},
		},
	}
}

func TestReceipt(t *testing.T) {
	msg, err := Receipt(paidOrder(), "GHS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.To != "kofi@example.com" || msg.Subject != "ACES Shop Receipt - Order #42" {
		t.Fatalf("unexpected message %+v", msg)
	}
	for _, want := range []string{"5f0c-verify", "GHS 90.00", "GHS 50.00", "Size: L", "(ACES10)", "2026-03-01 10:30", "Kofi &lt;Mensah&gt;"} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestAdminNotice(t *testing.T) {
	msg, err := AdminNotice(paidOrder(), "GHS", "admin@aces.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.To != "admin@aces.example" || !strings.Contains(msg.Subject, "GHS 90.00") {
		t.Fatalf("unexpected message %+v", msg)
	}
	if strings.Contains(msg.HTMLBody, "Thank you for your purchase") {
		t.Fatalf("admin notice should not address the customer")
	}
}

func TestNewMailerUsesConfig(t *testing.T) {
	m, err := newMailer(mailerParams{Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*LogMailer); !ok {
		t.Fatalf("expected log mailer, got %T", m)
	}

	m, err = newMailer(mailerParams{Config: &config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPFrom: "shop@example.com"}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*SMTPMailer); !ok {
		t.Fatalf("expected smtp mailer, got %T", m)
	}
}
