package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

const receiptLayout = `<html>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <h1 style="color: #2563eb; text-align: center;">{{.Heading}}</h1>
  {{if .Customer}}<p>Dear {{.Order.FullName}},</p>
  <p>Thank you for your purchase! We have received your payment.</p>{{else}}
  <p>A new order has been paid.</p>{{end}}
  <p><strong>Order ID:</strong> #{{.Order.ID}}</p>
  <p><strong>Date:</strong> {{.Order.CreatedAt.Format "2006-01-02 15:04"}}</p>
  <p><strong>Status:</strong> {{.Order.Status}}</p>
  {{with .Order.VerificationCode}}<p><strong>Verification code:</strong> {{.}}</p>{{end}}
  <p style="margin: 0;"><strong>Name:</strong> {{.Order.FullName}}</p>
  <p style="margin: 0;"><strong>Email:</strong> {{.Order.Email}}</p>
  <p style="margin: 0;"><strong>Phone:</strong> {{.Order.Phone}}</p>
  <p style="margin: 0;"><strong>Location:</strong> {{.Order.Address}}</p>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <thead><tr><th style="text-align: left;">Item</th><th>Qty</th><th style="text-align: right;">Price</th></tr></thead>
    <tbody>
    {{range .Order.Items}}<tr>
      <td>{{.ProductName}}{{with .SelectedColor}} <small>Color: {{.}}</small>{{end}}{{with .SelectedSize}} <small>Size: {{.}}</small>{{end}}</td>
      <td style="text-align: center;">{{.Quantity}}</td>
      <td style="text-align: right;">{{$.Currency}} {{.Price.StringFixed 2}}</td>
    </tr>{{end}}
    </tbody>
    <tfoot>
    {{if .Order.DiscountAmount.IsPositive}}<tr><td colspan="2" style="text-align: right;">Discount{{with .Order.CouponCode}} ({{.}}){{end}}:</td><td style="text-align: right;">-{{.Currency}} {{.Order.DiscountAmount.StringFixed 2}}</td></tr>{{end}}
    <tr><td colspan="2" style="text-align: right; font-weight: bold;">Total:</td><td style="text-align: right; font-weight: bold; color: #2563eb;">{{.Currency}} {{.Order.TotalAmount.StringFixed 2}}</td></tr>
    </tfoot>
  </table>
  <p style="text-align: center; color: #888; font-size: 0.9em;">Association of Computer Engineering Students (ACES)<br>KNUST</p>
</div>
</body>
</html>`

var receiptTemplate = template.Must(template.New("receipt").Parse(receiptLayout))

type receiptView struct {
	Heading  string
	Customer bool
	Currency string
	Order    *model.Order
}

// Receipt renders the customer confirmation for a paid order.
func Receipt(order *model.Order, currency string) (Message, error) {
	body, err := render(receiptView{Heading: "Order Confirmation", Customer: true, Currency: currency, Order: order})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       order.Email,
		Subject:  fmt.Sprintf("ACES Shop Receipt - Order #%d", order.ID),
		HTMLBody: body,
	}, nil
}

// AdminNotice renders the operator copy of a paid order.
func AdminNotice(order *model.Order, currency, adminEmail string) (Message, error) {
	body, err := render(receiptView{Heading: "New Paid Order", Currency: currency, Order: order})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       adminEmail,
		Subject:  fmt.Sprintf("ACES Shop - Order #%d paid (%s %s)", order.ID, currency, order.TotalAmount.StringFixed(2)),
		HTMLBody: body,
	}, nil
}

func render(view receiptView) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
