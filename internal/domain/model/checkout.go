package model

import "github.com/shopspring/decimal"

// CartLine is a requested product and quantity with optional variant.
type CartLine struct {
	ProductID int64
	Quantity  int
	Color     *string
	Size      *string
}

// CheckoutRequest is the validated input of an order creation.
type CheckoutRequest struct {
	Items      []CartLine
	Customer   Customer
	CouponCode string
}

// CheckoutResult holds what the client needs to redirect to the gateway.
type CheckoutResult struct {
	OrderID          int64
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Reused           bool
	Mock             bool
}

// OrderDraft is a priced cart ready to be persisted.
type OrderDraft struct {
	Customer       Customer
	Items          []OrderItem
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	Coupon         *Coupon
}

// NewOrderDraft sums the lines at their snapshot prices.
func NewOrderDraft(customer Customer, items []OrderItem) OrderDraft {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return OrderDraft{
		Customer:    customer,
		Items:       items,
		Subtotal:    subtotal,
		TotalAmount: subtotal,
	}
}

// ApplyCoupon discounts the subtotal by the coupon percentage.
func (d *OrderDraft) ApplyCoupon(c *Coupon) {
	d.Coupon = c
	d.DiscountAmount = PercentOf(d.Subtotal, c.DiscountPercent)
	d.TotalAmount = d.Subtotal.Sub(d.DiscountAmount).Round(2)
}

// DropCoupon reprices the draft at full price.
func (d *OrderDraft) DropCoupon() {
	d.Coupon = nil
	d.DiscountAmount = decimal.Zero
	d.TotalAmount = d.Subtotal
}

// CouponID returns the id of the applied coupon, if any.
func (d *OrderDraft) CouponID() *int64 {
	if d.Coupon == nil {
		return nil
	}
	id := d.Coupon.ID
	return &id
}
