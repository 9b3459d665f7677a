package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
)

// OrderStatus describes the checkout lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusFailed    OrderStatus = "FAILED"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusFailed},
	OrderStatusPaid:      {OrderStatusFulfilled, OrderStatusFailed},
	OrderStatusFulfilled: {OrderStatusFulfilled, OrderStatusPaid, OrderStatusPending, OrderStatusFailed},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed, OrderStatusFulfilled:
		return true
	}
	return false
}

// Customer is the contact snapshot copied onto an order at checkout.
type Customer struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// OrderItem is one cart line with the catalog price frozen at checkout.
type OrderItem struct {
	ID            int64
	OrderID       int64
	ProductID     int64
	ProductName   string
	Price         decimal.Decimal
	Quantity      int
	SelectedColor *string
	SelectedSize  *string
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is one checkout attempt.
type Order struct {
	ID int64
	Customer
	TotalAmount      decimal.Decimal
	DiscountAmount   decimal.Decimal
	CouponID         *int64
	CouponCode       *string
	Status           OrderStatus
	PaymentReference *string
	VerificationCode *string
	CreatedAt        time.Time
	CompletedAt      *time.Time
	DeliveredAt      *time.Time
	Items            []OrderItem
}

// AmountMinor is the total in minor currency units as sent to the gateway.
func (o *Order) AmountMinor() int64 {
	return ToMinorUnits(o.TotalAmount)
}

// Settled reports whether payment has already been taken for the order.
// The verification code outlives an operator revert to PENDING, so it counts
// even when the status no longer says PAID.
func (o *Order) Settled() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFulfilled || o.VerificationCode != nil
}

func (o *Order) transition(to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

// Fulfill marks a paid order as prepared and stamps CompletedAt once.
func (o *Order) Fulfill(now time.Time) error {
	if err := o.transition(OrderStatusFulfilled); err != nil {
		return err
	}
	if o.CompletedAt == nil {
		o.CompletedAt = &now
	}
	return nil
}

// RevertFulfillment returns a fulfilled order to PAID or PENDING.
func (o *Order) RevertFulfillment(to OrderStatus) error {
	if o.Status != OrderStatusFulfilled {
		return fmt.Errorf("%w: %s is not fulfilled", domainErrors.ErrInvalidTransition, o.Status)
	}
	if o.DeliveredAt != nil {
		return domainErrors.ErrAlreadyDelivered
	}
	if to != OrderStatusPaid && to != OrderStatusPending {
		return fmt.Errorf("%w: cannot revert to %s", domainErrors.ErrInvalidTransition, to)
	}
	o.Status = to
	o.CompletedAt = nil
	return nil
}

// MarkDelivered requires a fulfilled order with a completion timestamp.
func (o *Order) MarkDelivered(now time.Time) error {
	if o.Status != OrderStatusFulfilled || o.CompletedAt == nil {
		return fmt.Errorf("%w: order must be fulfilled before delivery", domainErrors.ErrInvalidTransition)
	}
	if o.DeliveredAt == nil {
		o.DeliveredAt = &now
	}
	return nil
}

// UndoDelivery clears the delivery flag.
func (o *Order) UndoDelivery() error {
	o.DeliveredAt = nil
	return nil
}

// Cancel fails an order that has not been delivered.
func (o *Order) Cancel() error {
	if o.DeliveredAt != nil {
		return domainErrors.ErrAlreadyDelivered
	}
	if o.Status == OrderStatusFailed {
		return nil
	}
	return o.transition(OrderStatusFailed)
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status OrderStatus
	Limit  int
}
