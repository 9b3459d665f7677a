package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CouponRejection names why a coupon cannot be applied.
type CouponRejection string

const (
	CouponAccepted    CouponRejection = ""
	CouponNotFound    CouponRejection = "not_found"
	CouponDeactivated CouponRejection = "deactivated"
	CouponExhausted   CouponRejection = "exhausted"
	CouponExpired     CouponRejection = "expired"
)

// Message returns the customer facing text for the rejection.
func (r CouponRejection) Message() string {
	switch r {
	case CouponNotFound:
		return "Invalid coupon code"
	case CouponDeactivated:
		return "This coupon has been deactivated"
	case CouponExhausted:
		return "This coupon has reached its usage limit"
	case CouponExpired:
		return "This coupon has expired"
	default:
		return ""
	}
}

// Coupon is a percentage discount code. TimesUsed only moves through guarded
// increments and decrements in storage.
type Coupon struct {
	ID              int64
	Code            string
	DiscountPercent int
	MaxUses         int
	TimesUsed       int
	ExpiresAt       time.Time
	IsActive        bool
	OwnerName       string
	OwnerRole       string
	CreatedAt       time.Time
}

// NormalizeCouponCode trims and upper-cases a user supplied code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rejection reports the first failing check, or CouponAccepted.
func (c Coupon) Rejection(now time.Time) CouponRejection {
	switch {
	case !c.IsActive:
		return CouponDeactivated
	case c.TimesUsed >= c.MaxUses:
		return CouponExhausted
	case !now.Before(c.ExpiresAt):
		return CouponExpired
	default:
		return CouponAccepted
	}
}

// IsValid reports whether the coupon can be applied at the given instant.
func (c Coupon) IsValid(now time.Time) bool {
	return c.Rejection(now) == CouponAccepted
}

// RemainingUses never goes below zero.
func (c Coupon) RemainingUses() int {
	if c.TimesUsed >= c.MaxUses {
		return 0
	}
	return c.MaxUses - c.TimesUsed
}

// CouponQuote is the answer to a coupon validation request.
type CouponQuote struct {
	Valid           bool
	Rejection       CouponRejection
	Code            string
	DiscountPercent int
	DiscountAmount  decimal.Decimal
	NewTotal        decimal.Decimal
	OwnerName       string
	OwnerRole       string
	RemainingUses   int
	Message         string
}

// Quote prices the coupon against a cart total.
func (c Coupon) Quote(cartTotal decimal.Decimal) CouponQuote {
	discount := PercentOf(cartTotal, c.DiscountPercent)
	return CouponQuote{
		Valid:           true,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		DiscountAmount:  discount,
		NewTotal:        cartTotal.Sub(discount).Round(2),
		OwnerName:       c.OwnerName,
		OwnerRole:       c.OwnerRole,
		RemainingUses:   c.RemainingUses(),
		Message:         fmt.Sprintf("%d%% discount applied!", c.DiscountPercent),
	}
}
