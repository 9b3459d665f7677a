package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// ValidateCouponRequest carries the code and the cart total as number or string.
type ValidateCouponRequest struct {
	Code      string          `json:"code"`
	CartTotal json.RawMessage `json:"cart_total"`
}

// Total parses cart_total, treating anything unparsable as zero.
func (r ValidateCouponRequest) Total() decimal.Decimal {
	raw := strings.Trim(strings.TrimSpace(string(r.CartTotal)), `"`)
	if raw == "" {
		return decimal.Zero
	}
	total, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return total
}

// CouponResponse is the coupon validation answer.
type CouponResponse struct {
	Valid           bool   `json:"valid"`
	Code            string `json:"code,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	DiscountAmount  string `json:"discount_amount,omitempty"`
	NewTotal        string `json:"new_total,omitempty"`
	OwnerName       string `json:"owner_name,omitempty"`
	OwnerRole       string `json:"owner_role,omitempty"`
	RemainingUses   *int   `json:"remaining_uses,omitempty"`
	Message         string `json:"message"`
}

// NewCouponResponse renders an accepted quote.
func NewCouponResponse(q *model.CouponQuote) CouponResponse {
	remaining := q.RemainingUses
	return CouponResponse{
		Valid:           true,
		Code:            q.Code,
		DiscountPercent: q.DiscountPercent,
		DiscountAmount:  q.DiscountAmount.StringFixed(2),
		NewTotal:        q.NewTotal.StringFixed(2),
		OwnerName:       q.OwnerName,
		OwnerRole:       q.OwnerRole,
		RemainingUses:   &remaining,
		Message:         q.Message,
	}
}

// WebhookResponse acknowledges a gateway delivery.
type WebhookResponse struct {
	Status string `json:"status"`
}
