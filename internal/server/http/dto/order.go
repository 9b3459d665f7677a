package dto

import (
	"time"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// OrderItemResponse is one line of an order projection.
type OrderItemResponse struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Price         string  `json:"price"`
	Quantity      int     `json:"quantity"`
	SelectedColor *string `json:"selected_color"`
	SelectedSize  *string `json:"selected_size"`
}

// OrderResponse is the order projection returned to customers and staff.
type OrderResponse struct {
	ID               int64               `json:"id"`
	FullName         string              `json:"full_name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address"`
	TotalAmount      string              `json:"total_amount"`
	DiscountAmount   string              `json:"discount_amount"`
	CouponCode       *string             `json:"coupon_code,omitempty"`
	Status           string              `json:"status"`
	VerificationCode *string             `json:"verification_code,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
}

// NewOrderResponse projects order for the API.
func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Price:         item.Price.StringFixed(2),
			Quantity:      item.Quantity,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
		})
	}
	return OrderResponse{
		ID:               o.ID,
		FullName:         o.FullName,
		Email:            o.Email,
		Phone:            o.Phone,
		Address:          o.Address,
		TotalAmount:      o.TotalAmount.StringFixed(2),
		DiscountAmount:   o.DiscountAmount.StringFixed(2),
		CouponCode:       o.CouponCode,
		Status:           string(o.Status),
		VerificationCode: o.VerificationCode,
		Items:            items,
		CreatedAt:        o.CreatedAt,
		CompletedAt:      o.CompletedAt,
		DeliveredAt:      o.DeliveredAt,
	}
}

// RevertRequest selects the status a fulfilled order returns to.
type RevertRequest struct {
	To string `json:"to"`
}

// SweepRequest asks to expire PENDING orders older than Hours.
type SweepRequest struct {
	Hours  int  `json:"hours"`
	DryRun bool `json:"dry_run"`
}

// SweepResponse reports how many orders matched.
type SweepResponse struct {
	Count  int64 `json:"count"`
	DryRun bool  `json:"dry_run"`
}
