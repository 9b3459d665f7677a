package dto

import (
	"strings"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// CartItemRequest is one cart line. Either id or product_id names the product.
type CartItemRequest struct {
	ID        *int64  `json:"id"`
	ProductID *int64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
}

// CustomerDetails are the contact fields of a checkout.
type CustomerDetails struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// CreateOrderRequest accepts customer fields nested under user_details or at top level.
type CreateOrderRequest struct {
	Items       []CartItemRequest `json:"items"`
	UserDetails *CustomerDetails  `json:"user_details"`
	CustomerDetails
	CouponCode string `json:"coupon_code"`
}

// ToModel converts the payload. Lines without a product id get id 0 and fail lookup.
func (r CreateOrderRequest) ToModel() model.CheckoutRequest {
	details := r.CustomerDetails
	if r.UserDetails != nil {
		details = *r.UserDetails
	}

	lines := make([]model.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		var id int64
		switch {
		case item.ProductID != nil:
			id = *item.ProductID
		case item.ID != nil:
			id = *item.ID
		}
		lines = append(lines, model.CartLine{
			ProductID: id,
			Quantity:  item.Quantity,
			Color:     blankToNil(item.Color),
			Size:      blankToNil(item.Size),
		})
	}

	return model.CheckoutRequest{
		Items: lines,
		Customer: model.Customer{
			FullName: details.FullName,
			Email:    details.Email,
			Phone:    details.Phone,
			Address:  details.Address,
		},
		CouponCode: r.CouponCode,
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// CreateOrderResponse tells the storefront where to send the customer.
type CreateOrderResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
	OrderID          int64  `json:"order_id"`
	Message          string `json:"message,omitempty"`
}

// VerifyPaymentResponse is returned by the browser callback.
type VerifyPaymentResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}
