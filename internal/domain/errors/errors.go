package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAmount      = errors.New("invalid amount")

	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidCustomer    = errors.New("customer email is required")
	ErrCouponCodeRequired = errors.New("coupon code is required")
	ErrInvalidThreshold   = errors.New("threshold must be positive")

	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrPaymentNotSuccessful = errors.New("payment not successful")
	ErrReferenceRequired    = errors.New("payment reference is required")
	ErrAmountMismatch       = errors.New("payment amount mismatch")

	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrAlreadyDelivered  = errors.New("order already delivered")

	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// ProductsUnavailableError lists cart product ids that are unknown or inactive.
type ProductsUnavailableError struct {
	IDs []int64
}

func (e *ProductsUnavailableError) Error() string {
	return fmt.Sprintf("products with IDs %v not found or inactive", e.IDs)
}

// AmountMismatchError reports a gateway amount that differs from the order total.
// Amounts are in minor currency units.
type AmountMismatchError struct {
	OrderID  int64
	Expected int64
	Reported int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("order %d: expected %d, got %d", e.OrderID, e.Expected, e.Reported)
}

func (e *AmountMismatchError) Unwrap() error {
	return ErrAmountMismatch
}

// GatewayRejectedError carries the provider message when it refuses a request.
type GatewayRejectedError struct {
	Message string
}

func (e *GatewayRejectedError) Error() string {
	return "payment gateway rejected request: " + e.Message
}

// CouponRejectedError explains why a coupon cannot be applied.
type CouponRejectedError struct {
	Reason  string
	Message string
}

func (e *CouponRejectedError) Error() string {
	return "coupon rejected: " + e.Reason
}
