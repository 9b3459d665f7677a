package model

import (
	"strconv"
	"strings"
)

const mockReferencePrefix = "mock-"

// PaymentRequest is sent to the gateway to open a hosted checkout.
type PaymentRequest struct {
	OrderID     int64
	Email       string
	AmountMinor int64
	Currency    string
	CallbackURL string
}

// PaymentSession is the gateway answer to a PaymentRequest.
type PaymentSession struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Mock             bool
}

// PaymentVerification is what the gateway reports for a reference.
type PaymentVerification struct {
	Reference   string
	Status      string
	AmountMinor int64
}

// Successful reports whether the gateway considers the charge complete.
func (v PaymentVerification) Successful() bool {
	return v.Status == "success"
}

// IsMockReference reports whether a reference was issued by the mock gateway.
func IsMockReference(reference string) bool {
	return strings.HasPrefix(reference, mockReferencePrefix)
}

// MockReference builds a mock gateway reference for an order.
func MockReference(orderID int64, nonce string) string {
	return mockReferencePrefix + strconv.FormatInt(orderID, 10) + "-" + nonce
}

// Settlement is the outcome of a settlement attempt.
type Settlement struct {
	Order       *Order
	AlreadyPaid bool
	// Oversold lists products whose stock went below zero.
	Oversold []int64
}
