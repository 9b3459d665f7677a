package auth

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
)

// SignatureVerifier authenticates inbound webhook bodies.
type SignatureVerifier interface {
	Verify(body []byte, signature string) error
}

// WebhookSigner computes the hex HMAC-SHA512 Paystack puts in x-paystack-signature.
type WebhookSigner struct {
	secret []byte
}

func NewWebhookSigner(secret string) *WebhookSigner {
	return &WebhookSigner{secret: []byte(secret)}
}

// Sign returns the lowercase hex digest of body.
func (s *WebhookSigner) Sign(body []byte) string {
	mac := hmac.New(sha512.New, s.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares signature to the expected digest in constant time.
func (s *WebhookSigner) Verify(body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return domainErrors.ErrMissingSignature
	}
	if len(s.secret) == 0 {
		return domainErrors.ErrInvalidSignature
	}

	expected := []byte(s.Sign(body))
	if !hmac.Equal(expected, []byte(strings.ToLower(signature))) {
		return domainErrors.ErrInvalidSignature
	}
	return nil
}
