package handlers

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/server/http/dto"
)

const (
	webhookProvider    = "paystack"
	signatureHeader    = "X-Paystack-Signature"
	maxWebhookBodySize = 1 << 20
)

// WebhookHandler receives server-to-server payment notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Paystack handles POST /api/shop/webhooks/paystack.
// The raw body is passed through untouched since the signature covers its exact bytes.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodySize))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Could not read request body")
		return
	}

	delivery := model.WebhookDelivery{
		Provider:  webhookProvider,
		Body:      body,
		Headers:   flattenHeaders(c.Request.Header),
		Signature: c.GetHeader(signatureHeader),
		IPAddress: clientIP(c.Request),
	}

	reply, err := h.facade.ReceiveWebhook(c.Request.Context(), delivery)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMissingSignature):
			respondError(c, http.StatusBadRequest, "Missing signature")
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			respondError(c, http.StatusUnauthorized, "Invalid signature")
		case errors.Is(err, domainErrors.ErrInvalidPayload):
			respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		case errors.Is(err, domainErrors.ErrReferenceRequired):
			respondError(c, http.StatusBadRequest, "Missing reference")
		default:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Status: string(reply)})
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			flat[name] = values[0]
		}
	}
	return flat
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
