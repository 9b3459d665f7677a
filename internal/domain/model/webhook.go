package model

import "time"

// WebhookStatus is the processing state of an inbound delivery.
type WebhookStatus string

const (
	WebhookStatusReceived  WebhookStatus = "received"
	WebhookStatusProcessed WebhookStatus = "processed"
	WebhookStatusFailed    WebhookStatus = "failed"
	WebhookStatusIgnored   WebhookStatus = "ignored"
)

// Terminal reports whether the status ends processing.
func (s WebhookStatus) Terminal() bool {
	return s == WebhookStatusProcessed || s == WebhookStatusFailed || s == WebhookStatusIgnored
}

// WebhookLog is the append-only audit row of one delivery.
type WebhookLog struct {
	ID              int64
	Provider        string
	EventType       string
	Reference       string
	Payload         string
	RawPayload      []byte
	Headers         map[string]string
	IPAddress       string
	Status          WebhookStatus
	ProcessingError string
	CreatedAt       time.Time
}

// WebhookResolution is written to a log row when it leaves the received state.
type WebhookResolution struct {
	Status    WebhookStatus
	EventType string
	Reference string
	Note      string
}

// WebhookDelivery is an inbound request as seen by the receiver.
type WebhookDelivery struct {
	Provider  string
	Body      []byte
	Headers   map[string]string
	Signature string
	IPAddress string
}

// WebhookReply is the status string returned to the provider.
type WebhookReply string

const (
	WebhookReplyProcessed        WebhookReply = "processed"
	WebhookReplyAlreadyProcessed WebhookReply = "already_processed"
	WebhookReplyOrderNotFound    WebhookReply = "order_not_found"
	WebhookReplyAmountMismatch   WebhookReply = "amount_mismatch"
	WebhookReplyErrorLogged      WebhookReply = "error_logged"
	WebhookReplyEventIgnored     WebhookReply = "event_ignored"
)
