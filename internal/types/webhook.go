package types

import (
	"encoding/json"
	"time"
)

// WebhookEvent represents a billing event to be delivered to subscribers
type WebhookEvent struct {
	ID        string          `json:"id"`
	EventName string          `json:"event_name"`
	TenantID  string          `json:"tenant_id"`
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// invoice event names
const (
	WebhookEventInvoiceCreated       = "invoice.created"
	WebhookEventInvoiceUpdatePayment = "invoice.updated.payment"
	WebhookEventInvoiceCancelled     = "invoice.cancelled"
)

// payment event names
const (
	WebhookEventPaymentCreated = "payment.created"
)
