package webhookDto

import "github.com/ledgerline/ledgerline/internal/api/dto"

// PaymentPayload is the body of payment.* webhooks. The payment response
// already carries the invoice status and total paid after reconciliation.
type PaymentPayload struct {
	EventType string               `json:"event_type"`
	Payment   *dto.PaymentResponse `json:"payment"`
}

func NewPaymentPayload(payment *dto.PaymentResponse, eventType string) *PaymentPayload {
	return &PaymentPayload{EventType: eventType, Payment: payment}
}
