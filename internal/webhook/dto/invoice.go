package webhookDto

import (
	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

// InvoicePayload is the body of every invoice.* webhook
type InvoicePayload struct {
	EventType string `json:"event_type"`

	// Settlement lets receivers reconcile without walking the line items
	Settlement InvoiceSettlement `json:"settlement"`

	Invoice *dto.InvoiceResponse `json:"invoice"`
}

// InvoiceSettlement is the payment position of an invoice when the event fired
type InvoiceSettlement struct {
	InvoiceNumber   string              `json:"invoice_number"`
	CustomerID      string              `json:"customer_id"`
	InvoiceStatus   types.InvoiceStatus `json:"invoice_status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	AmountRemaining decimal.Decimal     `json:"amount_remaining"`
}

func NewInvoicePayload(inv *dto.InvoiceResponse, eventType string) *InvoicePayload {
	return &InvoicePayload{
		EventType: eventType,
		Settlement: InvoiceSettlement{
			InvoiceNumber:   inv.InvoiceNumber,
			CustomerID:      inv.CustomerID,
			InvoiceStatus:   inv.InvoiceStatus,
			TotalAmount:     inv.TotalAmount,
			AmountPaid:      inv.AmountPaid,
			AmountRemaining: inv.AmountRemaining,
		},
		Invoice: inv,
	}
}
