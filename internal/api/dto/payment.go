package dto

import (
	"time"

	"github.com/ledgerline/ledgerline/internal/domain/payment"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest represents money received against an invoice
type RecordPaymentRequest struct {
	InvoiceID     string              `json:"invoice_id" validate:"required"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"required"`
	Reference     *string             `json:"reference,omitempty" validate:"omitempty,max=255"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
}

// Validate checks the request shape. Amount and method are checked by the
// payment recorder so that they fail with the domain errors.
func (r *RecordPaymentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PaymentResponse represents a payment response
type PaymentResponse struct {
	ID            string              `json:"id"`
	InvoiceID     string              `json:"invoice_id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod types.PaymentMethod `json:"payment_method"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	Reference     *string             `json:"reference,omitempty"`
	PaidAt        time.Time           `json:"paid_at"`

	// invoice_status is the invoice status after this payment was reconciled
	InvoiceStatus types.InvoiceStatus `json:"invoice_status,omitempty"`

	// total_paid is the sum of completed payments on the invoice after this payment
	TotalPaid *decimal.Decimal `json:"total_paid,omitempty"`

	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// NewPaymentResponse creates a new payment response from a payment
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		PaymentStatus: p.PaymentStatus,
		Reference:     p.Reference,
		PaidAt:        p.PaidAt,
		TenantID:      p.TenantID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     p.CreatedBy,
		UpdatedBy:     p.UpdatedBy,
	}
}

// ListPaymentsResponse represents the response for listing payments
type ListPaymentsResponse = types.ListResponse[*PaymentResponse]
