package dto

import (
	"time"

	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents the request payload for creating a new invoice
type CreateInvoiceRequest struct {
	// customer_id is the unique identifier of the customer this invoice belongs to
	CustomerID string `json:"customer_id" validate:"required"`

	// line_items are the products sold on this invoice, in display order
	LineItems []CreateInvoiceLineItemRequest `json:"line_items"`

	// issued_at defaults to the time the invoice is created
	IssuedAt *time.Time `json:"issued_at,omitempty"`

	// due_at is the date by which payment is expected
	DueAt *time.Time `json:"due_at,omitempty"`

	// notes is free text printed on the invoice
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// CreateInvoiceLineItemRequest is one product line of a new invoice
type CreateInvoiceLineItemRequest struct {
	// product_id is the catalog product being sold
	ProductID string `json:"product_id" validate:"required"`

	// quantity must be greater than zero and may be fractional
	Quantity decimal.Decimal `json:"quantity"`

	// unit_price overrides the product's current price when set
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	// discount_percent is applied to the line subtotal, between 0 and 100
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// Validate checks the request shape. An empty line item list is left to the
// assembler so that it fails with the domain error.
func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	for i, item := range r.LineItems {
		if err := validator.ValidateRequest(&item); err != nil {
			return ierr.WithError(err).
				WithHintf("Line item %d is invalid", i+1).
				Mark(ierr.ErrValidation)
		}
	}

	if r.IssuedAt != nil && r.DueAt != nil && r.DueAt.Before(*r.IssuedAt) {
		return ierr.NewError("due_at must not be before issued_at").
			WithHint("Due date must not be before the issue date").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// InvoiceResponse represents an invoice with its lines and payment progress
type InvoiceResponse struct {
	ID            string              `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	CustomerID    string              `json:"customer_id"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	IssuedAt      time.Time           `json:"issued_at"`
	DueAt         *time.Time          `json:"due_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalAmount   decimal.Decimal `json:"total_amount"`

	// amount_paid is the sum of completed payments recorded against this invoice
	AmountPaid decimal.Decimal `json:"amount_paid"`

	// amount_remaining is total_amount minus amount_paid, never below zero
	AmountRemaining decimal.Decimal `json:"amount_remaining"`

	Notes     string                     `json:"notes,omitempty"`
	LineItems []*InvoiceLineItemResponse `json:"line_items,omitempty"`

	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// InvoiceLineItemResponse represents one priced line of an invoice
type InvoiceLineItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Position        int             `json:"position"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// NewInvoiceResponse maps an invoice to its response. Payment progress is
// filled in with WithPayments.
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}

	resp := &InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		InvoiceStatus:   inv.InvoiceStatus,
		IssuedAt:        inv.IssuedAt,
		DueAt:           inv.DueAt,
		CancelledAt:     inv.CancelledAt,
		Subtotal:        inv.Subtotal,
		TotalDiscount:   inv.TotalDiscount,
		TotalTax:        inv.TotalTax,
		TotalAmount:     inv.TotalAmount,
		AmountPaid:      decimal.Zero,
		AmountRemaining: inv.TotalAmount,
		Notes:           inv.Notes,
		TenantID:        inv.TenantID,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		CreatedBy:       inv.CreatedBy,
		UpdatedBy:       inv.UpdatedBy,
	}

	resp.LineItems = lo.Map(inv.LineItems, func(item *invoice.InvoiceLineItem, _ int) *InvoiceLineItemResponse {
		return NewInvoiceLineItemResponse(item)
	})

	return resp
}

// WithPayments sets the paid and remaining amounts from the completed payment total
func (r *InvoiceResponse) WithPayments(amountPaid decimal.Decimal) *InvoiceResponse {
	r.AmountPaid = amountPaid
	r.AmountRemaining = decimal.Max(r.TotalAmount.Sub(amountPaid), decimal.Zero)
	return r
}

func NewInvoiceLineItemResponse(item *invoice.InvoiceLineItem) *InvoiceLineItemResponse {
	if item == nil {
		return nil
	}
	return &InvoiceLineItemResponse{
		ID:              item.ID,
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		Position:        item.Position,
		Quantity:        item.Quantity,
		UnitPriceAtSale: item.UnitPriceAtSale,
		DiscountPercent: item.DiscountPercent,
		TaxRatePercent:  item.TaxRatePercent,
		Subtotal:        item.Subtotal,
		DiscountAmount:  item.DiscountAmount,
		TaxableAmount:   item.TaxableAmount,
		TaxAmount:       item.TaxAmount,
		LineTotal:       item.LineTotal,
	}
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]
