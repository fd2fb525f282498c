package invoice

import (
	"time"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a bill issued to a customer. Totals are fixed at creation;
// payments only move InvoiceStatus.
type Invoice struct {
	ID            string              `db:"id" json:"id"`
	InvoiceNumber string              `db:"invoice_number" json:"invoice_number"`
	CustomerID    string              `db:"customer_id" json:"customer_id"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	IssuedAt      time.Time           `db:"issued_at" json:"issued_at"`
	DueAt         *time.Time          `db:"due_at" json:"due_at,omitempty"`
	CancelledAt   *time.Time          `db:"cancelled_at" json:"cancelled_at,omitempty"`
	Subtotal      decimal.Decimal     `db:"subtotal" json:"subtotal"`
	TotalDiscount decimal.Decimal     `db:"total_discount" json:"total_discount"`
	TotalTax      decimal.Decimal     `db:"total_tax" json:"total_tax"`
	TotalAmount   decimal.Decimal     `db:"total_amount" json:"total_amount"`
	Notes         string              `db:"notes" json:"notes"`
	LineItems     []*InvoiceLineItem  `db:"-" json:"line_items,omitempty"`
	types.BaseModel
}

// AddLineItem appends a priced line and folds its amounts into the invoice totals
func (i *Invoice) AddLineItem(item *InvoiceLineItem) {
	i.LineItems = append(i.LineItems, item)
	i.Subtotal = i.Subtotal.Add(item.Subtotal)
	i.TotalDiscount = i.TotalDiscount.Add(item.DiscountAmount)
	i.TotalTax = i.TotalTax.Add(item.TaxAmount)
	i.TotalAmount = i.TotalAmount.Add(item.LineTotal)
}

// IsCancelled reports whether the invoice was cancelled
func (i *Invoice) IsCancelled() bool {
	return i.InvoiceStatus == types.InvoiceStatusCancelled
}

// Validate checks the invariants of an assembled invoice before it is persisted
func (i *Invoice) Validate() error {
	if len(i.LineItems) == 0 {
		return ierr.WithError(ErrEmptyInvoice).
			WithHint("Invoice must have at least one line item").
			Mark(ierr.ErrValidation)
	}

	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}

	if i.DueAt != nil && i.DueAt.Before(i.IssuedAt) {
		return ierr.WithError(NewValidationError("due_at", "must not be before issued_at")).
			WithHint("Due date must not be before the issue date").
			Mark(ierr.ErrValidation)
	}

	lineTotal := decimal.Zero
	for _, item := range i.LineItems {
		lineTotal = lineTotal.Add(item.LineTotal)
	}
	if !lineTotal.Equal(i.TotalAmount) {
		return ierr.WithError(NewValidationError("total_amount", "must equal the sum of line totals")).
			WithHint("Invoice total does not match its line items").
			WithReportableDetails(map[string]any{
				"total_amount":   i.TotalAmount.String(),
				"sum_line_total": lineTotal.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
