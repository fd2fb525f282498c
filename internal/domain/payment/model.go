package payment

import (
	"time"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is money received against an invoice. Payments are immutable once recorded.
type Payment struct {
	ID            string              `db:"id" json:"id"`
	InvoiceID     string              `db:"invoice_id" json:"invoice_id"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	PaymentMethod types.PaymentMethod `db:"payment_method" json:"payment_method"`
	PaymentStatus types.PaymentStatus `db:"payment_status" json:"payment_status"`
	Reference     *string             `db:"reference" json:"reference,omitempty"`
	PaidAt        time.Time           `db:"paid_at" json:"paid_at"`
	types.BaseModel
}

// ValidateAmount rejects amounts that are not positive or carry more
// decimal places than the amount column stores
func ValidateAmount(amount decimal.Decimal) error {
	if !types.FitsScale(amount, types.AmountScale) {
		return ierr.WithError(ErrInvalidAmount).
			WithHint("Amount supports at most 8 decimal places").
			WithReportableDetails(map[string]any{
				"amount": amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if !amount.IsPositive() {
		return ierr.WithError(ErrInvalidAmount).
			WithHint("Amount must be greater than 0").
			WithReportableDetails(map[string]any{
				"amount": amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (p *Payment) Validate() error {
	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}
	if p.InvoiceID == "" {
		return ierr.NewError("invalid invoice id").
			WithHint("Invoice id is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.PaymentMethod.Validate(); err != nil {
		return err
	}
	if err := p.PaymentStatus.Validate(); err != nil {
		return err
	}
	return nil
}
