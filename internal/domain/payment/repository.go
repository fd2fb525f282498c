package payment

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for payment persistence.
// There is no update path: payments are append-only.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)

	// SumCompletedByInvoiceID totals the completed payments of an invoice,
	// read from storage on every call
	SumCompletedByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error)

	// SumCompletedByInvoiceIDs is the batch form used by listings. Invoices
	// without completed payments are absent from the result.
	SumCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string]decimal.Decimal, error)
}
