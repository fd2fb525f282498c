package invoice

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// CreateWithLineItems persists the invoice and all of its line items.
	// A duplicate invoice number fails with ErrNumberConflict marked ErrAlreadyExists.
	CreateWithLineItems(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice with its line items
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetForUpdate retrieves an invoice without line items and locks it
	// until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id string) (*Invoice, error)

	// Update persists the mutable fields of an invoice: status and cancellation
	Update(ctx context.Context, invoice *Invoice) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// CountByNumberPrefix counts invoices whose number starts with prefix
	CountByNumberPrefix(ctx context.Context, prefix string) (int, error)
}
