package invoice

import (
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

// ReconcileStatus derives the settlement status of an invoice from its total
// and the sum of its completed payments:
//
//	paid     totalPaid >= total and total > 0
//	partial  0 < totalPaid < total
//	unpaid   otherwise
func ReconcileStatus(total, totalPaid decimal.Decimal) types.InvoiceStatus {
	switch {
	case total.IsPositive() && totalPaid.GreaterThanOrEqual(total):
		return types.InvoiceStatusPaid
	case totalPaid.IsPositive() && totalPaid.LessThan(total):
		return types.InvoiceStatusPartial
	default:
		return types.InvoiceStatusUnpaid
	}
}

// InitialStatus is the status of a freshly assembled invoice
func InitialStatus(total decimal.Decimal) types.InvoiceStatus {
	if total.IsPositive() {
		return types.InvoiceStatusUnpaid
	}
	return types.InvoiceStatusPaid
}
