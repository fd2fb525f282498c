package product

import (
	"strings"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product is the catalog entry an invoice line is priced from.
// Billing only reads the price and tax rate and adjusts the stock counter.
type Product struct {
	ID string `db:"id" json:"id"`

	Name string `db:"name" json:"name"`

	// UnitPrice is the current list price; invoice lines snapshot it at sale time
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`

	// TaxRatePercent is the tax rate in percent, between 0 and 100
	TaxRatePercent decimal.Decimal `db:"tax_rate_percent" json:"tax_rate_percent"`

	// StockQuantity is nil when the product does not track stock
	StockQuantity *int64 `db:"stock_quantity" json:"stock_quantity,omitempty"`

	types.BaseModel
}

// TracksStock reports whether sales should decrement the stock counter
func (p *Product) TracksStock() bool {
	return p.StockQuantity != nil
}

// StockAfterSale returns the stock left after selling quantity units, floored at zero
func (p *Product) StockAfterSale(quantity int64) int64 {
	if p.StockQuantity == nil {
		return 0
	}
	remaining := *p.StockQuantity - quantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ierr.NewError("product name is required").
			WithHint("Product name is required").
			Mark(ierr.ErrValidation)
	}
	if p.UnitPrice.IsNegative() {
		return ierr.NewError("unit price must be non-negative").
			WithHint("Unit price must be non-negative").
			Mark(ierr.ErrValidation)
	}
	if !types.FitsScale(p.UnitPrice, types.AmountScale) {
		return ierr.NewError("unit price exceeds amount scale").
			WithHint("Unit price supports at most 8 decimal places").
			Mark(ierr.ErrValidation)
	}
	if p.TaxRatePercent.IsNegative() || p.TaxRatePercent.GreaterThan(hundred) {
		return ierr.NewError("tax rate out of range").
			WithHint("Tax rate must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if !types.FitsScale(p.TaxRatePercent, types.PercentScale) {
		return ierr.NewError("tax rate exceeds percent scale").
			WithHint("Tax rate supports at most 4 decimal places").
			Mark(ierr.ErrValidation)
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		return ierr.NewError("stock quantity must be non-negative").
			WithHint("Stock quantity must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
