package invoice

import (
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceLineItem is a priced line of an invoice. All money fields are a
// snapshot taken when the invoice was assembled and are never updated.
type InvoiceLineItem struct {
	ID              string          `db:"id" json:"id"`
	InvoiceID       string          `db:"invoice_id" json:"invoice_id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	ProductName     string          `db:"product_name" json:"product_name"`
	Position        int             `db:"position" json:"position"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPriceAtSale decimal.Decimal `db:"unit_price_at_sale" json:"unit_price_at_sale"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	TaxRatePercent  decimal.Decimal `db:"tax_rate_percent" json:"tax_rate_percent"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxableAmount   decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	TaxAmount       decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	LineTotal       decimal.Decimal `db:"line_total" json:"line_total"`
	types.BaseModel
}

// NewLineItem builds the line snapshot for a priced input
func NewLineItem(invoiceID, productID, productName string, position int, in LineInput, amounts *LineAmounts, base types.BaseModel) *InvoiceLineItem {
	return &InvoiceLineItem{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		InvoiceID:       invoiceID,
		ProductID:       productID,
		ProductName:     productName,
		Position:        position,
		Quantity:        in.Quantity,
		UnitPriceAtSale: in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
		TaxRatePercent:  in.TaxRatePercent,
		Subtotal:        amounts.Subtotal,
		DiscountAmount:  amounts.DiscountAmount,
		TaxableAmount:   amounts.TaxableAmount,
		TaxAmount:       amounts.TaxAmount,
		LineTotal:       amounts.LineTotal,
		BaseModel:       base,
	}
}
