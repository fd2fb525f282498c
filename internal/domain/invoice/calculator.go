package invoice

import (
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineInput is everything needed to price one invoice line
type LineInput struct {
	UnitPrice       decimal.Decimal
	Quantity        decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRatePercent  decimal.Decimal
}

// LineAmounts are the derived money fields of one invoice line
type LineAmounts struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
}

// ComputeLine prices a single line. Discount is applied before tax and the
// taxable amount never goes below zero. Each derived amount is rounded to
// types.AmountScale before it feeds the next step, so the stored line fields
// are exactly what later sums add up.
func ComputeLine(in LineInput) (*LineAmounts, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	subtotal := types.RoundAmount(in.UnitPrice.Mul(in.Quantity))
	discountAmount := types.RoundAmount(subtotal.Mul(in.DiscountPercent).Div(hundred))
	taxableAmount := decimal.Max(decimal.Zero, subtotal.Sub(discountAmount))
	taxAmount := types.RoundAmount(taxableAmount.Mul(in.TaxRatePercent).Div(hundred))

	return &LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TaxAmount:      taxAmount,
		LineTotal:      taxableAmount.Add(taxAmount),
	}, nil
}

func (in LineInput) Validate() error {
	switch {
	case in.UnitPrice.IsNegative():
		return invalidLineInput("unit_price", "Unit price must be non-negative")
	case !in.Quantity.IsPositive():
		return invalidLineInput("quantity", "Quantity must be greater than zero")
	case outOfPercentRange(in.DiscountPercent):
		return invalidLineInput("discount_percent", "Discount must be between 0 and 100 percent")
	case outOfPercentRange(in.TaxRatePercent):
		return invalidLineInput("tax_rate_percent", "Tax rate must be between 0 and 100 percent")
	case !types.FitsScale(in.UnitPrice, types.AmountScale):
		return invalidLineInput("unit_price", "Unit price supports at most 8 decimal places")
	case !types.FitsScale(in.Quantity, types.AmountScale):
		return invalidLineInput("quantity", "Quantity supports at most 8 decimal places")
	case !types.FitsScale(in.DiscountPercent, types.PercentScale):
		return invalidLineInput("discount_percent", "Discount supports at most 4 decimal places")
	case !types.FitsScale(in.TaxRatePercent, types.PercentScale):
		return invalidLineInput("tax_rate_percent", "Tax rate supports at most 4 decimal places")
	}
	return nil
}

func outOfPercentRange(d decimal.Decimal) bool {
	return d.IsNegative() || d.GreaterThan(hundred)
}

func invalidLineInput(field, hint string) error {
	return ierr.WithError(ErrInvalidLineInput).
		WithHint(hint).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}
