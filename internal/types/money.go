package types

import "github.com/shopspring/decimal"

// Storage scales of the NUMERIC money and percent columns
const (
	AmountScale  int32 = 8
	PercentScale int32 = 4
)

// RoundAmount rounds d to the scale of an amount column
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// FitsScale reports whether d carries no more than scale decimal places
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Round(scale))
}
