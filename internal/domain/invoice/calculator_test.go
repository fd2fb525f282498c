package invoice

import (
	"testing"

	"github.com/cockroachdb/errors"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name     string
		input    LineInput
		expected LineAmounts
	}{
		{
			name: "plain line without discount or tax",
			input: LineInput{
				UnitPrice:       d("49.99"),
				Quantity:        d("3"),
				DiscountPercent: decimal.Zero,
				TaxRatePercent:  decimal.Zero,
			},
			expected: LineAmounts{
				Subtotal:       d("149.97"),
				DiscountAmount: decimal.Zero,
				TaxableAmount:  d("149.97"),
				TaxAmount:      decimal.Zero,
				LineTotal:      d("149.97"),
			},
		},
		{
			name: "discount applied before tax",
			input: LineInput{
				UnitPrice:       d("100"),
				Quantity:        d("2"),
				DiscountPercent: d("10"),
				TaxRatePercent:  d("18"),
			},
			expected: LineAmounts{
				Subtotal:       d("200"),
				DiscountAmount: d("20"),
				TaxableAmount:  d("180"),
				TaxAmount:      d("32.4"),
				LineTotal:      d("212.4"),
			},
		},
		{
			name: "full discount leaves nothing to tax",
			input: LineInput{
				UnitPrice:       d("25"),
				Quantity:        d("4"),
				DiscountPercent: d("100"),
				TaxRatePercent:  d("12"),
			},
			expected: LineAmounts{
				Subtotal:       d("100"),
				DiscountAmount: d("100"),
				TaxableAmount:  decimal.Zero,
				TaxAmount:      decimal.Zero,
				LineTotal:      decimal.Zero,
			},
		},
		{
			name: "free product",
			input: LineInput{
				UnitPrice:       decimal.Zero,
				Quantity:        d("5"),
				DiscountPercent: decimal.Zero,
				TaxRatePercent:  d("5"),
			},
			expected: LineAmounts{
				Subtotal:       decimal.Zero,
				DiscountAmount: decimal.Zero,
				TaxableAmount:  decimal.Zero,
				TaxAmount:      decimal.Zero,
				LineTotal:      decimal.Zero,
			},
		},
		{
			name: "fractional quantity",
			input: LineInput{
				UnitPrice:       d("12.50"),
				Quantity:        d("1.5"),
				DiscountPercent: decimal.Zero,
				TaxRatePercent:  d("10"),
			},
			expected: LineAmounts{
				Subtotal:       d("18.75"),
				DiscountAmount: decimal.Zero,
				TaxableAmount:  d("18.75"),
				TaxAmount:      d("1.875"),
				LineTotal:      d("20.625"),
			},
		},
		{
			name: "tax rounded to amount scale",
			input: LineInput{
				UnitPrice:       d("59.97"),
				Quantity:        d("1"),
				DiscountPercent: d("12.5"),
				TaxRatePercent:  d("7.125"),
			},
			expected: LineAmounts{
				Subtotal:       d("59.97"),
				DiscountAmount: d("7.49625"),
				TaxableAmount:  d("52.47375"),
				TaxAmount:      d("3.73875469"),
				LineTotal:      d("56.21250469"),
			},
		},
		{
			name: "sub-scale discount rounds half away from zero",
			input: LineInput{
				UnitPrice:       d("0.00000001"),
				Quantity:        d("1"),
				DiscountPercent: d("50"),
				TaxRatePercent:  decimal.Zero,
			},
			expected: LineAmounts{
				Subtotal:       d("0.00000001"),
				DiscountAmount: d("0.00000001"),
				TaxableAmount:  decimal.Zero,
				TaxAmount:      decimal.Zero,
				LineTotal:      decimal.Zero,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Subtotal.Equal(got.Subtotal), "subtotal: got %s", got.Subtotal)
			assert.True(t, tt.expected.DiscountAmount.Equal(got.DiscountAmount), "discount: got %s", got.DiscountAmount)
			assert.True(t, tt.expected.TaxableAmount.Equal(got.TaxableAmount), "taxable: got %s", got.TaxableAmount)
			assert.True(t, tt.expected.TaxAmount.Equal(got.TaxAmount), "tax: got %s", got.TaxAmount)
			assert.True(t, tt.expected.LineTotal.Equal(got.LineTotal), "line total: got %s", got.LineTotal)
		})
	}
}

// Every grid point resolves within eight decimal places, so rounding never
// moves the result away from the closed form.
func TestComputeLineMatchesClosedForm(t *testing.T) {
	prices := []string{"0", "0.01", "9.99", "49.99", "1000"}
	quantities := []string{"0.5", "1", "3", "17"}
	discounts := []string{"0", "12.5", "50", "100"}
	taxes := []string{"0", "5", "18", "100"}

	one := decimal.NewFromInt(1)
	for _, p := range prices {
		for _, q := range quantities {
			for _, disc := range discounts {
				for _, tax := range taxes {
					got, err := ComputeLine(LineInput{
						UnitPrice:       d(p),
						Quantity:        d(q),
						DiscountPercent: d(disc),
						TaxRatePercent:  d(tax),
					})
					require.NoError(t, err)

					discounted := decimal.Max(decimal.Zero, d(p).Mul(d(q)).Mul(one.Sub(d(disc).Div(hundred))))
					expected := discounted.Mul(one.Add(d(tax).Div(hundred)))

					assert.True(t, expected.Equal(got.LineTotal),
						"price=%s qty=%s disc=%s tax=%s: expected %s got %s", p, q, disc, tax, expected, got.LineTotal)
					assert.False(t, got.LineTotal.IsNegative())
				}
			}
		}
	}
}

func TestComputeLineRejectsInvalidInput(t *testing.T) {
	valid := LineInput{
		UnitPrice:       d("10"),
		Quantity:        d("1"),
		DiscountPercent: decimal.Zero,
		TaxRatePercent:  decimal.Zero,
	}

	tests := []struct {
		name   string
		mutate func(in *LineInput)
	}{
		{name: "negative price", mutate: func(in *LineInput) { in.UnitPrice = d("-0.01") }},
		{name: "zero quantity", mutate: func(in *LineInput) { in.Quantity = decimal.Zero }},
		{name: "negative quantity", mutate: func(in *LineInput) { in.Quantity = d("-2") }},
		{name: "negative discount", mutate: func(in *LineInput) { in.DiscountPercent = d("-1") }},
		{name: "discount over 100", mutate: func(in *LineInput) { in.DiscountPercent = d("100.01") }},
		{name: "negative tax", mutate: func(in *LineInput) { in.TaxRatePercent = d("-5") }},
		{name: "tax over 100", mutate: func(in *LineInput) { in.TaxRatePercent = d("150") }},
		{name: "price beyond amount scale", mutate: func(in *LineInput) { in.UnitPrice = d("0.000000001") }},
		{name: "quantity beyond amount scale", mutate: func(in *LineInput) { in.Quantity = d("1.123456789") }},
		{name: "discount beyond percent scale", mutate: func(in *LineInput) { in.DiscountPercent = d("12.34567") }},
		{name: "tax beyond percent scale", mutate: func(in *LineInput) { in.TaxRatePercent = d("7.00001") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			got, err := ComputeLine(in)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLineInput))
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
