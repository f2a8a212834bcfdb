package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayAmountToCents(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
	}{
		{"two decimal currency", "12.50", "USD", 1250},
		{"whole amount", "100", "USD", 10000},
		{"zero decimal currency keeps whole units", "500", "JPY", 500},
		{"zero decimal fraction rounds", "500.4", "KRW", 500},
		{"half rounds away from zero", "12.345", "USD", 1235},
		{"half minor unit rounds up", "0.005", "USD", 1},
		{"zero", "0", "NGN", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got, err := DisplayAmountToCents(amount, tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayAmountToCentsRejectsUnknownCurrency(t *testing.T) {
	_, err := DisplayAmountToCents(decimal.NewFromInt(10), "XYZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	// Lowercase codes are not silently accepted either.
	_, err = DisplayAmountToCents(decimal.NewFromInt(10), "usd")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestDisplayAmountToCentsRejectsNegative(t *testing.T) {
	_, err := DisplayAmountToCents(decimal.RequireFromString("-1"), "USD")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestExponent(t *testing.T) {
	exp, err := Exponent("USD")
	require.NoError(t, err)
	assert.Equal(t, 2, exp)

	exp, err = Exponent("JPY")
	require.NoError(t, err)
	assert.Equal(t, 0, exp)

	_, err = Exponent("ZZZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestIsZeroDecimal(t *testing.T) {
	zero, err := IsZeroDecimal("XOF")
	require.NoError(t, err)
	assert.True(t, zero)

	zero, err = IsZeroDecimal("NGN")
	require.NoError(t, err)
	assert.False(t, zero)
}

func TestCentsToDisplay(t *testing.T) {
	display, err := CentsToDisplay(1250, "USD")
	require.NoError(t, err)
	assert.True(t, display.Equal(decimal.RequireFromString("12.5")))

	display, err = CentsToDisplay(500, "JPY")
	require.NoError(t, err)
	assert.True(t, display.Equal(decimal.NewFromInt(500)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "NGN 2000.00", FormatAmount(200000, "NGN"))
	assert.Equal(t, "JPY 500", FormatAmount(500, "JPY"))
	assert.Equal(t, "USD 9.02", FormatAmount(902, "USD"))
}
