// Package currency converts between human-entered display amounts and the
// integer minor-unit amounts every other part of the system stores. All
// money past this boundary is int64 cents (or whole units for zero-decimal
// currencies); floats never touch stored amounts.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Conversion errors
var (
	ErrInvalidCurrency = errors.New("unknown currency code")
	ErrNegativeAmount  = errors.New("amount must not be negative")
)

// exponents maps supported ISO 4217 codes to their decimal exponent.
// Zero-decimal currencies follow the processors' own lists: their minor
// unit is the whole unit, so the display multiplier is 1, not 100.
var exponents = map[string]int{
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"NGN": 2,
	"GHS": 2,
	"ZAR": 2,
	"KES": 2,
	"EGP": 2,
	"XOF": 0,
	"XAF": 0,
	"CAD": 2,
	"AUD": 2,
	"NZD": 2,
	"INR": 2,
	"BRL": 2,
	"MXN": 2,
	"SGD": 2,
	"HKD": 2,
	"SEK": 2,
	"NOK": 2,
	"DKK": 2,
	"CHF": 2,
	"PLN": 2,
	"AED": 2,
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
	"PYG": 0,
	"RWF": 0,
	"UGX": 0,
	"TZS": 2,
	"BIF": 0,
	"DJF": 0,
	"GNF": 0,
	"KMF": 0,
	"MGA": 0,
	"VUV": 0,
	"XPF": 0,
}

// Exponent returns the decimal exponent for an ISO currency code.
func Exponent(code string) (int, error) {
	exp, ok := exponents[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return exp, nil
}

// IsSupported reports whether the code is in the currency table.
func IsSupported(code string) bool {
	_, ok := exponents[code]
	return ok
}

// IsZeroDecimal reports whether the currency has no minor unit.
func IsZeroDecimal(code string) (bool, error) {
	exp, err := Exponent(code)
	if err != nil {
		return false, err
	}
	return exp == 0, nil
}

// DisplayAmountToCents converts a non-negative human-entered amount
// (e.g. 12.50) into integer minor units. The multiplier is 10^exponent, so
// JPY 500 stays 500 and USD 12.50 becomes 1250. Fractional minor units are
// rounded half away from zero.
func DisplayAmountToCents(amount decimal.Decimal, code string) (int64, error) {
	exp, err := Exponent(code)
	if err != nil {
		return 0, err
	}
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return amount.Shift(int32(exp)).Round(0).IntPart(), nil
}

// CentsToDisplay converts integer minor units back to a display amount.
func CentsToDisplay(cents int64, code string) (decimal.Decimal, error) {
	exp, err := Exponent(code)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(cents).Shift(-int32(exp)), nil
}

// FormatAmount renders minor units as a human-readable string with the
// currency code, e.g. "NGN 2000.00" or "JPY 500". Used for error messages
// and onboarding copy, not for locale-aware UI formatting.
func FormatAmount(cents int64, code string) string {
	exp, err := Exponent(code)
	if err != nil {
		return fmt.Sprintf("%s %d", code, cents)
	}
	display := decimal.NewFromInt(cents).Shift(-int32(exp))
	return fmt.Sprintf("%s %s", code, display.StringFixed(int32(exp)))
}
