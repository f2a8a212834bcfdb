// Package fees holds the platform's fee schedule and the fee-split
// calculator. Everything here is a pure function over explicit inputs; no
// package-level state is ever mutated, so all of it is safe to call from
// concurrent requests.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"creator-payments/internal/currency"
	"creator-payments/internal/models"
)

// ScheduleInput identifies the creator classification a schedule is
// computed for.
type ScheduleInput struct {
	Purpose     models.Purpose
	CountryCode string
	Currency    string
	Provider    models.PaymentProvider
}

// Schedule is the resolved fee schedule for one creator classification.
type Schedule struct {
	CrossBorder bool

	// PlatformFeePercent is the total platform take, e.g. 9 or 10.5.
	// SplitPercent is half of it: the subscriber-side and creator-side
	// shares of the symmetric split model.
	PlatformFeePercent decimal.Decimal
	SplitPercent       decimal.Decimal

	// Provider cost inputs for the minimum-amount formula.
	ProcessingFeePercent decimal.Decimal
	ProcessingFixedCents int64
	PayoutFixedCents     int64
}

// platformPercents holds the platform take for one purpose class.
type platformPercents struct {
	Domestic    decimal.Decimal
	CrossBorder decimal.Decimal
}

// providerVariable holds a processor's variable card-processing rate.
type providerVariable struct {
	Domestic    decimal.Decimal
	CrossBorder decimal.Decimal
}

// fixedCosts holds per-transaction fixed provider costs in minor units.
type fixedCosts struct {
	ProcessingCents int64
	PayoutCents     int64
}

// Rates is the full rate configuration. Callers normally use DefaultRates;
// it exists as a value so tests and config overrides never mutate shared
// state.
type Rates struct {
	Platform map[models.Purpose]platformPercents
	Provider map[models.PaymentProvider]providerVariable
	Fixed    map[string]fixedCosts
}

// crossBorderCountries lists payout countries that require currency
// conversion from the processing currency. Classification is membership in
// this set, nothing else.
var crossBorderCountries = map[string]struct{}{
	"GH": {}, "KE": {}, "ZA": {}, "EG": {}, "CI": {}, "SN": {},
	"CM": {}, "RW": {}, "TZ": {}, "UG": {}, "ZM": {}, "MW": {},
	"ET": {}, "BJ": {}, "TG": {}, "BF": {}, "ML": {},
}

// defaultFixedCosts applies to currencies without an explicit entry in the
// fixed-cost table. Values are minor units, so they are intentionally
// conservative for zero-decimal currencies.
var defaultFixedCosts = fixedCosts{ProcessingCents: 50, PayoutCents: 100}

// DefaultRates returns the current production rate configuration:
// 9% platform fee domestic, 10.5% cross-border, split evenly between the
// subscriber-side and creator-side shares. Both purpose classes resolve to
// the same percentages today; divergence is a data change here, not a code
// change anywhere else.
func DefaultRates() Rates {
	base := platformPercents{
		Domestic:    decimal.NewFromInt(9),
		CrossBorder: decimal.RequireFromString("10.5"),
	}
	return Rates{
		Platform: map[models.Purpose]platformPercents{
			models.PurposePersonal: base,
			models.PurposeService:  base,
		},
		Provider: map[models.PaymentProvider]providerVariable{
			models.ProviderStripe: {
				Domestic:    decimal.RequireFromString("2.9"),
				CrossBorder: decimal.RequireFromString("3.9"),
			},
			models.ProviderPaystack: {
				Domestic:    decimal.RequireFromString("1.5"),
				CrossBorder: decimal.RequireFromString("3.9"),
			},
		},
		Fixed: map[string]fixedCosts{
			"USD": {ProcessingCents: 30, PayoutCents: 25},
			"EUR": {ProcessingCents: 25, PayoutCents: 25},
			"GBP": {ProcessingCents: 20, PayoutCents: 20},
			"CAD": {ProcessingCents: 30, PayoutCents: 25},
			"AUD": {ProcessingCents: 30, PayoutCents: 25},
			"NGN": {ProcessingCents: 10000, PayoutCents: 5000},
			"GHS": {ProcessingCents: 100, PayoutCents: 100},
			"ZAR": {ProcessingCents: 300, PayoutCents: 300},
			"KES": {ProcessingCents: 2000, PayoutCents: 2000},
			"JPY": {ProcessingCents: 40, PayoutCents: 30},
		},
	}
}

// IsCrossBorderCountry reports whether payouts to the country require
// cross-border card processing.
func IsCrossBorderCountry(countryCode string) bool {
	_, ok := crossBorderCountries[countryCode]
	return ok
}

// ScheduleFor resolves the fee schedule for a creator classification using
// the rate configuration.
func (r Rates) ScheduleFor(in ScheduleInput) (Schedule, error) {
	if !currency.IsSupported(in.Currency) {
		return Schedule{}, fmt.Errorf("%w: %q", currency.ErrInvalidCurrency, in.Currency)
	}

	purpose := in.Purpose
	if purpose == "" {
		purpose = models.PurposePersonal
	}
	platform, ok := r.Platform[purpose]
	if !ok {
		return Schedule{}, fmt.Errorf("no platform rates for purpose %q", purpose)
	}

	provider := in.Provider
	if provider == "" {
		provider = models.ProviderStripe
	}
	variable, ok := r.Provider[provider]
	if !ok {
		return Schedule{}, fmt.Errorf("no provider rates for %q", provider)
	}

	fixed, ok := r.Fixed[in.Currency]
	if !ok {
		fixed = defaultFixedCosts
	}

	crossBorder := IsCrossBorderCountry(in.CountryCode)
	platformPercent := platform.Domestic
	variablePercent := variable.Domestic
	if crossBorder {
		platformPercent = platform.CrossBorder
		variablePercent = variable.CrossBorder
	}

	return Schedule{
		CrossBorder:          crossBorder,
		PlatformFeePercent:   platformPercent,
		SplitPercent:         platformPercent.Div(decimal.NewFromInt(2)),
		ProcessingFeePercent: variablePercent,
		ProcessingFixedCents: fixed.ProcessingCents,
		PayoutFixedCents:     fixed.PayoutCents,
	}, nil
}

// ScheduleFor resolves a schedule from the default rates.
func ScheduleFor(in ScheduleInput) (Schedule, error) {
	return DefaultRates().ScheduleFor(in)
}

// WithPlatformOverrides returns a copy of the rates with the platform
// percentages replaced for every purpose class. Nil overrides keep the
// existing value. The receiver is never mutated.
func (r Rates) WithPlatformOverrides(domestic, crossBorder *decimal.Decimal) Rates {
	if domestic == nil && crossBorder == nil {
		return r
	}
	platform := make(map[models.Purpose]platformPercents, len(r.Platform))
	for purpose, percents := range r.Platform {
		if domestic != nil {
			percents.Domestic = *domestic
		}
		if crossBorder != nil {
			percents.CrossBorder = *crossBorder
		}
		platform[purpose] = percents
	}
	r.Platform = platform
	return r
}

// PlatformFeePercent returns the total platform take for a classification.
func PlatformFeePercent(in ScheduleInput) (decimal.Decimal, error) {
	s, err := ScheduleFor(in)
	if err != nil {
		return decimal.Zero, err
	}
	return s.PlatformFeePercent, nil
}

// ProcessingFeePercent returns the provider's variable processing rate for
// a classification.
func ProcessingFeePercent(in ScheduleInput) (decimal.Decimal, error) {
	s, err := ScheduleFor(in)
	if err != nil {
		return decimal.Zero, err
	}
	return s.ProcessingFeePercent, nil
}
