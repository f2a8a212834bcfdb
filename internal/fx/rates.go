// Package fx supplies the FX quotes used for the reporting-currency
// snapshot taken at charge time. The snapshot is never recomputed after
// the fact; what rate substitutes for a missing live quote is policy, so
// the source is an interface the caller wires.
package fx

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"creator-payments/internal/currency"
)

// ErrRateUnavailable means no quote exists for the currency pair.
var ErrRateUnavailable = errors.New("fx rate unavailable")

// Quote is an exchange rate for one currency pair. Estimated marks a
// fallback rate rather than a live quote; it propagates onto the payment
// row so historical rollups can show which figures are approximate.
type Quote struct {
	Rate      decimal.Decimal
	Estimated bool
}

// RateSource provides quotes from one currency into another.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (Quote, error)
}

// StaticSource serves a fixed rate table. Every quote it returns is
// flagged estimated, since the table cannot follow the market.
type StaticSource struct {
	rates map[string]decimal.Decimal
}

// NewStaticSource builds a source from a pair table keyed "FROM/TO".
func NewStaticSource(rates map[string]decimal.Decimal) *StaticSource {
	copied := make(map[string]decimal.Decimal, len(rates))
	for pair, rate := range rates {
		copied[pair] = rate
	}
	return &StaticSource{rates: copied}
}

// Rate implements RateSource.
func (s *StaticSource) Rate(_ context.Context, from, to string) (Quote, error) {
	if from == to {
		return Quote{Rate: decimal.NewFromInt(1)}, nil
	}
	rate, ok := s.rates[from+"/"+to]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s/%s", ErrRateUnavailable, from, to)
	}
	return Quote{Rate: rate, Estimated: true}, nil
}

// ConvertCents re-expresses minor units of one currency in minor units of
// another at the given quote, respecting both currencies' decimal
// exponents. Rounds half away from zero.
func ConvertCents(cents int64, from, to string, q Quote) (int64, error) {
	fromExp, err := currency.Exponent(from)
	if err != nil {
		return 0, err
	}
	toExp, err := currency.Exponent(to)
	if err != nil {
		return 0, err
	}
	major := decimal.NewFromInt(cents).Shift(-int32(fromExp))
	return major.Mul(q.Rate).Shift(int32(toExp)).Round(0).IntPart(), nil
}
