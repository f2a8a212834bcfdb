package fees

import (
	"creator-payments/internal/currency"

	"github.com/shopspring/decimal"
)

// MinimumCheck is the result of a per-currency floor validation.
type MinimumCheck struct {
	Valid          bool   `json:"valid"`
	MinimumCents   int64  `json:"minimumCents"`
	MinimumDisplay string `json:"minimumDisplay"`
}

// MinimumForCosts is the minimum-amount design contract:
//
//	minimum = (processingFixed + payoutFixed) / (platformFeeRate - providerVariableRate)
//
// At this transaction size the platform fee exactly covers the provider's
// fixed per-transaction costs on top of its variable rate; below it the
// platform nets negative. Rounded up to the next minor unit.
func MinimumForCosts(processingFixedCents, payoutFixedCents int64, platformFeePercent, providerVariablePercent decimal.Decimal) int64 {
	margin := platformFeePercent.Sub(providerVariablePercent)
	if !margin.IsPositive() {
		// Fee rate does not clear the provider's variable rate; no finite
		// minimum exists. Misconfigured rates, surfaced as an impossible
		// floor rather than a panic in a request path.
		return int64(^uint64(0) >> 1)
	}
	fixed := decimal.NewFromInt(processingFixedCents + payoutFixedCents)
	return fixed.Div(margin.Div(decimal.NewFromInt(100))).Ceil().IntPart()
}

// MinimumCents returns the schedule's per-currency floor.
func (s Schedule) MinimumCents() int64 {
	return MinimumForCosts(s.ProcessingFixedCents, s.PayoutFixedCents, s.PlatformFeePercent, s.ProcessingFeePercent)
}

// DynamicMinimum resolves the floor for a creator classification.
func (r Rates) DynamicMinimum(in ScheduleInput) (int64, error) {
	s, err := r.ScheduleFor(in)
	if err != nil {
		return 0, err
	}
	return s.MinimumCents(), nil
}

// DynamicMinimum resolves the floor from the default rates.
func DynamicMinimum(in ScheduleInput) (int64, error) {
	return DefaultRates().DynamicMinimum(in)
}

// ValidateMinimumAmount checks an amount against the per-currency floor.
// Amounts below the floor come back Valid=false with a display string for
// the error message; they are never clamped upward. An amount exactly at
// the floor is valid.
func (r Rates) ValidateMinimumAmount(amountCents int64, in ScheduleInput) (MinimumCheck, error) {
	minimum, err := r.DynamicMinimum(in)
	if err != nil {
		return MinimumCheck{}, err
	}
	return MinimumCheck{
		Valid:          amountCents >= minimum,
		MinimumCents:   minimum,
		MinimumDisplay: currency.FormatAmount(minimum, in.Currency),
	}, nil
}

// ValidateMinimumAmount checks an amount against the default-rate floor.
func ValidateMinimumAmount(amountCents int64, in ScheduleInput) (MinimumCheck, error) {
	return DefaultRates().ValidateMinimumAmount(amountCents, in)
}
