package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Split is the priced triple for one charge. FeeCents + NetCents ==
// GrossCents always holds, by construction.
type Split struct {
	GrossCents int64 `json:"grossCents"`
	FeeCents   int64 `json:"feeCents"`
	NetCents   int64 `json:"netCents"`
}

// SplitPayment is the single source of truth for splitting money. The fee
// is the gross times the rate, rounded half away from zero to the nearest
// minor unit; the net is the remainder, never computed independently, so
// the triple balances exactly regardless of rounding.
//
// Zero-decimal currencies need no special casing here: "cents" are
// whatever the currency's minor unit is.
//
// An unbalanced result is money-accounting corruption, not a bad input,
// and panics rather than letting a wrong row persist.
func SplitPayment(grossCents int64, feeRatePercent decimal.Decimal) Split {
	gross := decimal.NewFromInt(grossCents)
	feeCents := gross.Mul(feeRatePercent).Div(decimal.NewFromInt(100)).Round(0).IntPart()
	netCents := grossCents - feeCents

	if feeCents+netCents != grossCents {
		panic(fmt.Sprintf("fees: unbalanced split: gross=%d fee=%d net=%d rate=%s",
			grossCents, feeCents, netCents, feeRatePercent))
	}

	return Split{
		GrossCents: grossCents,
		FeeCents:   feeCents,
		NetCents:   netCents,
	}
}
