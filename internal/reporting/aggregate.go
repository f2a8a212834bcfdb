// Package reporting aggregates payment rows into the numbers the admin
// dashboard shows. Every function is a pure computation over already
// fetched rows and builds fresh output structures, so concurrent reporting
// requests can share nothing.
//
// The dataset mixes two row shapes: structured rows with gross/fee/net
// columns, and legacy rows written before fee tracking existed that carry
// only a single amount. Both must land in one accurate total with no row
// counted twice and none dropped.
package reporting

import (
	"sort"

	"creator-payments/internal/models"
)

// rowShape classifies how a row contributes to aggregates.
type rowShape int

const (
	// shapeStructured rows contribute gross to volume and fee/net to their
	// sums.
	shapeStructured rowShape = iota
	// shapeLegacy rows contribute their single amount to volume only; the
	// fee was never tracked, which is an accepted accuracy gap, not
	// something to estimate away.
	shapeLegacy
	// shapePartial rows have a gross but lost fee/net in migration. They
	// count toward volume like structured rows, contribute zero fee/net,
	// and are surfaced through the data-quality counter.
	shapePartial
)

func classify(p *models.Payment) rowShape {
	if p.GrossCents == nil {
		return shapeLegacy
	}
	if p.FeeCents == nil || p.NetCents == nil {
		return shapePartial
	}
	return shapeStructured
}

// VolumeContribution is the one place the two row shapes are coalesced:
// gross when present, the legacy amount otherwise. Every volume sum in
// this package goes through it.
func VolumeContribution(p *models.Payment) int64 {
	if p.GrossCents != nil {
		return *p.GrossCents
	}
	return p.AmountCents
}

// Stats is the per-currency aggregate.
type Stats struct {
	TotalVolumeCents    int64 `json:"totalVolumeCents"`
	PlatformFeeCents    int64 `json:"platformFeeCents"`
	CreatorPayoutsCents int64 `json:"creatorPayoutsCents"`
	PaymentCount        int64 `json:"paymentCount"`
}

// Summary is the full aggregation result. The top-level totals sum across
// currency partitions; when more than one currency is present they mix
// units, and IsMultiCurrency tells consumers the rollup must not be
// rendered as a single currency-prefixed number.
type Summary struct {
	ByCurrency map[string]*Stats `json:"byCurrency"`

	TotalVolumeCents    int64 `json:"totalVolumeCents"`
	PlatformFeeCents    int64 `json:"platformFeeCents"`
	CreatorPayoutsCents int64 `json:"creatorPayoutsCents"`
	PaymentCount        int64 `json:"paymentCount"`

	IsMultiCurrency bool     `json:"isMultiCurrency"`
	Currencies      []string `json:"currencies"`

	// PartialRows counts structured rows missing fee/net columns. Non-zero
	// means a migration gap, reported rather than crashed on.
	PartialRows int64 `json:"partialRows"`
}

// AggregateByCurrency partitions rows by currency and reduces each
// partition to Stats. Legacy rows contribute volume via their single
// amount only; structured rows via gross only. A mixed set reconciles to
// one total with nothing double counted and nothing silently ignored.
func AggregateByCurrency(rows []models.Payment) *Summary {
	summary := &Summary{
		ByCurrency: make(map[string]*Stats),
	}

	for i := range rows {
		row := &rows[i]
		stats, ok := summary.ByCurrency[row.Currency]
		if !ok {
			stats = &Stats{}
			summary.ByCurrency[row.Currency] = stats
		}

		stats.TotalVolumeCents += VolumeContribution(row)
		stats.PaymentCount++

		switch classify(row) {
		case shapeStructured:
			stats.PlatformFeeCents += *row.FeeCents
			stats.CreatorPayoutsCents += *row.NetCents
		case shapePartial:
			summary.PartialRows++
		case shapeLegacy:
			// Fee and net were never tracked; contributes zero.
		}
	}

	currencies := make([]string, 0, len(summary.ByCurrency))
	for code, stats := range summary.ByCurrency {
		currencies = append(currencies, code)
		summary.TotalVolumeCents += stats.TotalVolumeCents
		summary.PlatformFeeCents += stats.PlatformFeeCents
		summary.CreatorPayoutsCents += stats.CreatorPayoutsCents
		summary.PaymentCount += stats.PaymentCount
	}
	sort.Strings(currencies)
	summary.Currencies = currencies
	summary.IsMultiCurrency = len(currencies) > 1

	return summary
}
