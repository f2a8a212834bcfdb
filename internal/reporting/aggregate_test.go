package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-payments/internal/models"
)

func i64(v int64) *int64 { return &v }

func structuredRow(currency string, gross, fee, net int64) models.Payment {
	return models.Payment{
		Currency:    currency,
		AmountCents: gross,
		GrossCents:  i64(gross),
		FeeCents:    i64(fee),
		NetCents:    i64(net),
	}
}

func legacyRow(currency string, amount int64) models.Payment {
	return models.Payment{
		Currency:    currency,
		AmountCents: amount,
	}
}

func TestAggregateMixedShapes(t *testing.T) {
	rows := []models.Payment{
		structuredRow("USD", 1000, 90, 910),
		legacyRow("USD", 500),
	}

	summary := AggregateByCurrency(rows)

	require.Contains(t, summary.ByCurrency, "USD")
	usd := summary.ByCurrency["USD"]
	assert.Equal(t, int64(1500), usd.TotalVolumeCents)
	assert.Equal(t, int64(90), usd.PlatformFeeCents)
	assert.Equal(t, int64(910), usd.CreatorPayoutsCents)
	assert.Equal(t, int64(2), usd.PaymentCount)

	assert.Equal(t, int64(1500), summary.TotalVolumeCents)
	assert.Equal(t, int64(90), summary.PlatformFeeCents)
	assert.Equal(t, int64(910), summary.CreatorPayoutsCents)
	assert.Equal(t, int64(2), summary.PaymentCount)
	assert.False(t, summary.IsMultiCurrency)
	assert.Equal(t, []string{"USD"}, summary.Currencies)
	assert.Zero(t, summary.PartialRows)
}

func TestAggregateNoDoubleCounting(t *testing.T) {
	// A structured row's AmountCents mirrors its gross; only one of the two
	// may reach the volume total.
	rows := []models.Payment{structuredRow("USD", 1000, 90, 910)}

	summary := AggregateByCurrency(rows)
	assert.Equal(t, int64(1000), summary.TotalVolumeCents)
	assert.Equal(t, int64(1), summary.PaymentCount)
}

func TestAggregateMultiCurrency(t *testing.T) {
	rows := []models.Payment{
		structuredRow("USD", 1000, 90, 910),
		structuredRow("NGN", 500000, 45000, 455000),
		legacyRow("NGN", 100000),
	}

	summary := AggregateByCurrency(rows)

	assert.True(t, summary.IsMultiCurrency)
	assert.Equal(t, []string{"NGN", "USD"}, summary.Currencies)

	assert.Equal(t, int64(1000), summary.ByCurrency["USD"].TotalVolumeCents)
	assert.Equal(t, int64(600000), summary.ByCurrency["NGN"].TotalVolumeCents)
	assert.Equal(t, int64(45000), summary.ByCurrency["NGN"].PlatformFeeCents)

	// Rollup totals still sum across partitions; IsMultiCurrency is what
	// tells the dashboard they mix units.
	assert.Equal(t, int64(601000), summary.TotalVolumeCents)
	assert.Equal(t, int64(3), summary.PaymentCount)
}

func TestAggregatePartialRows(t *testing.T) {
	partial := models.Payment{
		Currency:    "USD",
		AmountCents: 2000,
		GrossCents:  i64(2000),
	}
	rows := []models.Payment{
		structuredRow("USD", 1000, 90, 910),
		partial,
	}

	summary := AggregateByCurrency(rows)

	usd := summary.ByCurrency["USD"]
	assert.Equal(t, int64(3000), usd.TotalVolumeCents)
	assert.Equal(t, int64(90), usd.PlatformFeeCents)
	assert.Equal(t, int64(910), usd.CreatorPayoutsCents)
	assert.Equal(t, int64(2), usd.PaymentCount)
	assert.Equal(t, int64(1), summary.PartialRows)
}

func TestAggregateEmpty(t *testing.T) {
	summary := AggregateByCurrency(nil)

	assert.Empty(t, summary.ByCurrency)
	assert.Zero(t, summary.TotalVolumeCents)
	assert.Zero(t, summary.PaymentCount)
	assert.False(t, summary.IsMultiCurrency)
	assert.Empty(t, summary.Currencies)
}

func TestVolumeContribution(t *testing.T) {
	structured := structuredRow("USD", 1000, 90, 910)
	assert.Equal(t, int64(1000), VolumeContribution(&structured))

	legacy := legacyRow("USD", 500)
	assert.Equal(t, int64(500), VolumeContribution(&legacy))
}
