package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-payments/internal/currency"
	"creator-payments/internal/models"
)

func TestIsCrossBorderCountry(t *testing.T) {
	assert.True(t, IsCrossBorderCountry("GH"))
	assert.True(t, IsCrossBorderCountry("KE"))
	assert.False(t, IsCrossBorderCountry("NG"))
	assert.False(t, IsCrossBorderCountry("US"))
	assert.False(t, IsCrossBorderCountry(""))
}

func TestScheduleFor(t *testing.T) {
	tests := []struct {
		name             string
		in               ScheduleInput
		wantCrossBorder  bool
		wantPlatform     string
		wantSplit        string
		wantProcessing   string
		wantFixedCents   int64
	}{
		{
			name:            "domestic stripe USD",
			in:              ScheduleInput{Purpose: models.PurposePersonal, CountryCode: "US", Currency: "USD", Provider: models.ProviderStripe},
			wantCrossBorder: false,
			wantPlatform:    "9",
			wantSplit:       "4.5",
			wantProcessing:  "2.9",
			wantFixedCents:  30,
		},
		{
			name:            "domestic paystack NGN",
			in:              ScheduleInput{Purpose: models.PurposeService, CountryCode: "NG", Currency: "NGN", Provider: models.ProviderPaystack},
			wantCrossBorder: false,
			wantPlatform:    "9",
			wantSplit:       "4.5",
			wantProcessing:  "1.5",
			wantFixedCents:  10000,
		},
		{
			name:            "cross-border paystack GHS",
			in:              ScheduleInput{Purpose: models.PurposePersonal, CountryCode: "GH", Currency: "GHS", Provider: models.ProviderPaystack},
			wantCrossBorder: true,
			wantPlatform:    "10.5",
			wantSplit:       "5.25",
			wantProcessing:  "3.9",
			wantFixedCents:  100,
		},
		{
			name:            "cross-border stripe ZAR",
			in:              ScheduleInput{Purpose: models.PurposePersonal, CountryCode: "ZA", Currency: "ZAR", Provider: models.ProviderStripe},
			wantCrossBorder: true,
			wantPlatform:    "10.5",
			wantSplit:       "5.25",
			wantProcessing:  "3.9",
			wantFixedCents:  300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ScheduleFor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCrossBorder, s.CrossBorder)
			assert.True(t, s.PlatformFeePercent.Equal(decimal.RequireFromString(tt.wantPlatform)))
			assert.True(t, s.SplitPercent.Equal(decimal.RequireFromString(tt.wantSplit)))
			assert.True(t, s.ProcessingFeePercent.Equal(decimal.RequireFromString(tt.wantProcessing)))
			assert.Equal(t, tt.wantFixedCents, s.ProcessingFixedCents)
		})
	}
}

func TestScheduleForDefaults(t *testing.T) {
	// Empty purpose and provider fall back to personal/stripe rather than
	// erroring; legacy rows predate both columns.
	s, err := ScheduleFor(ScheduleInput{CountryCode: "US", Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, s.PlatformFeePercent.Equal(decimal.NewFromInt(9)))
	assert.True(t, s.ProcessingFeePercent.Equal(decimal.RequireFromString("2.9")))
}

func TestScheduleForUnsupportedCurrency(t *testing.T) {
	_, err := ScheduleFor(ScheduleInput{CountryCode: "US", Currency: "XYZ"})
	assert.ErrorIs(t, err, currency.ErrInvalidCurrency)
}

func TestScheduleForUnknownCurrencyFixedCosts(t *testing.T) {
	// Supported currency without an explicit fixed-cost entry uses the
	// conservative default.
	s, err := ScheduleFor(ScheduleInput{CountryCode: "US", Currency: "SEK"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), s.ProcessingFixedCents)
	assert.Equal(t, int64(100), s.PayoutFixedCents)
}

func TestWithPlatformOverrides(t *testing.T) {
	domestic := decimal.NewFromInt(8)
	crossBorder := decimal.NewFromInt(12)

	base := DefaultRates()
	overridden := base.WithPlatformOverrides(&domestic, &crossBorder)

	s, err := overridden.ScheduleFor(ScheduleInput{CountryCode: "US", Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, s.PlatformFeePercent.Equal(decimal.NewFromInt(8)))

	s, err = overridden.ScheduleFor(ScheduleInput{CountryCode: "GH", Currency: "GHS"})
	require.NoError(t, err)
	assert.True(t, s.PlatformFeePercent.Equal(decimal.NewFromInt(12)))

	// The base rates are untouched.
	s, err = base.ScheduleFor(ScheduleInput{CountryCode: "US", Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, s.PlatformFeePercent.Equal(decimal.NewFromInt(9)))
}

func TestMinimumForCosts(t *testing.T) {
	// 55 cents fixed against a 6.1 point margin: 55/0.061 rounds up to 902.
	got := MinimumForCosts(30, 25, decimal.NewFromInt(9), decimal.RequireFromString("2.9"))
	assert.Equal(t, int64(902), got)

	// Exact division stays exact: 15000/0.075 = 200000.
	got = MinimumForCosts(10000, 5000, decimal.NewFromInt(9), decimal.RequireFromString("1.5"))
	assert.Equal(t, int64(200000), got)

	// Cross-border margin 6.6: 200/0.066 rounds up to 3031.
	got = MinimumForCosts(100, 100, decimal.RequireFromString("10.5"), decimal.RequireFromString("3.9"))
	assert.Equal(t, int64(3031), got)
}

func TestMinimumForCostsNonPositiveMargin(t *testing.T) {
	maxInt64 := int64(^uint64(0) >> 1)
	got := MinimumForCosts(30, 25, decimal.NewFromInt(3), decimal.RequireFromString("3.9"))
	assert.Equal(t, maxInt64, got)

	got = MinimumForCosts(30, 25, decimal.NewFromInt(3), decimal.NewFromInt(3))
	assert.Equal(t, maxInt64, got)
}

func TestValidateMinimumAmount(t *testing.T) {
	in := ScheduleInput{CountryCode: "NG", Currency: "NGN", Provider: models.ProviderPaystack}

	// Exactly at the floor is valid.
	check, err := ValidateMinimumAmount(200000, in)
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, int64(200000), check.MinimumCents)

	// One minor unit below is not, and the display string is ready for an
	// error message.
	check, err = ValidateMinimumAmount(199999, in)
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, int64(200000), check.MinimumCents)
	assert.Equal(t, "NGN 2000.00", check.MinimumDisplay)
}
