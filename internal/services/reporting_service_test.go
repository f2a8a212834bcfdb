package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creator-payments/internal/models"
	"creator-payments/internal/repository"
)

func newTestReportingService(repo repository.PaymentRepositoryInterface, tz *time.Location) *ReportingService {
	return NewReportingService(repo, nil, tz, testLogger())
}

func TestSummaryAggregatesFetchedRows(t *testing.T) {
	repo := new(MockPaymentRepository)
	svc := newTestReportingService(repo, time.UTC)

	rows := []models.Payment{
		{
			Currency:    "USD",
			Status:      models.PaymentSucceeded,
			GrossCents:  ptrI64(1000),
			FeeCents:    ptrI64(90),
			NetCents:    ptrI64(910),
			AmountCents: 1000,
		},
		{
			Currency:    "USD",
			Status:      models.PaymentSucceeded,
			AmountCents: 500,
		},
	}
	repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f repository.PaymentFilter) bool {
		// Only revenue states count, and payout rows stay out entirely: the
		// charges that funded them are already in the totals.
		for _, typ := range f.Types {
			if typ == models.PaymentPayout {
				return false
			}
		}
		return len(f.Statuses) == 3 && len(f.Types) == 2 && f.CreatorID == nil
	})).Return(rows, nil)

	summary, err := svc.Summary(context.Background(), SummaryFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(1500), summary.TotalVolumeCents)
	assert.Equal(t, int64(90), summary.PlatformFeeCents)
	assert.Equal(t, int64(910), summary.CreatorPayoutsCents)
	assert.Equal(t, int64(2), summary.PaymentCount)
	assert.False(t, summary.IsMultiCurrency)
}

func TestSummaryScopesToCreator(t *testing.T) {
	repo := new(MockPaymentRepository)
	svc := newTestReportingService(repo, time.UTC)

	creatorID := uuid.New()
	repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f repository.PaymentFilter) bool {
		return f.CreatorID != nil && *f.CreatorID == creatorID
	})).Return([]models.Payment{}, nil)

	summary, err := svc.Summary(context.Background(), SummaryFilter{CreatorID: &creatorID})
	require.NoError(t, err)
	assert.Zero(t, summary.PaymentCount)
	repo.AssertExpectations(t)
}

func TestDailySeriesWidensFetchWindow(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	repo := new(MockPaymentRepository)
	svc := newTestReportingService(repo, lagos)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, lagos)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, lagos)

	// A charge late on Jan 1 UTC lands on Jan 2 in Lagos. The fetch window
	// is widened a day on each side so the row is not lost at the edge.
	rows := []models.Payment{
		{
			Currency:    "USD",
			Status:      models.PaymentSucceeded,
			GrossCents:  ptrI64(1000),
			FeeCents:    ptrI64(90),
			NetCents:    ptrI64(910),
			AmountCents: 1000,
			OccurredAt:  time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC),
		},
	}
	repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f repository.PaymentFilter) bool {
		return f.From != nil && f.From.Before(start) && f.To != nil && f.To.After(end)
	})).Return(rows, nil)

	buckets, err := svc.DailySeries(context.Background(), nil, start, end)
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-01-01", buckets[0].Period)
	assert.Zero(t, buckets[0].Count)
	assert.Equal(t, "2024-01-02", buckets[1].Period)
	assert.Equal(t, int64(1000), buckets[1].VolumeCents)
	assert.Equal(t, int64(1), buckets[1].Count)
}

func TestMonthlySeries(t *testing.T) {
	repo := new(MockPaymentRepository)
	svc := newTestReportingService(repo, time.UTC)

	rows := []models.Payment{
		{
			Currency:    "USD",
			Status:      models.PaymentSucceeded,
			GrossCents:  ptrI64(2000),
			FeeCents:    ptrI64(180),
			NetCents:    ptrI64(1820),
			AmountCents: 2000,
			OccurredAt:  time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
		},
	}
	repo.On("ListPayments", mock.Anything, mock.Anything).Return(rows, nil)

	buckets, err := svc.MonthlySeries(context.Background(), nil,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-01", buckets[0].Period)
	assert.Zero(t, buckets[0].Count)
	assert.Equal(t, "2024-02", buckets[1].Period)
	assert.Equal(t, int64(2000), buckets[1].VolumeCents)
	assert.Equal(t, "2024-03", buckets[2].Period)
	assert.Zero(t, buckets[2].Count)
}
