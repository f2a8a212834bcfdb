package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"creator-payments/internal/models"
	"creator-payments/internal/reporting"
	"creator-payments/internal/repository"
)

// Cache TTLs: short for the live summary, longer for historical series
// that only change when new days complete.
const (
	summaryCacheTTL = time.Minute
	dailyCacheTTL   = 15 * time.Minute
	monthlyCacheTTL = time.Hour
)

// revenueStatuses are the payment states that count toward dashboard
// revenue. Disputed rows stay in until the dispute is lost.
var revenueStatuses = []models.PaymentStatus{
	models.PaymentSucceeded,
	models.PaymentRefunded,
	models.PaymentDisputed,
}

// revenueTypes are the row types that count toward dashboard revenue.
// Payout rows move money the charges already accounted for; summing them
// alongside would double the volume.
var revenueTypes = []models.PaymentType{
	models.PaymentRecurring,
	models.PaymentOneTime,
}

// ReportingService runs the aggregation and bucketing over fetched rows
// and caches results so dashboard refreshes don't rescan the payments
// table. The cache is optional; a nil client just computes every time.
type ReportingService struct {
	repo  repository.PaymentRepositoryInterface
	cache redis.UniversalClient
	tz    *time.Location
	log   *logrus.Entry
}

// NewReportingService creates a new reporting service
func NewReportingService(repo repository.PaymentRepositoryInterface, cache redis.UniversalClient, tz *time.Location, logger *logrus.Logger) *ReportingService {
	return &ReportingService{
		repo:  repo,
		cache: cache,
		tz:    tz,
		log:   logger.WithField("component", "reporting_service"),
	}
}

// SummaryFilter narrows which payments a summary covers.
type SummaryFilter struct {
	CreatorID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// Summary aggregates matching payments per currency plus the flagged
// mixed-currency rollup.
func (s *ReportingService) Summary(ctx context.Context, filter SummaryFilter) (*reporting.Summary, error) {
	key := summaryCacheKey(filter)
	var cached reporting.Summary
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.ListPayments(ctx, repository.PaymentFilter{
		CreatorID: filter.CreatorID,
		Statuses:  revenueStatuses,
		Types:     revenueTypes,
		From:      filter.From,
		To:        filter.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	summary := reporting.AggregateByCurrency(rows)
	if summary.PartialRows > 0 {
		s.log.WithField("partialRows", summary.PartialRows).Warn("partially migrated payment rows in aggregation")
	}

	s.cacheSet(ctx, key, summary, summaryCacheTTL)
	return summary, nil
}

// DailySeries returns the gap-filled daily trend between start and end in
// the business timezone.
func (s *ReportingService) DailySeries(ctx context.Context, creatorID *uuid.UUID, start, end time.Time) ([]reporting.Bucket, error) {
	return s.series(ctx, creatorID, start, end, "daily", dailyCacheTTL, reporting.BucketDaily)
}

// MonthlySeries returns the gap-filled monthly trend between start and end
// in the business timezone.
func (s *ReportingService) MonthlySeries(ctx context.Context, creatorID *uuid.UUID, start, end time.Time) ([]reporting.Bucket, error) {
	return s.series(ctx, creatorID, start, end, "monthly", monthlyCacheTTL, reporting.BucketMonthly)
}

func (s *ReportingService) series(ctx context.Context, creatorID *uuid.UUID, start, end time.Time, granularity string, ttl time.Duration, bucket func([]models.Payment, time.Time, time.Time, *time.Location) []reporting.Bucket) ([]reporting.Bucket, error) {
	key := seriesCacheKey(granularity, creatorID, start, end)
	var cached []reporting.Bucket
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	// Widen the fetch window by a day on each side so rows whose UTC
	// timestamp falls outside the range but whose business-timezone day is
	// inside it are not lost.
	from := start.Add(-24 * time.Hour)
	to := end.Add(24 * time.Hour)
	rows, err := s.repo.ListPayments(ctx, repository.PaymentFilter{
		CreatorID: creatorID,
		Statuses:  revenueStatuses,
		Types:     revenueTypes,
		From:      &from,
		To:        &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	buckets := bucket(rows, start, end, s.tz)
	s.cacheSet(ctx, key, buckets, ttl)
	return buckets, nil
}

func (s *ReportingService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.WithField("key", key).WithError(err).Warn("dropping corrupt cache entry")
		s.cache.Del(ctx, key)
		return false
	}
	return true
}

func (s *ReportingService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl).Err(); err != nil {
		s.log.WithField("key", key).WithError(err).Warn("cache write failed")
	}
}

func summaryCacheKey(filter SummaryFilter) string {
	creator := "all"
	if filter.CreatorID != nil {
		creator = filter.CreatorID.String()
	}
	from, to := "-", "-"
	if filter.From != nil {
		from = filter.From.UTC().Format(time.RFC3339)
	}
	if filter.To != nil {
		to = filter.To.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("reports:summary:%s:%s:%s", creator, from, to)
}

func seriesCacheKey(granularity string, creatorID *uuid.UUID, start, end time.Time) string {
	creator := "all"
	if creatorID != nil {
		creator = creatorID.String()
	}
	return fmt.Sprintf("reports:%s:%s:%d:%d", granularity, creator, start.Unix(), end.Unix())
}
