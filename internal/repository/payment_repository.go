package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-payments/internal/models"
)

// PaymentRepositoryInterface abstracts payment storage for services and
// tests.
type PaymentRepositoryInterface interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetPaymentByProviderRef(ctx context.Context, provider models.PaymentProvider, ref string) (*models.Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error
	RecordRefund(ctx context.Context, id uuid.UUID, refundedCents int64, status models.PaymentStatus) error

	GetProfileByCreator(ctx context.Context, creatorID uuid.UUID) (*models.Profile, error)
	GetSubscriptionByProviderRef(ctx context.Context, provider models.PaymentProvider, ref string) (*models.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) error
}

// PaymentFilter narrows ListPayments. Callers are expected to bound their
// queries (date range, limit) before handing rows to the aggregator; the
// aggregator itself does not paginate.
type PaymentFilter struct {
	CreatorID *uuid.UUID
	Statuses  []models.PaymentStatus
	Types     []models.PaymentType
	From      *time.Time
	To        *time.Time
	Limit     int
}

// PaymentRepository is the gorm-backed implementation.
type PaymentRepository struct {
	db *gorm.DB
}

var _ PaymentRepositoryInterface = (*PaymentRepository)(nil)

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePayment inserts a new payment row.
func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetPaymentByID fetches a payment by ID.
func (r *PaymentRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentByProviderRef fetches a payment by its provider correlation
// reference. Webhook handlers use this for idempotent intake.
func (r *PaymentRepository) GetPaymentByProviderRef(ctx context.Context, provider models.PaymentProvider, ref string) (*models.Payment, error) {
	query := r.db.WithContext(ctx)
	switch provider {
	case models.ProviderStripe:
		query = query.Where("stripe_payment_intent_id = ?", ref)
	case models.ProviderPaystack:
		query = query.Where("paystack_transaction_ref = ? OR paystack_transfer_code = ?", ref, ref)
	default:
		return nil, models.ErrUnknownProvider
	}

	var payment models.Payment
	err := query.First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments fetches rows matching the filter, ordered by occurrence.
func (r *PaymentRepository) ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{})

	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var payments []models.Payment
	if err := query.Order("occurred_at ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdatePaymentStatus transitions a payment's status. Amounts are
// append-only and never touched here.
func (r *PaymentRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// RecordRefund sets the accumulated refunded amount and the resulting
// status. The original gross/fee/net split stays as charged.
func (r *PaymentRepository) RecordRefund(ctx context.Context, id uuid.UUID, refundedCents int64, status models.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"refunded_amount_cents": refundedCents,
			"status":                status,
			"updated_at":            time.Now(),
		}).Error
}

// GetProfileByCreator fetches a creator's pricing profile with tiers.
func (r *PaymentRepository) GetProfileByCreator(ctx context.Context, creatorID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Preload("Tiers").First(&profile, "creator_id = ?", creatorID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetSubscriptionByProviderRef fetches a subscription by its provider
// correlation reference.
func (r *PaymentRepository) GetSubscriptionByProviderRef(ctx context.Context, provider models.PaymentProvider, ref string) (*models.Subscription, error) {
	query := r.db.WithContext(ctx)
	switch provider {
	case models.ProviderStripe:
		query = query.Where("stripe_subscription_id = ?", ref)
	case models.ProviderPaystack:
		query = query.Where("paystack_subscription_code = ?", ref)
	default:
		return nil, models.ErrUnknownProvider
	}

	var sub models.Subscription
	if err := query.First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateSubscriptionStatus transitions a subscription's status.
func (r *PaymentRepository) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
