package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Payment model errors
var (
	ErrUnknownProvider     = errors.New("payment has no provider correlation reference")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidTransition   = errors.New("invalid payment status transition")
	ErrRefundExceedsCharge = errors.New("refund amount exceeds charged amount")
)

// PaymentProvider identifies which processor handled a payment
type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "stripe"
	ProviderPaystack PaymentProvider = "paystack"
)

// PaymentStatus represents the payment lifecycle state
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentSucceeded   PaymentStatus = "succeeded"
	PaymentFailed      PaymentStatus = "failed"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentDisputed    PaymentStatus = "disputed"
	PaymentDisputeLost PaymentStatus = "dispute_lost"
)

// PaymentType represents what kind of money movement a row records
type PaymentType string

const (
	PaymentRecurring PaymentType = "recurring"
	PaymentOneTime   PaymentType = "one_time"
	PaymentPayout    PaymentType = "payout"
)

// Payment is an append-only financial record. Rows are created once at
// charge time and only ever transition status afterwards; amounts are
// immutable. Structured rows carry GrossCents/FeeCents/NetCents; rows
// written before fee tracking existed carry only AmountCents.
type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatorID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_payments_creator" json:"creatorId"`
	SubscriberID   *uuid.UUID `gorm:"type:uuid;index:idx_payments_subscriber" json:"subscriberId,omitempty"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index:idx_payments_subscription" json:"subscriptionId,omitempty"`

	Currency string        `gorm:"type:varchar(3);not null" json:"currency"`
	Status   PaymentStatus `gorm:"type:varchar(20);not null;index:idx_payments_status" json:"status"`
	Type     PaymentType   `gorm:"type:varchar(20);not null" json:"type"`

	// Structured amounts, minor units. Null on legacy rows. When all three
	// are set, GrossCents == FeeCents + NetCents holds.
	GrossCents *int64 `gorm:"type:bigint" json:"grossCents,omitempty"`
	FeeCents   *int64 `gorm:"type:bigint" json:"feeCents,omitempty"`
	NetCents   *int64 `gorm:"type:bigint" json:"netCents,omitempty"`

	// Legacy single-amount column, always present. Equals the gross amount
	// on legacy rows; on structured rows it holds the listed (pre-fee)
	// price and must never be summed alongside GrossCents.
	AmountCents int64 `gorm:"type:bigint;not null" json:"amountCents"`

	// Partial refunds accumulate here; the original split is never altered.
	RefundedAmountCents int64 `gorm:"type:bigint;not null;default:0" json:"refundedAmountCents"`

	// Reporting-currency snapshot taken at charge time with the FX rate in
	// effect then. Never recomputed.
	ReportingCurrency    string `gorm:"type:varchar(3)" json:"reportingCurrency,omitempty"`
	ReportingGrossCents  *int64 `gorm:"type:bigint" json:"reportingGrossCents,omitempty"`
	ReportingFeeCents    *int64 `gorm:"type:bigint" json:"reportingFeeCents,omitempty"`
	ReportingNetCents    *int64 `gorm:"type:bigint" json:"reportingNetCents,omitempty"`
	ReportingIsEstimated bool   `gorm:"default:false" json:"reportingIsEstimated"`

	// Provider correlation. Exactly one of these is set.
	StripePaymentIntentID  *string `gorm:"type:varchar(255);uniqueIndex:idx_payments_stripe_pi" json:"stripePaymentIntentId,omitempty"`
	PaystackTransactionRef *string `gorm:"type:varchar(255);uniqueIndex:idx_payments_paystack_ref" json:"paystackTransactionRef,omitempty"`
	PaystackTransferCode   *string `gorm:"type:varchar(255);uniqueIndex:idx_payments_paystack_transfer" json:"paystackTransferCode,omitempty"`

	// OccurredAt drives all time-window bucketing. It can differ from
	// CreatedAt for retried or backfilled rows.
	OccurredAt time.Time `gorm:"not null;index:idx_payments_occurred" json:"occurredAt"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// IsLegacy reports whether the row predates structured fee columns.
func (p *Payment) IsLegacy() bool {
	return p.GrossCents == nil
}

// Provider returns which processor the row correlates to.
func (p *Payment) Provider() (PaymentProvider, error) {
	switch {
	case p.StripePaymentIntentID != nil:
		return ProviderStripe, nil
	case p.PaystackTransactionRef != nil, p.PaystackTransferCode != nil:
		return ProviderPaystack, nil
	}
	return "", ErrUnknownProvider
}

// ProviderReference returns the correlation ID for the row's provider.
func (p *Payment) ProviderReference() string {
	switch {
	case p.StripePaymentIntentID != nil:
		return *p.StripePaymentIntentID
	case p.PaystackTransactionRef != nil:
		return *p.PaystackTransactionRef
	case p.PaystackTransferCode != nil:
		return *p.PaystackTransferCode
	}
	return ""
}
