package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingModel represents how a creator prices their page
type PricingModel string

const (
	PricingSingle PricingModel = "single"
	PricingTiers  PricingModel = "tiers"
)

// Purpose classifies what a creator uses the platform for
type Purpose string

const (
	PurposePersonal Purpose = "personal"
	PurposeService  Purpose = "service"
)

// FeeMode is kept for rows written while fee modes were configurable.
// New profiles are always FeeModeSplit.
type FeeMode string

const (
	FeeModeSplit FeeMode = "split"
)

// Profile is a creator's public pricing configuration. It is mutated by
// onboarding and settings flows; this service reads it only.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_creator" json:"creatorId"`

	Currency     string       `gorm:"type:varchar(3);not null" json:"currency"`
	PricingModel PricingModel `gorm:"type:varchar(10);not null;default:'single'" json:"pricingModel"`

	// Minor units. SingleAmountCents applies when PricingModel is single.
	SingleAmountCents int64         `gorm:"type:bigint;default:0" json:"singleAmountCents"`
	Tiers             []ProfileTier `gorm:"foreignKey:ProfileID" json:"tiers,omitempty"`

	CountryCode     string          `gorm:"type:varchar(2);not null" json:"countryCode"`
	Purpose         Purpose         `gorm:"type:varchar(20);not null;default:'personal'" json:"purpose"`
	FeeMode         FeeMode         `gorm:"type:varchar(20);not null;default:'split'" json:"feeMode"`
	PaymentProvider PaymentProvider `gorm:"type:varchar(20);not null" json:"paymentProvider"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// ProfileTier is one pricing tier on a tiered profile.
type ProfileTier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index:idx_profile_tiers_profile" json:"profileId"`

	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	AmountCents int64  `gorm:"type:bigint;not null" json:"amountCents"`
	Position    int    `gorm:"default:0" json:"position"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for ProfileTier
func (ProfileTier) TableName() string {
	return "profile_tiers"
}

// SubscriptionStatus represents the subscription lifecycle state
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionPaused   SubscriptionStatus = "paused"
)

// SubscriptionInterval is the recurring billing period
type SubscriptionInterval string

const (
	IntervalMonth SubscriptionInterval = "month"
	IntervalYear  SubscriptionInterval = "year"
)

// Subscription links a subscriber to a creator at a recurring price.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_creator" json:"creatorId"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_subscriber" json:"subscriberId"`

	AmountCents int64                `gorm:"type:bigint;not null" json:"amountCents"`
	Currency    string               `gorm:"type:varchar(3);not null" json:"currency"`
	Interval    SubscriptionInterval `gorm:"type:varchar(10);not null;default:'month'" json:"interval"`

	Status            SubscriptionStatus `gorm:"type:varchar(20);not null;index:idx_subscriptions_status" json:"status"`
	CancelAtPeriodEnd bool               `gorm:"default:false" json:"cancelAtPeriodEnd"`

	// Provider correlation, mirroring Payment.
	StripeSubscriptionID     *string `gorm:"type:varchar(255);uniqueIndex:idx_subscriptions_stripe" json:"stripeSubscriptionId,omitempty"`
	PaystackSubscriptionCode *string `gorm:"type:varchar(255);uniqueIndex:idx_subscriptions_paystack" json:"paystackSubscriptionCode,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}
