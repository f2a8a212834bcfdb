package gateway

import (
	"context"
	"errors"
	"time"

	"creator-payments/internal/models"
)

// Gateway errors
var (
	ErrInvalidSignature   = errors.New("webhook signature verification failed")
	ErrUnsupportedEvent   = errors.New("event type not handled")
	ErrGatewayUnavailable = errors.New("no gateway configured for provider")
)

// EventKind classifies a provider webhook event after parsing.
type EventKind string

const (
	EventChargeSucceeded EventKind = "charge_succeeded"
	EventChargeFailed    EventKind = "charge_failed"
	EventRefund          EventKind = "refund"
	EventDisputeOpened   EventKind = "dispute_opened"
	EventDisputeLost     EventKind = "dispute_lost"
	EventPayout          EventKind = "payout"

	EventSubscriptionCanceled EventKind = "subscription_canceled"
	EventSubscriptionPastDue  EventKind = "subscription_past_due"
)

// WebhookEvent is a provider event normalized to what the payment service
// needs. AmountCents is the gross charge for charge events, the refunded
// amount for refunds, and the transfer amount for payouts, always in minor
// units of Currency.
type WebhookEvent struct {
	Kind     EventKind
	Provider models.PaymentProvider

	// Reference is the provider correlation ID: a Stripe payment intent
	// ID, a Paystack transaction reference, or a transfer code for
	// payouts.
	Reference string

	// SubscriptionRef is the provider's subscription ID when the event
	// belongs to one: set on recurring charges so the payment row links to
	// its subscription, and on subscription lifecycle events.
	SubscriptionRef string

	Currency    string
	AmountCents int64
	OccurredAt  time.Time

	Type         models.PaymentType
	CreatorID    string
	SubscriberID string
}

// PaymentGateway is the provider abstraction the webhook intake and refund
// flow are written against.
type PaymentGateway interface {
	// Provider returns which processor this gateway talks to.
	Provider() models.PaymentProvider

	// ParseWebhook verifies the payload signature and normalizes the
	// event. Returns ErrInvalidSignature on a bad signature and
	// ErrUnsupportedEvent for event types this service ignores.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)

	// CreateRefund asks the provider to refund part or all of a charge
	// and returns the provider's refund ID.
	CreateRefund(ctx context.Context, providerRef string, amountCents int64, currency string) (string, error)
}
