package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"creator-payments/internal/models"
)

// StripeConfig holds the Stripe credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StripeGateway implements PaymentGateway for Stripe.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a new Stripe gateway instance
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

// Provider returns the provider identifier
func (g *StripeGateway) Provider() models.PaymentProvider {
	return models.ProviderStripe
}

// ParseWebhook verifies the Stripe-Signature header and maps the event.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		kind := EventChargeSucceeded
		if event.Type == "payment_intent.payment_failed" {
			kind = EventChargeFailed
		}
		return &WebhookEvent{
			Kind:            kind,
			Provider:        models.ProviderStripe,
			Reference:       intent.ID,
			SubscriptionRef: intent.Metadata["subscription_id"],
			Currency:        strings.ToUpper(string(intent.Currency)),
			AmountCents:     intent.Amount,
			OccurredAt:      time.Unix(event.Created, 0).UTC(),
			Type:            paymentTypeFromMetadata(intent.Metadata),
			CreatorID:       intent.Metadata["creator_id"],
			SubscriberID:    intent.Metadata["subscriber_id"],
		}, nil

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("failed to decode charge: %w", err)
		}
		ref := ""
		if charge.PaymentIntent != nil {
			ref = charge.PaymentIntent.ID
		}
		return &WebhookEvent{
			Kind:        EventRefund,
			Provider:    models.ProviderStripe,
			Reference:   ref,
			Currency:    strings.ToUpper(string(charge.Currency)),
			AmountCents: charge.AmountRefunded,
			OccurredAt:  time.Unix(event.Created, 0).UTC(),
		}, nil

	case "charge.dispute.created", "charge.dispute.closed":
		var dispute stripe.Dispute
		if err := json.Unmarshal(event.Data.Raw, &dispute); err != nil {
			return nil, fmt.Errorf("failed to decode dispute: %w", err)
		}
		kind := EventDisputeOpened
		if event.Type == "charge.dispute.closed" {
			if dispute.Status != stripe.DisputeStatusLost {
				return nil, ErrUnsupportedEvent
			}
			kind = EventDisputeLost
		}
		ref := ""
		if dispute.PaymentIntent != nil {
			ref = dispute.PaymentIntent.ID
		}
		return &WebhookEvent{
			Kind:        kind,
			Provider:    models.ProviderStripe,
			Reference:   ref,
			Currency:    strings.ToUpper(string(dispute.Currency)),
			AmountCents: dispute.Amount,
			OccurredAt:  time.Unix(event.Created, 0).UTC(),
		}, nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		return &WebhookEvent{
			Kind:            EventSubscriptionCanceled,
			Provider:        models.ProviderStripe,
			SubscriptionRef: sub.ID,
			Currency:        strings.ToUpper(string(sub.Currency)),
			OccurredAt:      time.Unix(event.Created, 0).UTC(),
		}, nil

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, fmt.Errorf("failed to decode invoice: %w", err)
		}
		if invoice.Subscription == nil {
			// One-off invoice; nothing to transition.
			return nil, ErrUnsupportedEvent
		}
		return &WebhookEvent{
			Kind:            EventSubscriptionPastDue,
			Provider:        models.ProviderStripe,
			SubscriptionRef: invoice.Subscription.ID,
			Currency:        strings.ToUpper(string(invoice.Currency)),
			AmountCents:     invoice.AmountDue,
			OccurredAt:      time.Unix(event.Created, 0).UTC(),
		}, nil
	}

	return nil, ErrUnsupportedEvent
}

// CreateRefund refunds a payment intent, partially when amountCents is
// below the original charge.
func (g *StripeGateway) CreateRefund(ctx context.Context, providerRef string, amountCents int64, currency string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(providerRef),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx

	ref, err := g.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund failed: %w", err)
	}
	return ref.ID, nil
}

func paymentTypeFromMetadata(metadata map[string]string) models.PaymentType {
	switch metadata["payment_type"] {
	case string(models.PaymentRecurring):
		return models.PaymentRecurring
	case string(models.PaymentPayout):
		return models.PaymentPayout
	}
	return models.PaymentOneTime
}
