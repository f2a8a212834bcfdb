package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"creator-payments/internal/fees"
	"creator-payments/internal/fx"
	"creator-payments/internal/gateway"
	"creator-payments/internal/models"
	"creator-payments/internal/repository"
)

// PaymentService prices payment rows at charge time and applies the
// status transitions driven by provider webhook events. A row's split is
// computed exactly once, when the charge event arrives; refunds and
// disputes only ever transition status.
type PaymentService struct {
	repo              repository.PaymentRepositoryInterface
	gateways          *gateway.Factory
	rates             fees.Rates
	fxSource          fx.RateSource
	reportingCurrency string
	log               *logrus.Entry
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repository.PaymentRepositoryInterface, gateways *gateway.Factory, rates fees.Rates, fxSource fx.RateSource, reportingCurrency string, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		repo:              repo,
		gateways:          gateways,
		rates:             rates,
		fxSource:          fxSource,
		reportingCurrency: reportingCurrency,
		log:               logger.WithField("component", "payment_service"),
	}
}

// HandleWebhookEvent dispatches a normalized provider event.
func (s *PaymentService) HandleWebhookEvent(ctx context.Context, ev *gateway.WebhookEvent) error {
	switch ev.Kind {
	case gateway.EventChargeSucceeded:
		return s.recordCharge(ctx, ev, models.PaymentSucceeded)
	case gateway.EventChargeFailed:
		return s.recordCharge(ctx, ev, models.PaymentFailed)
	case gateway.EventPayout:
		return s.recordCharge(ctx, ev, models.PaymentSucceeded)
	case gateway.EventRefund:
		return s.recordRefund(ctx, ev)
	case gateway.EventDisputeOpened:
		return s.transitionByRef(ctx, ev, models.PaymentDisputed)
	case gateway.EventDisputeLost:
		return s.transitionByRef(ctx, ev, models.PaymentDisputeLost)
	case gateway.EventSubscriptionCanceled:
		return s.transitionSubscription(ctx, ev, models.SubscriptionCanceled)
	case gateway.EventSubscriptionPastDue:
		return s.transitionSubscription(ctx, ev, models.SubscriptionPastDue)
	}
	return fmt.Errorf("unhandled event kind %q", ev.Kind)
}

// recordCharge creates the priced payment row for a charge event. Intake
// is idempotent on the provider reference: the provider's idempotency key
// guarantees at most one split computation per charge, so a replayed
// webhook finds the existing row and does nothing.
func (s *PaymentService) recordCharge(ctx context.Context, ev *gateway.WebhookEvent, status models.PaymentStatus) error {
	if ev.Reference == "" {
		return fmt.Errorf("charge event missing provider reference")
	}

	existing, err := s.repo.GetPaymentByProviderRef(ctx, ev.Provider, ev.Reference)
	if err != nil && !errors.Is(err, models.ErrPaymentNotFound) {
		return fmt.Errorf("idempotency lookup failed: %w", err)
	}
	if existing != nil {
		s.log.WithFields(logrus.Fields{
			"provider":  ev.Provider,
			"reference": ev.Reference,
		}).Info("charge already recorded, skipping")
		return nil
	}

	creatorID, err := uuid.Parse(ev.CreatorID)
	if err != nil {
		return fmt.Errorf("charge event has invalid creator id %q: %w", ev.CreatorID, err)
	}

	// Payouts move money the platform already took its fee from when the
	// charges were recorded; splitting them again would count the fee
	// twice. They are stored fee-free and kept out of revenue aggregation
	// by type.
	split := fees.Split{GrossCents: ev.AmountCents, NetCents: ev.AmountCents}
	if ev.Kind != gateway.EventPayout {
		schedule, err := s.scheduleForCreator(ctx, creatorID, ev)
		if err != nil {
			return err
		}
		split = fees.SplitPayment(ev.AmountCents, schedule.PlatformFeePercent)
	}

	payment := &models.Payment{
		CreatorID:   creatorID,
		Currency:    ev.Currency,
		Status:      status,
		Type:        ev.Type,
		GrossCents:  &split.GrossCents,
		FeeCents:    &split.FeeCents,
		NetCents:    &split.NetCents,
		AmountCents: split.GrossCents,
		OccurredAt:  ev.OccurredAt,
	}
	if ev.SubscriberID != "" {
		subscriberID, err := uuid.Parse(ev.SubscriberID)
		if err != nil {
			return fmt.Errorf("charge event has invalid subscriber id %q: %w", ev.SubscriberID, err)
		}
		payment.SubscriberID = &subscriberID
	}
	if ev.SubscriptionRef != "" {
		if sub, err := s.repo.GetSubscriptionByProviderRef(ctx, ev.Provider, ev.SubscriptionRef); err == nil {
			payment.SubscriptionID = &sub.ID
		}
	}

	switch {
	case ev.Provider == models.ProviderStripe:
		payment.StripePaymentIntentID = &ev.Reference
	case ev.Kind == gateway.EventPayout:
		payment.PaystackTransferCode = &ev.Reference
	default:
		payment.PaystackTransactionRef = &ev.Reference
	}

	s.snapshotReporting(ctx, payment, split)

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"paymentId": payment.ID,
		"provider":  ev.Provider,
		"currency":  ev.Currency,
		"gross":     split.GrossCents,
		"fee":       split.FeeCents,
		"net":       split.NetCents,
		"status":    status,
	}).Info("payment recorded")
	return nil
}

// scheduleForCreator resolves the fee schedule from the creator's profile
// classification, falling back to a domestic default when the profile is
// missing (deleted creator, backfilled event).
func (s *PaymentService) scheduleForCreator(ctx context.Context, creatorID uuid.UUID, ev *gateway.WebhookEvent) (fees.Schedule, error) {
	in := fees.ScheduleInput{
		Purpose:  models.PurposePersonal,
		Currency: ev.Currency,
		Provider: ev.Provider,
	}
	profile, err := s.repo.GetProfileByCreator(ctx, creatorID)
	if err == nil {
		in.Purpose = profile.Purpose
		in.CountryCode = profile.CountryCode
	} else {
		s.log.WithField("creatorId", creatorID).Warn("no profile for creator, using domestic schedule")
	}
	return s.rates.ScheduleFor(in)
}

// snapshotReporting re-expresses the split in the reporting currency at
// the rate in effect now. Failure to quote is not fatal: the row simply
// carries no snapshot.
func (s *PaymentService) snapshotReporting(ctx context.Context, payment *models.Payment, split fees.Split) {
	if s.fxSource == nil || s.reportingCurrency == "" {
		return
	}
	quote, err := s.fxSource.Rate(ctx, payment.Currency, s.reportingCurrency)
	if err != nil {
		s.log.WithField("currency", payment.Currency).WithError(err).Warn("no fx quote, skipping reporting snapshot")
		return
	}

	gross, err := fx.ConvertCents(split.GrossCents, payment.Currency, s.reportingCurrency, quote)
	if err != nil {
		return
	}
	fee, err := fx.ConvertCents(split.FeeCents, payment.Currency, s.reportingCurrency, quote)
	if err != nil {
		return
	}
	// Net mirrors the split construction: remainder, not an independent
	// conversion, so the snapshot balances too.
	net := gross - fee

	payment.ReportingCurrency = s.reportingCurrency
	payment.ReportingGrossCents = &gross
	payment.ReportingFeeCents = &fee
	payment.ReportingNetCents = &net
	payment.ReportingIsEstimated = quote.Estimated
}

// recordRefund applies a refund event. The original fee/net split stays
// untouched: the provider's own fee was assessed on the original charge,
// so only the refunded amount and status change.
func (s *PaymentService) recordRefund(ctx context.Context, ev *gateway.WebhookEvent) error {
	payment, err := s.repo.GetPaymentByProviderRef(ctx, ev.Provider, ev.Reference)
	if err != nil {
		return fmt.Errorf("refund for unknown payment %s/%s: %w", ev.Provider, ev.Reference, err)
	}

	// Stripe reports the cumulative refunded amount; Paystack reports each
	// refund individually.
	refundedTotal := ev.AmountCents
	if ev.Provider == models.ProviderPaystack {
		refundedTotal = payment.RefundedAmountCents + ev.AmountCents
	}

	gross := payment.AmountCents
	if payment.GrossCents != nil {
		gross = *payment.GrossCents
	}
	if refundedTotal > gross {
		return fmt.Errorf("%w: refunded=%d gross=%d", models.ErrRefundExceedsCharge, refundedTotal, gross)
	}

	if err := s.repo.RecordRefund(ctx, payment.ID, refundedTotal, models.PaymentRefunded); err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"paymentId": payment.ID,
		"refunded":  refundedTotal,
		"gross":     gross,
	}).Info("refund recorded")
	return nil
}

// transitionByRef moves a payment to a dispute status.
func (s *PaymentService) transitionByRef(ctx context.Context, ev *gateway.WebhookEvent, status models.PaymentStatus) error {
	payment, err := s.repo.GetPaymentByProviderRef(ctx, ev.Provider, ev.Reference)
	if err != nil {
		return fmt.Errorf("event for unknown payment %s/%s: %w", ev.Provider, ev.Reference, err)
	}
	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, status); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"paymentId": payment.ID,
		"status":    status,
	}).Info("payment status transitioned")
	return nil
}

// transitionSubscription moves a subscription's lifecycle state on a
// provider subscription event.
func (s *PaymentService) transitionSubscription(ctx context.Context, ev *gateway.WebhookEvent, status models.SubscriptionStatus) error {
	if ev.SubscriptionRef == "" {
		return fmt.Errorf("subscription event missing provider reference")
	}
	sub, err := s.repo.GetSubscriptionByProviderRef(ctx, ev.Provider, ev.SubscriptionRef)
	if err != nil {
		return fmt.Errorf("event for unknown subscription %s/%s: %w", ev.Provider, ev.SubscriptionRef, err)
	}
	if err := s.repo.UpdateSubscriptionStatus(ctx, sub.ID, status); err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"subscriptionId": sub.ID,
		"status":         status,
	}).Info("subscription status transitioned")
	return nil
}

// InitiateRefund asks the provider to refund a payment. The row itself is
// only updated when the provider's refund webhook arrives.
func (s *PaymentService) InitiateRefund(ctx context.Context, paymentID uuid.UUID, amountCents int64) (string, error) {
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if payment.Status != models.PaymentSucceeded && payment.Status != models.PaymentRefunded {
		return "", fmt.Errorf("%w: cannot refund payment in status %q", models.ErrInvalidTransition, payment.Status)
	}

	gross := payment.AmountCents
	if payment.GrossCents != nil {
		gross = *payment.GrossCents
	}
	if amountCents <= 0 || payment.RefundedAmountCents+amountCents > gross {
		return "", models.ErrRefundExceedsCharge
	}

	provider, err := payment.Provider()
	if err != nil {
		return "", err
	}
	gw, err := s.gateways.Get(provider)
	if err != nil {
		return "", err
	}
	return gw.CreateRefund(ctx, payment.ProviderReference(), amountCents, payment.Currency)
}
