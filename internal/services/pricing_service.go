package services

import (
	"fmt"

	"creator-payments/internal/currency"
	"creator-payments/internal/fees"
	"creator-payments/internal/models"
)

// PricingService backs the onboarding pricing endpoints: fee schedule
// preview and display-amount validation. Pure computation; no storage.
type PricingService struct {
	rates fees.Rates
}

// NewPricingService creates a new pricing service
func NewPricingService(rates fees.Rates) *PricingService {
	return &PricingService{rates: rates}
}

// Preview resolves the schedule and minimum a creator would get for a
// classification, so onboarding can show the payout percentage and price
// floor before the creator ever charges anyone.
func (s *PricingService) Preview(in fees.ScheduleInput) (*models.PricingPreviewResponse, error) {
	schedule, err := s.rates.ScheduleFor(in)
	if err != nil {
		return nil, err
	}
	minimum := schedule.MinimumCents()

	purpose := in.Purpose
	if purpose == "" {
		purpose = models.PurposePersonal
	}
	provider := in.Provider
	if provider == "" {
		provider = models.ProviderStripe
	}

	return &models.PricingPreviewResponse{
		Currency:             in.Currency,
		CountryCode:          in.CountryCode,
		Purpose:              purpose,
		Provider:             provider,
		CrossBorder:          schedule.CrossBorder,
		PlatformFeePercent:   schedule.PlatformFeePercent,
		SplitPercent:         schedule.SplitPercent,
		ProcessingFeePercent: schedule.ProcessingFeePercent,
		MinimumAmountCents:   minimum,
		MinimumDisplay:       currency.FormatAmount(minimum, in.Currency),
	}, nil
}

// ValidateDisplayAmount converts a human-entered amount to minor units and
// checks it against the per-currency floor. A failing amount is reported,
// never clamped.
func (s *PricingService) ValidateDisplayAmount(req models.ValidateAmountRequest) (*models.ValidateAmountResponse, error) {
	cents, err := currency.DisplayAmountToCents(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	check, err := s.rates.ValidateMinimumAmount(cents, fees.ScheduleInput{
		Purpose:     req.Purpose,
		CountryCode: req.CountryCode,
		Currency:    req.Currency,
		Provider:    req.Provider,
	})
	if err != nil {
		return nil, err
	}

	return &models.ValidateAmountResponse{
		AmountCents:    cents,
		Valid:          check.Valid,
		MinimumCents:   check.MinimumCents,
		MinimumDisplay: check.MinimumDisplay,
	}, nil
}

// ValidateProfilePricing checks every price on a profile against the
// floor. Used when onboarding saves pricing.
func (s *PricingService) ValidateProfilePricing(profile *models.Profile) error {
	in := fees.ScheduleInput{
		Purpose:     profile.Purpose,
		CountryCode: profile.CountryCode,
		Currency:    profile.Currency,
		Provider:    profile.PaymentProvider,
	}

	check := func(amountCents int64, label string) error {
		result, err := s.rates.ValidateMinimumAmount(amountCents, in)
		if err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("%s is below the minimum of %s", label, result.MinimumDisplay)
		}
		return nil
	}

	if profile.PricingModel == models.PricingSingle {
		return check(profile.SingleAmountCents, "price")
	}
	for _, tier := range profile.Tiers {
		if err := check(tier.AmountCents, fmt.Sprintf("tier %q", tier.Name)); err != nil {
			return err
		}
	}
	return nil
}
