package models

import "github.com/shopspring/decimal"

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PricingPreviewResponse is returned to onboarding so a creator sees their
// payout percentage and minimum price before charging anyone.
type PricingPreviewResponse struct {
	Currency             string          `json:"currency"`
	CountryCode          string          `json:"countryCode"`
	Purpose              Purpose         `json:"purpose"`
	Provider             PaymentProvider `json:"provider"`
	CrossBorder          bool            `json:"crossBorder"`
	PlatformFeePercent   decimal.Decimal `json:"platformFeePercent"`
	SplitPercent         decimal.Decimal `json:"splitPercent"`
	ProcessingFeePercent decimal.Decimal `json:"processingFeePercent"`
	MinimumAmountCents   int64           `json:"minimumAmountCents"`
	MinimumDisplay       string          `json:"minimumDisplay"`
}

// ValidateAmountRequest converts and checks a human-entered amount.
type ValidateAmountRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	CountryCode string          `json:"countryCode" binding:"required"`
	Purpose     Purpose         `json:"purpose"`
	Provider    PaymentProvider `json:"provider"`
}

// ValidateAmountResponse carries the converted minor-unit amount and the
// floor check result.
type ValidateAmountResponse struct {
	AmountCents    int64  `json:"amountCents"`
	Valid          bool   `json:"valid"`
	MinimumCents   int64  `json:"minimumCents"`
	MinimumDisplay string `json:"minimumDisplay"`
}
