package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-payments/internal/currency"
	"creator-payments/internal/fees"
	"creator-payments/internal/models"
	"creator-payments/internal/services"
)

// PricingHandler serves the onboarding pricing endpoints.
type PricingHandler struct {
	pricing *services.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricing *services.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// GetPreview handles GET /api/v1/pricing/preview
func (h *PricingHandler) GetPreview(c *gin.Context) {
	cur := c.Query("currency")
	if cur == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing currency",
			Message: "currency query parameter is required",
		})
		return
	}

	preview, err := h.pricing.Preview(fees.ScheduleInput{
		Purpose:     models.Purpose(c.Query("purpose")),
		CountryCode: c.Query("country"),
		Currency:    cur,
		Provider:    models.PaymentProvider(c.Query("provider")),
	})
	if errors.Is(err, currency.ErrInvalidCurrency) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid currency",
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to compute pricing preview",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, preview)
}

// ValidateAmount handles POST /api/v1/pricing/validate-amount
func (h *PricingHandler) ValidateAmount(c *gin.Context) {
	var req models.ValidateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.pricing.ValidateDisplayAmount(req)
	if errors.Is(err, currency.ErrInvalidCurrency) || errors.Is(err, currency.ErrNegativeAmount) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid amount",
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to validate amount",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
