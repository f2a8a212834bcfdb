package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"creator-payments/internal/gateway"
	"creator-payments/internal/models"
	"creator-payments/internal/services"
)

// WebhookHandler handles provider webhook intake. Signature verification
// happens in the gateway; event types we don't track are acknowledged so
// providers stop retrying them.
type WebhookHandler struct {
	gateways *gateway.Factory
	payments *services.PaymentService
	log      *logrus.Entry
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(gateways *gateway.Factory, payments *services.PaymentService, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		gateways: gateways,
		payments: payments,
		log:      logger.WithField("component", "webhook_handler"),
	}
}

// HandleStripeWebhook handles POST /webhooks/stripe
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	h.handle(c, models.ProviderStripe, c.GetHeader("Stripe-Signature"))
}

// HandlePaystackWebhook handles POST /webhooks/paystack
func (h *WebhookHandler) HandlePaystackWebhook(c *gin.Context) {
	h.handle(c, models.ProviderPaystack, c.GetHeader("X-Paystack-Signature"))
}

func (h *WebhookHandler) handle(c *gin.Context, provider models.PaymentProvider, signature string) {
	if signature == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing signature",
			Message: "webhook signature header is required",
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Failed to read request body",
			Message: err.Error(),
		})
		return
	}

	gw, err := h.gateways.Get(provider)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Gateway not configured",
			Message: err.Error(),
		})
		return
	}

	event, err := gw.ParseWebhook(body, signature)
	if errors.Is(err, gateway.ErrInvalidSignature) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "Invalid signature",
			Message: "webhook signature verification failed",
		})
		return
	}
	if errors.Is(err, gateway.ErrUnsupportedEvent) {
		// Acknowledged but not tracked.
		c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Failed to parse webhook",
			Message: err.Error(),
		})
		return
	}

	if err := h.payments.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		h.log.WithFields(logrus.Fields{
			"provider":  provider,
			"kind":      event.Kind,
			"reference": event.Reference,
		}).WithError(err).Error("webhook processing failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to process webhook",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook processed"})
}
