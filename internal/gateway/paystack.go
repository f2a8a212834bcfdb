package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"creator-payments/internal/models"
)

const paystackBaseURL = "https://api.paystack.co"

// PaystackConfig holds the Paystack credentials.
type PaystackConfig struct {
	SecretKey string
}

// PaystackGateway implements PaymentGateway for Paystack. Paystack has no
// Go SDK, so this is a plain HTTP client.
type PaystackGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewPaystackGateway creates a new Paystack gateway instance
func NewPaystackGateway(cfg PaystackConfig) (*PaystackGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("paystack secret key is required")
	}
	return &PaystackGateway{
		secretKey: cfg.SecretKey,
		baseURL:   paystackBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Provider returns the provider identifier
func (g *PaystackGateway) Provider() models.PaymentProvider {
	return models.ProviderPaystack
}

// paystackEvent mirrors the envelope Paystack posts to webhooks. Amounts
// are minor units (kobo for NGN).
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference            string            `json:"reference"`
		TransactionReference string            `json:"transaction_reference"`
		TransferCode         string            `json:"transfer_code"`
		SubscriptionCode     string            `json:"subscription_code"`
		Amount               int64             `json:"amount"`
		Currency             string            `json:"currency"`
		PaidAt               string            `json:"paid_at"`
		CreatedAt            string            `json:"created_at"`
		Metadata             map[string]string `json:"metadata"`
		Transaction          struct {
			Reference string `json:"reference"`
		} `json:"transaction"`
		Subscription struct {
			SubscriptionCode string `json:"subscription_code"`
		} `json:"subscription"`
	} `json:"data"`
}

// ParseWebhook verifies the X-Paystack-Signature header (hex HMAC-SHA512
// of the raw body with the secret key) and maps the event.
func (g *PaystackGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	mac := hmac.New(sha512.New, []byte(g.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrInvalidSignature
	}

	var event paystackEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode paystack event: %w", err)
	}

	occurredAt := parsePaystackTime(event.Data.PaidAt, event.Data.CreatedAt)
	currency := strings.ToUpper(event.Data.Currency)

	switch event.Event {
	case "charge.success":
		return &WebhookEvent{
			Kind:            EventChargeSucceeded,
			Provider:        models.ProviderPaystack,
			Reference:       event.Data.Reference,
			SubscriptionRef: event.Data.Metadata["subscription_code"],
			Currency:        currency,
			AmountCents:     event.Data.Amount,
			OccurredAt:      occurredAt,
			Type:            paymentTypeFromMetadata(event.Data.Metadata),
			CreatorID:       event.Data.Metadata["creator_id"],
			SubscriberID:    event.Data.Metadata["subscriber_id"],
		}, nil

	case "charge.failed":
		return &WebhookEvent{
			Kind:        EventChargeFailed,
			Provider:    models.ProviderPaystack,
			Reference:   event.Data.Reference,
			Currency:    currency,
			AmountCents: event.Data.Amount,
			OccurredAt:  occurredAt,
		}, nil

	case "invoice.payment_failed":
		// A failed subscription invoice: the subscription goes past due.
		ref := event.Data.Subscription.SubscriptionCode
		if ref == "" {
			ref = event.Data.SubscriptionCode
		}
		return &WebhookEvent{
			Kind:            EventSubscriptionPastDue,
			Provider:        models.ProviderPaystack,
			SubscriptionRef: ref,
			Currency:        currency,
			AmountCents:     event.Data.Amount,
			OccurredAt:      occurredAt,
		}, nil

	case "subscription.disable":
		return &WebhookEvent{
			Kind:            EventSubscriptionCanceled,
			Provider:        models.ProviderPaystack,
			SubscriptionRef: event.Data.SubscriptionCode,
			Currency:        currency,
			OccurredAt:      occurredAt,
		}, nil

	case "refund.processed":
		ref := event.Data.TransactionReference
		if ref == "" {
			ref = event.Data.Transaction.Reference
		}
		return &WebhookEvent{
			Kind:        EventRefund,
			Provider:    models.ProviderPaystack,
			Reference:   ref,
			Currency:    currency,
			AmountCents: event.Data.Amount,
			OccurredAt:  occurredAt,
		}, nil

	case "charge.dispute.create":
		return &WebhookEvent{
			Kind:        EventDisputeOpened,
			Provider:    models.ProviderPaystack,
			Reference:   event.Data.Reference,
			Currency:    currency,
			AmountCents: event.Data.Amount,
			OccurredAt:  occurredAt,
		}, nil

	case "transfer.success":
		// Transfers carry the creator through the metadata attached when
		// the transfer was initiated, same as charges.
		return &WebhookEvent{
			Kind:        EventPayout,
			Provider:    models.ProviderPaystack,
			Reference:   event.Data.TransferCode,
			Currency:    currency,
			AmountCents: event.Data.Amount,
			OccurredAt:  occurredAt,
			Type:        models.PaymentPayout,
			CreatorID:   event.Data.Metadata["creator_id"],
		}, nil
	}

	return nil, ErrUnsupportedEvent
}

// CreateRefund posts to the Paystack refund endpoint.
func (g *PaystackGateway) CreateRefund(ctx context.Context, providerRef string, amountCents int64, currency string) (string, error) {
	reqBody, err := json.Marshal(map[string]interface{}{
		"transaction": providerRef,
		"amount":      amountCents,
		"currency":    currency,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/refund", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paystack refund request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paystack refund failed: status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Status bool `json:"status"`
		Data   struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode paystack refund response: %w", err)
	}
	if !result.Status {
		return "", fmt.Errorf("paystack refund rejected: %s", string(body))
	}
	return fmt.Sprintf("%d", result.Data.ID), nil
}

func parsePaystackTime(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
