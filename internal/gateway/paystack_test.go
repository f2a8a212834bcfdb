package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-payments/internal/models"
)

const paystackTestKey = "sk_test_secret"

func signPaystack(t *testing.T, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha512.New, []byte(paystackTestKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func testPaystackGateway(t *testing.T) *PaystackGateway {
	t.Helper()
	gw, err := NewPaystackGateway(PaystackConfig{SecretKey: paystackTestKey})
	require.NoError(t, err)
	return gw
}

func TestNewPaystackGatewayRequiresKey(t *testing.T) {
	_, err := NewPaystackGateway(PaystackConfig{})
	assert.Error(t, err)
}

func TestPaystackParseWebhookRejectsBadSignature(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{"event":"charge.success","data":{}}`)
	_, err := gw.ParseWebhook(payload, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestPaystackParseWebhookChargeSuccess(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "trx_123",
			"amount": 500000,
			"currency": "ngn",
			"paid_at": "2024-06-01T10:00:00Z",
			"metadata": {
				"creator_id": "0b4d8f0a-1111-4222-8333-444455556666",
				"subscriber_id": "1c5e9f1b-2222-4333-9444-555566667777",
				"payment_type": "recurring"
			}
		}
	}`)

	ev, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventChargeSucceeded, ev.Kind)
	assert.Equal(t, models.ProviderPaystack, ev.Provider)
	assert.Equal(t, "trx_123", ev.Reference)
	assert.Equal(t, "NGN", ev.Currency)
	assert.Equal(t, int64(500000), ev.AmountCents)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), ev.OccurredAt)
	assert.Equal(t, models.PaymentRecurring, ev.Type)
	assert.Equal(t, "0b4d8f0a-1111-4222-8333-444455556666", ev.CreatorID)
	assert.Equal(t, "1c5e9f1b-2222-4333-9444-555566667777", ev.SubscriberID)
}

func TestPaystackParseWebhookRefund(t *testing.T) {
	gw := testPaystackGateway(t)

	// Refund events correlate back through the original transaction
	// reference, not their own.
	payload := []byte(`{
		"event": "refund.processed",
		"data": {
			"transaction_reference": "trx_123",
			"amount": 200,
			"currency": "NGN",
			"created_at": "2024-06-02T09:00:00Z"
		}
	}`)

	ev, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventRefund, ev.Kind)
	assert.Equal(t, "trx_123", ev.Reference)
	assert.Equal(t, int64(200), ev.AmountCents)
}

func TestPaystackParseWebhookTransfer(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{
		"event": "transfer.success",
		"data": {
			"transfer_code": "TRF_abc",
			"amount": 100000,
			"currency": "NGN",
			"created_at": "2024-06-03T08:00:00Z",
			"metadata": {
				"creator_id": "0b4d8f0a-1111-4222-8333-444455556666"
			}
		}
	}`)

	ev, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventPayout, ev.Kind)
	assert.Equal(t, "TRF_abc", ev.Reference)
	assert.Equal(t, models.PaymentPayout, ev.Type)
	assert.Equal(t, "0b4d8f0a-1111-4222-8333-444455556666", ev.CreatorID)
}

func TestPaystackParseWebhookSubscriptionDisable(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{
		"event": "subscription.disable",
		"data": {
			"subscription_code": "SUB_xyz",
			"currency": "NGN",
			"created_at": "2024-06-04T08:00:00Z"
		}
	}`)

	ev, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionCanceled, ev.Kind)
	assert.Equal(t, "SUB_xyz", ev.SubscriptionRef)
}

func TestPaystackParseWebhookInvoicePaymentFailed(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{
		"event": "invoice.payment_failed",
		"data": {
			"amount": 500000,
			"currency": "NGN",
			"created_at": "2024-06-05T08:00:00Z",
			"subscription": {
				"subscription_code": "SUB_xyz"
			}
		}
	}`)

	ev, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionPastDue, ev.Kind)
	assert.Equal(t, "SUB_xyz", ev.SubscriptionRef)
	assert.Equal(t, int64(500000), ev.AmountCents)
}

func TestPaystackParseWebhookChargeSuccessSubscriptionRef(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "trx_456",
			"amount": 500000,
			"currency": "NGN",
			"paid_at": "2024-06-01T10:00:00Z",
			"metadata": {
				"creator_id": "0b4d8f0a-1111-4222-8333-444455556666",
				"subscription_code": "SUB_xyz",
				"payment_type": "recurring"
			}
		}
	}`)

	ev, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventChargeSucceeded, ev.Kind)
	assert.Equal(t, "SUB_xyz", ev.SubscriptionRef)
}

func TestPaystackParseWebhookUnsupportedEvent(t *testing.T) {
	gw := testPaystackGateway(t)

	payload := []byte(`{"event":"subscription.not_renew","data":{}}`)
	_, err := gw.ParseWebhook(payload, signPaystack(t, payload))
	assert.ErrorIs(t, err, ErrUnsupportedEvent)
}

func TestFactoryOmitsUnconfiguredProviders(t *testing.T) {
	factory, err := NewFactory(StripeConfig{}, PaystackConfig{SecretKey: paystackTestKey})
	require.NoError(t, err)

	gw, err := factory.Get(models.ProviderPaystack)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderPaystack, gw.Provider())

	_, err = factory.Get(models.ProviderStripe)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
