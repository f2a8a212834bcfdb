package gateway

import (
	"fmt"

	"creator-payments/internal/models"
)

// Factory hands out the configured gateway for a provider.
type Factory struct {
	gateways map[models.PaymentProvider]PaymentGateway
}

// NewFactory builds gateways for every provider with credentials
// configured. A provider without credentials is simply absent; Get fails
// for it at request time rather than at boot.
func NewFactory(stripeCfg StripeConfig, paystackCfg PaystackConfig) (*Factory, error) {
	factory := &Factory{
		gateways: make(map[models.PaymentProvider]PaymentGateway),
	}

	if stripeCfg.SecretKey != "" {
		gw, err := NewStripeGateway(stripeCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize stripe gateway: %w", err)
		}
		factory.gateways[models.ProviderStripe] = gw
	}

	if paystackCfg.SecretKey != "" {
		gw, err := NewPaystackGateway(paystackCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize paystack gateway: %w", err)
		}
		factory.gateways[models.ProviderPaystack] = gw
	}

	return factory, nil
}

// Get returns the gateway for a provider.
func (f *Factory) Get(provider models.PaymentProvider) (PaymentGateway, error) {
	gw, ok := f.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, provider)
	}
	return gw, nil
}
