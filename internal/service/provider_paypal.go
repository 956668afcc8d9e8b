package service

import (
	"context"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// PayPalProvider is a placeholder registration. The method is offered in the
// checkout wizard but collection is not wired to a PayPal account yet, so
// every call reports the feature as unavailable instead of silently failing.
type PayPalProvider struct{}

// NewPayPalProvider constructs the placeholder provider.
func NewPayPalProvider() *PayPalProvider {
	return &PayPalProvider{}
}

func (p *PayPalProvider) Code() models.ProviderCode {
	return models.ProviderPayPal
}

func (p *PayPalProvider) Collect(ctx context.Context, req *ProviderCollectRequest) (*ProviderCollectResult, error) {
	return nil, utils.ErrPayPalNotImplemented
}

func (p *PayPalProvider) CheckStatus(ctx context.Context, providerRef string) (*ProviderStatusResult, error) {
	return nil, utils.ErrPayPalNotImplemented
}
