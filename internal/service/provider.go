package service

import (
	"context"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// FailureKind classifies a terminal provider failure independently of the
// provider's own code vocabulary.
type FailureKind string

const (
	FailureNone            FailureKind = ""
	FailureAccountNotFound FailureKind = "account_not_found"
	FailureDeclined        FailureKind = "declined"
	FailureRetryable       FailureKind = "retryable"
	FailureFatal           FailureKind = "fatal"
)

// ProviderCollectRequest asks a provider to charge a payer.
type ProviderCollectRequest struct {
	AmountXAF   int
	Operator    models.Operator
	Phone       string
	Reference   string
	Description string
}

// ProviderCollectResult is the immediate outcome of a collection request.
// Status pending means the payer still has to confirm on their handset.
type ProviderCollectResult struct {
	ProviderRef string
	Status      models.PaymentStatus
	FailureKind FailureKind
	FailureCode string
	Message     string
}

// ProviderStatusResult is one poll of a previously submitted collection.
type ProviderStatusResult struct {
	Status      models.PaymentStatus
	FailureKind FailureKind
	FailureCode string
	Message     string
}

// PaymentProvider is one payment processor integration. Collect and
// CheckStatus return an error only for transport or protocol failures;
// business outcomes, including declines, arrive in the result.
type PaymentProvider interface {
	Code() models.ProviderCode
	Collect(ctx context.Context, req *ProviderCollectRequest) (*ProviderCollectResult, error)
	CheckStatus(ctx context.Context, providerRef string) (*ProviderStatusResult, error)
}

// ProviderRouter dispatches payments to the provider registered for a code.
type ProviderRouter struct {
	providers map[models.ProviderCode]PaymentProvider
}

// NewProviderRouter builds a router over the given providers.
func NewProviderRouter(providers ...PaymentProvider) *ProviderRouter {
	m := make(map[models.ProviderCode]PaymentProvider, len(providers))
	for _, p := range providers {
		m[p.Code()] = p
	}
	return &ProviderRouter{providers: m}
}

// Get returns the provider for a code.
func (r *ProviderRouter) Get(code models.ProviderCode) (PaymentProvider, error) {
	p, ok := r.providers[code]
	if !ok {
		return nil, utils.ErrProviderUnavailable
	}
	return p, nil
}
