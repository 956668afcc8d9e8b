package service

import (
	"context"
	"fmt"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/pkg/mesomb"
)

// MeSombProvider adapts the MeSomb aggregator client to the PaymentProvider
// interface. MeSomb fronts both MTN Mobile Money and Orange Money, so one
// integration covers both operators.
type MeSombProvider struct {
	client *mesomb.Client
}

// NewMeSombProvider wraps a configured MeSomb client.
func NewMeSombProvider(client *mesomb.Client) *MeSombProvider {
	return &MeSombProvider{client: client}
}

// Code identifies this provider in payment rows.
func (p *MeSombProvider) Code() models.ProviderCode {
	return models.ProviderMeSomb
}

// classifyCode maps a MeSomb error code onto the provider-agnostic taxonomy.
func classifyCode(code string) FailureKind {
	switch {
	case mesomb.IsUnregisteredAccount(code):
		return FailureAccountNotFound
	case mesomb.IsDeclinedCode(code):
		return FailureDeclined
	case mesomb.IsRetryableCode(code):
		return FailureRetryable
	default:
		return FailureFatal
	}
}

// Collect submits a mobile-money collection request. The payer gets a USSD
// confirmation prompt; most collections come back pending and resolve via the
// status poller or webhook.
func (p *MeSombProvider) Collect(ctx context.Context, req *ProviderCollectRequest) (*ProviderCollectResult, error) {
	resp, err := p.client.Collect(ctx, &mesomb.CollectRequest{
		Amount:      req.AmountXAF,
		Service:     string(req.Operator),
		Payer:       req.Phone,
		Reference:   req.Reference,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("mesomb collect: %w", err)
	}

	result := &ProviderCollectResult{
		ProviderRef: resp.Transaction.PK,
		Message:     resp.Message,
	}

	switch {
	case mesomb.IsSuccess(resp.Status):
		result.Status = models.PaymentSuccess
	case mesomb.IsPending(resp.Status):
		result.Status = models.PaymentPending
	case mesomb.IsCancelled(resp.Status):
		result.Status = models.PaymentCancelled
		result.FailureKind = FailureDeclined
		result.FailureCode = resp.Code
	default:
		result.Status = models.PaymentFailed
		result.FailureKind = classifyCode(resp.Code)
		result.FailureCode = resp.Code
	}
	return result, nil
}

// CheckStatus polls one transaction. The transactions endpoint is idempotent,
// so repeated polls never re-charge the payer.
func (p *MeSombProvider) CheckStatus(ctx context.Context, providerRef string) (*ProviderStatusResult, error) {
	list, err := p.client.CheckTransactions(ctx, []string{providerRef})
	if err != nil {
		return nil, fmt.Errorf("mesomb check transactions: %w", err)
	}
	if len(list) == 0 {
		// Not visible yet on the provider side; treat as still pending.
		return &ProviderStatusResult{Status: models.PaymentPending}, nil
	}

	return p.StatusResult(&list[0]), nil
}

// StatusResult converts a raw MeSomb transaction into a provider-agnostic
// status result. Shared by the polling path and the webhook path.
func (p *MeSombProvider) StatusResult(trx *mesomb.Transaction) *ProviderStatusResult {
	result := &ProviderStatusResult{Message: trx.Message}
	switch {
	case mesomb.IsSuccess(trx.Status):
		result.Status = models.PaymentSuccess
	case mesomb.IsPending(trx.Status):
		result.Status = models.PaymentPending
	case mesomb.IsCancelled(trx.Status):
		result.Status = models.PaymentCancelled
		result.FailureKind = FailureDeclined
	default:
		result.Status = models.PaymentFailed
		result.FailureKind = FailureDeclined
		result.FailureCode = trx.Status
	}
	return result
}
