package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

type fakePaymentStore struct {
	created []*models.Payment
	updated []*models.Payment
	nextSeq int
}

func (f *fakePaymentStore) Create(p *models.Payment) error {
	f.nextSeq++
	p.ID = f.nextSeq
	f.created = append(f.created, p)
	return nil
}

func (f *fakePaymentStore) Update(p *models.Payment) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakePaymentStore) GetByPaymentID(paymentID string) (*models.Payment, error) {
	for _, p := range f.created {
		if p.PaymentID == paymentID {
			return p, nil
		}
	}
	return nil, utils.ErrPaymentNotFound
}

func (f *fakePaymentStore) GetByProviderRef(providerRef string) (*models.Payment, error) {
	return nil, utils.ErrPaymentNotFound
}

func (f *fakePaymentStore) GetCompensationRequired(limit int) ([]models.Payment, error) {
	return nil, nil
}

func (f *fakePaymentStore) GeneratePaymentID() (string, error) {
	return fmt.Sprintf("MBA-20260829-%06d", f.nextSeq+1), nil
}

type fakeProvider struct {
	code          models.ProviderCode
	collectResult *ProviderCollectResult
	collectErr    error
	collects      []*ProviderCollectRequest
}

func (f *fakeProvider) Code() models.ProviderCode { return f.code }

func (f *fakeProvider) Collect(ctx context.Context, req *ProviderCollectRequest) (*ProviderCollectResult, error) {
	f.collects = append(f.collects, req)
	if f.collectErr != nil {
		return nil, f.collectErr
	}
	return f.collectResult, nil
}

func (f *fakeProvider) CheckStatus(ctx context.Context, providerRef string) (*ProviderStatusResult, error) {
	return &ProviderStatusResult{Status: models.PaymentPending}, nil
}

type fakeBoostConfirmer struct {
	confirmed []*models.Payment
	err       error
}

func (f *fakeBoostConfirmer) ConfirmPayment(p *models.Payment) (*models.Boost, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.confirmed = append(f.confirmed, p)
	return &models.Boost{ID: 1, PaymentID: p.ID}, nil
}

func momoInput() *MakePaymentInput {
	return &MakePaymentInput{
		UserID:    7,
		ListingID: 99,
		Tier:      models.TierPremium,
		Days:      14,
		AmountXAF: 28000,
		Method:    models.MethodMTNMoMo,
		Phone:     "670123456",
	}
}

func newPaymentFixture(provider *fakeProvider) (*PaymentService, *fakePaymentStore, *fakeBoostConfirmer) {
	store := &fakePaymentStore{}
	boosts := &fakeBoostConfirmer{}
	svc := NewPaymentService(store, NewProviderRouter(provider), boosts, 5*time.Second)
	return svc, store, boosts
}

func TestMakePaymentRejectsBadPhoneBeforeProviderCall(t *testing.T) {
	provider := &fakeProvider{code: models.ProviderMeSomb}
	svc, store, _ := newPaymentFixture(provider)

	in := momoInput()
	in.Phone = "690123456" // Orange number on an MTN method

	_, err := svc.MakePayment(context.Background(), in)
	assert.ErrorIs(t, err, utils.ErrInvalidPhone)
	assert.Empty(t, provider.collects, "provider must not be called for an invalid number")
	assert.Empty(t, store.created, "no payment row for a rejected number")
}

func TestMakePaymentRequiresPhoneForMobileMoney(t *testing.T) {
	provider := &fakeProvider{code: models.ProviderMeSomb}
	svc, _, _ := newPaymentFixture(provider)

	in := momoInput()
	in.Phone = ""

	_, err := svc.MakePayment(context.Background(), in)
	assert.ErrorIs(t, err, utils.ErrMissingPhone)
}

func TestMakePaymentImmediateSuccessWritesBoost(t *testing.T) {
	provider := &fakeProvider{
		code: models.ProviderMeSomb,
		collectResult: &ProviderCollectResult{
			ProviderRef: "trx-1",
			Status:      models.PaymentSuccess,
		},
	}
	svc, store, boosts := newPaymentFixture(provider)

	p, err := svc.MakePayment(context.Background(), momoInput())
	require.NoError(t, err)

	assert.Equal(t, models.PaymentSuccess, p.Status)
	assert.NotNil(t, p.ProcessedAt)
	require.NotNil(t, p.ProviderRef)
	assert.Equal(t, "trx-1", *p.ProviderRef)
	require.Len(t, boosts.confirmed, 1)
	require.Len(t, store.created, 1)

	require.Len(t, provider.collects, 1)
	assert.Equal(t, "670123456", provider.collects[0].Phone)
	assert.Equal(t, 28000, provider.collects[0].AmountXAF)
	assert.Equal(t, models.OperatorMTN, provider.collects[0].Operator)
}

func TestMakePaymentPendingSchedulesStatusCheck(t *testing.T) {
	provider := &fakeProvider{
		code: models.ProviderMeSomb,
		collectResult: &ProviderCollectResult{
			ProviderRef: "trx-2",
			Status:      models.PaymentPending,
		},
	}
	svc, _, boosts := newPaymentFixture(provider)

	before := time.Now()
	p, err := svc.MakePayment(context.Background(), momoInput())
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, p.Status)
	require.NotNil(t, p.NextCheckAt)
	assert.WithinDuration(t, before.Add(5*time.Second), *p.NextCheckAt, time.Second)
	assert.Empty(t, boosts.confirmed, "no boost until the charge confirms")
}

func TestMakePaymentPendingWithoutReferenceFails(t *testing.T) {
	provider := &fakeProvider{
		code:          models.ProviderMeSomb,
		collectResult: &ProviderCollectResult{Status: models.PaymentPending},
	}
	svc, _, boosts := newPaymentFixture(provider)

	p, err := svc.MakePayment(context.Background(), momoInput())
	assert.ErrorIs(t, err, utils.ErrProviderUnavailable)
	require.NotNil(t, p)

	// An unpollable collection must not be left pending forever.
	assert.Equal(t, models.PaymentFailed, p.Status)
	assert.Nil(t, p.NextCheckAt, "nothing to poll without a transaction id")
	require.NotNil(t, p.FailedReason)
	assert.Equal(t, "PROVIDER_NO_REFERENCE", *p.FailedReason)
	assert.Empty(t, boosts.confirmed)
}

func TestMakePaymentFailureTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		result  *ProviderCollectResult
		wantErr error
	}{
		{
			"account not found",
			&ProviderCollectResult{Status: models.PaymentFailed, FailureKind: FailureAccountNotFound, FailureCode: "SUBSCRIBER-NOT-FOUND"},
			utils.ErrAccountNotFound,
		},
		{
			"declined",
			&ProviderCollectResult{Status: models.PaymentFailed, FailureKind: FailureDeclined, FailureCode: "INSUFFICIENT-BALANCE"},
			utils.ErrPaymentDeclined,
		},
		{
			"retryable maps to provider unavailable",
			&ProviderCollectResult{Status: models.PaymentFailed, FailureKind: FailureRetryable, FailureCode: "SERVICE-500"},
			utils.ErrProviderUnavailable,
		},
		{
			"cancelled by payer",
			&ProviderCollectResult{Status: models.PaymentCancelled, FailureKind: FailureDeclined, FailureCode: "CANCELED"},
			utils.ErrPaymentDeclined,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{code: models.ProviderMeSomb, collectResult: tt.result}
			svc, _, _ := newPaymentFixture(provider)

			p, err := svc.MakePayment(context.Background(), momoInput())
			assert.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, p)
			assert.Equal(t, tt.result.Status, p.Status)
			require.NotNil(t, p.FailedReason)
			assert.Equal(t, tt.result.FailureCode, *p.FailedReason)
		})
	}
}

func TestMakePaymentTransportErrorMarksFailed(t *testing.T) {
	provider := &fakeProvider{code: models.ProviderMeSomb, collectErr: assert.AnError}
	svc, _, _ := newPaymentFixture(provider)

	p, err := svc.MakePayment(context.Background(), momoInput())
	assert.ErrorIs(t, err, utils.ErrProviderUnavailable)
	require.NotNil(t, p)
	assert.Equal(t, models.PaymentFailed, p.Status)
	require.NotNil(t, p.FailedReason)
	assert.Equal(t, "PROVIDER_UNAVAILABLE", *p.FailedReason)
}

func TestMakePaymentPayPalNotImplemented(t *testing.T) {
	svc, _, _ := newPaymentFixture(&fakeProvider{code: models.ProviderMeSomb})
	// Router has no PayPal provider registered.
	in := momoInput()
	in.Method = models.MethodPayPal
	in.Phone = ""

	_, err := svc.MakePayment(context.Background(), in)
	assert.ErrorIs(t, err, utils.ErrProviderUnavailable)

	// With the placeholder registered, the dedicated error surfaces.
	store := &fakePaymentStore{}
	svc = NewPaymentService(store, NewProviderRouter(NewPayPalProvider()), &fakeBoostConfirmer{}, time.Second)
	p, err := svc.MakePayment(context.Background(), in)
	assert.ErrorIs(t, err, utils.ErrPayPalNotImplemented)
	require.NotNil(t, p)
	assert.Equal(t, models.PaymentFailed, p.Status)
}

func TestApplyStatusResult(t *testing.T) {
	provider := &fakeProvider{code: models.ProviderMeSomb}
	svc, store, boosts := newPaymentFixture(provider)

	p := &models.Payment{ID: 1, PaymentID: "MBA-20260829-000001", Status: models.PaymentPending}

	// Pending result leaves the payment untouched.
	svc.ApplyStatusResult(p, &ProviderStatusResult{Status: models.PaymentPending})
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.Empty(t, store.updated)

	// Success settles and writes the boost.
	svc.ApplyStatusResult(p, &ProviderStatusResult{Status: models.PaymentSuccess})
	assert.Equal(t, models.PaymentSuccess, p.Status)
	require.Len(t, boosts.confirmed, 1)

	// Terminal payments ignore late results.
	svc.ApplyStatusResult(p, &ProviderStatusResult{Status: models.PaymentFailed, FailureCode: "LATE"})
	assert.Equal(t, models.PaymentSuccess, p.Status)
}

func TestApplyStatusResultBoostFailureFlagsCompensation(t *testing.T) {
	provider := &fakeProvider{code: models.ProviderMeSomb}
	store := &fakePaymentStore{}
	boosts := &fakeBoostConfirmer{err: assert.AnError}
	svc := NewPaymentService(store, NewProviderRouter(provider), boosts, time.Second)

	p := &models.Payment{ID: 1, PaymentID: "MBA-20260829-000001", Status: models.PaymentPending}
	svc.ApplyStatusResult(p, &ProviderStatusResult{Status: models.PaymentSuccess})

	assert.Equal(t, models.PaymentSuccess, p.Status, "charge already happened, payment stays successful")
	assert.True(t, p.CompensationRequired, "failed boost insert must be flagged for retry")
}

func TestGetPaymentScopedToOwner(t *testing.T) {
	provider := &fakeProvider{
		code:          models.ProviderMeSomb,
		collectResult: &ProviderCollectResult{ProviderRef: "trx-3", Status: models.PaymentPending},
	}
	svc, _, _ := newPaymentFixture(provider)

	created, err := svc.MakePayment(context.Background(), momoInput())
	require.NoError(t, err)

	got, err := svc.GetPayment(created.PaymentID, 7)
	require.NoError(t, err)
	assert.Equal(t, created.PaymentID, got.PaymentID)

	_, err = svc.GetPayment(created.PaymentID, 8)
	assert.ErrorIs(t, err, utils.ErrPaymentNotFound, "other users must not see the payment")
}
