package service

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

type fakeSessionStore struct {
	sessions map[string]*models.CheckoutSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.CheckoutSession{}}
}

func (f *fakeSessionStore) Set(ctx context.Context, session *models.CheckoutSession) error {
	copied := *session
	f.sessions[session.SessionID] = &copied
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, redis.Nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.CheckoutSession, error) {
	for _, session := range f.sessions {
		if session.PaymentID == paymentID {
			copied := *session
			return &copied, nil
		}
	}
	return nil, redis.Nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, session *models.CheckoutSession) error {
	delete(f.sessions, session.SessionID)
	return nil
}

type fakeQuoter struct {
	rate   int
	quotes int
}

func (f *fakeQuoter) Quote(ctx context.Context, tier models.TierCode, days int) (int, error) {
	if !models.ValidTier(tier) {
		return 0, utils.ErrInvalidTier
	}
	if days < 1 {
		return 0, utils.ErrInvalidDuration
	}
	f.quotes++
	return f.rate * days, nil
}

type fakePaymentMaker struct {
	payment *models.Payment
	err     error
	inputs  []*MakePaymentInput
}

func (f *fakePaymentMaker) MakePayment(ctx context.Context, in *MakePaymentInput) (*models.Payment, error) {
	f.inputs = append(f.inputs, in)
	return f.payment, f.err
}

func (f *fakePaymentMaker) GetPayment(paymentID string, userID int) (*models.Payment, error) {
	if f.payment != nil && f.payment.PaymentID == paymentID {
		return f.payment, nil
	}
	return nil, utils.ErrPaymentNotFound
}

type fakeListingReader struct {
	listings map[int]*models.Listing
}

func (f *fakeListingReader) GetByID(id int) (*models.Listing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return nil, utils.ErrListingNotFound
	}
	return listing, nil
}

func newCheckoutFixture(payments *fakePaymentMaker) (*CheckoutService, *fakeSessionStore, *fakeQuoter) {
	sessions := newFakeSessionStore()
	quoter := &fakeQuoter{rate: 2000}
	listings := &fakeListingReader{listings: map[int]*models.Listing{
		99: {ID: 99, OwnerID: 7, Status: models.ListingActive},
		50: {ID: 50, OwnerID: 8, Status: models.ListingActive},
		60: {ID: 60, OwnerID: 7, Status: models.ListingSold},
	}}
	return NewCheckoutService(sessions, quoter, payments, listings, 7, 30), sessions, quoter
}

// walkToConfirm drives a fresh session to the confirm step.
func walkToConfirm(t *testing.T, svc *CheckoutService) *models.CheckoutSession {
	t.Helper()
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)
	require.Equal(t, models.StepSelectTier, session.Step)

	session, err = svc.SelectTier(ctx, session.SessionID, 7, models.TierPremium)
	require.NoError(t, err)
	require.Equal(t, models.StepSelectDuration, session.Step)

	session, err = svc.SelectDuration(ctx, session.SessionID, 7, 14)
	require.NoError(t, err)
	require.Equal(t, models.StepSelectMethod, session.Step)

	session, err = svc.SelectMethod(ctx, session.SessionID, 7, models.MethodMTNMoMo, "670123456")
	require.NoError(t, err)
	require.Equal(t, models.StepConfirm, session.Step)
	return session
}

func TestStartChecksListing(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, 12345)
	assert.Error(t, err)

	_, err = svc.Start(ctx, 7, 50)
	assert.ErrorIs(t, err, utils.ErrNotListingOwner)

	_, err = svc.Start(ctx, 7, 60)
	assert.ErrorIs(t, err, utils.ErrListingInactive)

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectTier, session.Step)
	assert.NotEmpty(t, session.SessionID)
}

func TestGetScopedToOwner(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)

	_, err = svc.Get(ctx, session.SessionID, 8)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)

	_, err = svc.Get(ctx, "nope", 7)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestWizardFreezesQuoteAtConfirm(t *testing.T) {
	svc, _, quoter := newCheckoutFixture(&fakePaymentMaker{})

	session := walkToConfirm(t, svc)
	assert.Equal(t, 28000, session.QuoteXAF)
	assert.Equal(t, 1, quoter.quotes)
	assert.Equal(t, "670123456", session.Phone)
	assert.Equal(t, models.MethodMTNMoMo, session.Method)
}

func TestStepGating(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)

	// Duration before tier is rejected.
	_, err = svc.SelectDuration(ctx, session.SessionID, 7, 14)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	// Method before tier is rejected.
	_, err = svc.SelectMethod(ctx, session.SessionID, 7, models.MethodMTNMoMo, "670123456")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	// Pay before confirm is rejected.
	_, err = svc.Pay(ctx, session.SessionID, 7)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestSelectTierAppliesDefaultDuration(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)

	session, err = svc.SelectTier(ctx, session.SessionID, 7, models.TierPremium)
	require.NoError(t, err)
	assert.Equal(t, 7, session.Days, "tier selection fills in the default duration")

	// Duration is an override, not a gate: the method step is reachable now.
	session, err = svc.SelectMethod(ctx, session.SessionID, 7, models.MethodMTNMoMo, "670123456")
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirm, session.Step)
	assert.Equal(t, 14000, session.QuoteXAF, "quote priced with the default duration")
}

func TestSelectTierKeepsChosenDuration(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session := walkToConfirm(t, svc)
	require.Equal(t, 14, session.Days)

	session, err := svc.SelectTier(ctx, session.SessionID, 7, models.TierTop)
	require.NoError(t, err)
	assert.Equal(t, 14, session.Days, "an explicit duration survives a tier change")
}

func TestSelectTierValidation(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)

	_, err = svc.SelectTier(ctx, session.SessionID, 7, models.TierCode("gold"))
	assert.ErrorIs(t, err, utils.ErrInvalidTier)
}

func TestSelectDurationValidation(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)
	_, err = svc.SelectTier(ctx, session.SessionID, 7, models.TierPremium)
	require.NoError(t, err)

	for _, days := range []int{0, -1, 31} {
		_, err = svc.SelectDuration(ctx, session.SessionID, 7, days)
		assert.ErrorIs(t, err, utils.ErrInvalidDuration)
	}
}

func TestSelectMethodValidatesPhone(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)
	_, err = svc.SelectTier(ctx, session.SessionID, 7, models.TierPremium)
	require.NoError(t, err)
	_, err = svc.SelectDuration(ctx, session.SessionID, 7, 14)
	require.NoError(t, err)

	_, err = svc.SelectMethod(ctx, session.SessionID, 7, models.MethodMTNMoMo, "")
	assert.ErrorIs(t, err, utils.ErrMissingPhone)

	_, err = svc.SelectMethod(ctx, session.SessionID, 7, models.MethodMTNMoMo, "690123456")
	assert.ErrorIs(t, err, utils.ErrInvalidPhone)

	_, err = svc.SelectMethod(ctx, session.SessionID, 7, models.PaymentMethod("bitcoin"), "")
	assert.ErrorIs(t, err, utils.ErrMissingMethod)
}

func TestPaySubmitsFrozenQuote(t *testing.T) {
	payments := &fakePaymentMaker{payment: &models.Payment{
		PaymentID: "MBA-20260829-000001",
		UserID:    7,
		Status:    models.PaymentPending,
	}}
	svc, _, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	session, err := svc.Pay(context.Background(), session.SessionID, 7)
	require.NoError(t, err)

	assert.Equal(t, models.StepProcessing, session.Step)
	assert.Equal(t, "MBA-20260829-000001", session.PaymentID)
	require.Len(t, payments.inputs, 1)
	assert.Equal(t, 28000, payments.inputs[0].AmountXAF, "charge uses the quote frozen at confirm")
	assert.Equal(t, models.TierPremium, payments.inputs[0].Tier)
	assert.Equal(t, 14, payments.inputs[0].Days)
}

func TestPayFailureParksOnErrorStep(t *testing.T) {
	reason := "INSUFFICIENT-BALANCE"
	payments := &fakePaymentMaker{
		payment: &models.Payment{
			PaymentID:    "MBA-20260829-000002",
			UserID:       7,
			Status:       models.PaymentFailed,
			FailedReason: &reason,
		},
		err: utils.ErrPaymentDeclined,
	}
	svc, _, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	session, err := svc.Pay(context.Background(), session.SessionID, 7)
	assert.ErrorIs(t, err, utils.ErrPaymentDeclined)

	require.NotNil(t, session)
	assert.Equal(t, models.StepError, session.Step)
	assert.Equal(t, "PAYMENT_DECLINED", session.ErrorCode)
	assert.Equal(t, reason, session.ErrorMessage)
}

func TestBackFromErrorReturnsToConfirm(t *testing.T) {
	payments := &fakePaymentMaker{
		payment: &models.Payment{PaymentID: "MBA-20260829-000003", UserID: 7, Status: models.PaymentFailed},
		err:     utils.ErrPaymentDeclined,
	}
	svc, _, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	_, err := svc.Pay(context.Background(), session.SessionID, 7)
	require.Error(t, err)

	session, err = svc.Back(context.Background(), session.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirm, session.Step)
	assert.Empty(t, session.ErrorCode)
	assert.Empty(t, session.PaymentID, "retry must create a fresh payment")
	assert.Equal(t, 28000, session.QuoteXAF, "quote survives the retry loop")
}

func TestBackThroughSelectionSteps(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session := walkToConfirm(t, svc)

	session, err := svc.Back(ctx, session.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectMethod, session.Step)

	session, err = svc.Back(ctx, session.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectDuration, session.Step)

	session, err = svc.Back(ctx, session.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectTier, session.Step)

	_, err = svc.Back(ctx, session.SessionID, 7)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestStatusResolvesTerminalPayment(t *testing.T) {
	payment := &models.Payment{
		PaymentID: "MBA-20260829-000004",
		UserID:    7,
		Status:    models.PaymentPending,
	}
	payments := &fakePaymentMaker{payment: payment}
	svc, sessions, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	session, err := svc.Pay(context.Background(), session.SessionID, 7)
	require.NoError(t, err)
	require.Equal(t, models.StepProcessing, session.Step)

	// Still pending: nothing moves.
	session, got, err := svc.Status(context.Background(), session.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StepProcessing, session.Step)
	assert.Equal(t, models.PaymentPending, got.Status)

	// Payment confirms: the wizard is done and the session is dropped.
	payment.Status = models.PaymentSuccess
	session, _, err = svc.Status(context.Background(), session.SessionID, 7)
	require.NoError(t, err)
	assert.NotContains(t, sessions.sessions, session.SessionID)
}

func TestStatusFailureParksOnErrorStep(t *testing.T) {
	reason := "PAYMENT_TIMEOUT"
	payment := &models.Payment{
		PaymentID: "MBA-20260829-000005",
		UserID:    7,
		Status:    models.PaymentPending,
	}
	payments := &fakePaymentMaker{payment: payment}
	svc, _, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	_, err := svc.Pay(context.Background(), session.SessionID, 7)
	require.NoError(t, err)

	payment.Status = models.PaymentFailed
	payment.FailedReason = &reason
	session, _, err = svc.Status(context.Background(), session.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StepError, session.Step)
	assert.Equal(t, "failed", session.ErrorCode)
	assert.Equal(t, reason, session.ErrorMessage)
}

func TestResolvePaymentCompletesProcessingSession(t *testing.T) {
	payment := &models.Payment{
		PaymentID: "MBA-20260829-000006",
		UserID:    7,
		Status:    models.PaymentPending,
	}
	payments := &fakePaymentMaker{payment: payment}
	svc, sessions, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	session, err := svc.Pay(context.Background(), session.SessionID, 7)
	require.NoError(t, err)
	require.Equal(t, models.StepProcessing, session.Step)

	// A non-terminal settle is a no-op.
	svc.ResolvePayment(context.Background(), payment)
	assert.Contains(t, sessions.sessions, session.SessionID)

	payment.Status = models.PaymentSuccess
	svc.ResolvePayment(context.Background(), payment)
	assert.NotContains(t, sessions.sessions, session.SessionID, "webhook settle ends the wizard")
}

func TestResolvePaymentFailureParksOnErrorStep(t *testing.T) {
	reason := "INSUFFICIENT-BALANCE"
	payment := &models.Payment{
		PaymentID: "MBA-20260829-000007",
		UserID:    7,
		Status:    models.PaymentPending,
	}
	payments := &fakePaymentMaker{payment: payment}
	svc, sessions, _ := newCheckoutFixture(payments)

	session := walkToConfirm(t, svc)
	session, err := svc.Pay(context.Background(), session.SessionID, 7)
	require.NoError(t, err)

	payment.Status = models.PaymentFailed
	payment.FailedReason = &reason
	svc.ResolvePayment(context.Background(), payment)

	stored := sessions.sessions[session.SessionID]
	require.NotNil(t, stored)
	assert.Equal(t, models.StepError, stored.Step)
	assert.Equal(t, "failed", stored.ErrorCode)
	assert.Equal(t, reason, stored.ErrorMessage)
}

func TestCancelDropsSession(t *testing.T) {
	svc, sessions, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 7, 99)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, session.SessionID, 7))
	assert.Empty(t, sessions.sessions)

	assert.ErrorIs(t, svc.Cancel(ctx, session.SessionID, 7), utils.ErrSessionNotFound)
}

func TestTierChangeInvalidatesFrozenQuote(t *testing.T) {
	svc, _, _ := newCheckoutFixture(&fakePaymentMaker{})
	ctx := context.Background()

	session := walkToConfirm(t, svc)
	require.Equal(t, 28000, session.QuoteXAF)

	session, err := svc.SelectTier(ctx, session.SessionID, 7, models.TierTop)
	require.NoError(t, err)
	assert.Zero(t, session.QuoteXAF, "changing the tier must drop the stale quote")
	assert.Equal(t, models.StepSelectDuration, session.Step)
}
