package service

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MboaMarket/mboa_api/internal/models"
)

type fakeBoostStore struct {
	created   []*models.Boost
	createErr error
	existing  map[int]*models.Boost
}

func (f *fakeBoostStore) Create(b *models.Boost) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = len(f.created) + 1
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBoostStore) GetByPaymentID(paymentID int) (*models.Boost, error) {
	return f.existing[paymentID], nil
}

func (f *fakeBoostStore) GetActiveByListing(listingID int) (*models.Boost, error) {
	return nil, nil
}

func (f *fakeBoostStore) ListByOwner(ownerID, page, limit int) ([]models.Boost, int, error) {
	return nil, 0, nil
}

func (f *fakeBoostStore) DeactivateExpired() ([]int, error) {
	return []int{1, 2}, nil
}

func paidPayment() *models.Payment {
	return &models.Payment{
		ID:        42,
		PaymentID: "MBA-20260829-000042",
		UserID:    7,
		ListingID: 99,
		Tier:      models.TierPremium,
		Days:      14,
		AmountXAF: 28000,
		Status:    models.PaymentSuccess,
	}
}

func TestConfirmPaymentCreatesBoost(t *testing.T) {
	store := &fakeBoostStore{}
	svc := NewBoostService(store)

	before := time.Now()
	boost, err := svc.ConfirmPayment(paidPayment())
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	assert.Equal(t, 99, boost.ListingID)
	assert.Equal(t, 7, boost.OwnerID)
	assert.Equal(t, 42, boost.PaymentID)
	assert.Equal(t, models.TierPremium, boost.Tier)
	assert.Equal(t, 28000, boost.PriceXAF)
	assert.True(t, boost.IsActive)

	// 14 days at 24h each, measured from the confirmation instant.
	wantExpiry := boost.StartsAt.Add(14 * 24 * time.Hour)
	assert.Equal(t, wantExpiry, boost.ExpiresAt)
	assert.WithinDuration(t, before, boost.StartsAt, time.Second)
}

func TestConfirmPaymentReplayReturnsExistingBoost(t *testing.T) {
	existing := &models.Boost{ID: 5, PaymentID: 42, ListingID: 99, IsActive: true}
	store := &fakeBoostStore{
		createErr: &pq.Error{Code: "23505", Constraint: "boosts_payment_id_key"},
		existing:  map[int]*models.Boost{42: existing},
	}
	svc := NewBoostService(store)

	boost, err := svc.ConfirmPayment(paidPayment())
	require.NoError(t, err)
	assert.Same(t, existing, boost, "replayed confirmation must return the original boost")
	assert.Empty(t, store.created)
}

func TestConfirmPaymentPropagatesOtherErrors(t *testing.T) {
	store := &fakeBoostStore{createErr: assert.AnError}
	svc := NewBoostService(store)

	_, err := svc.ConfirmPayment(paidPayment())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExpireBoosts(t *testing.T) {
	svc := NewBoostService(&fakeBoostStore{})
	ids, err := svc.ExpireBoosts()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}
