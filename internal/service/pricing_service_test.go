package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

type fakePricingStore struct {
	rows    map[models.TierCode]*models.BoostPricing
	err     error
	upserts []*models.BoostPricing
}

func (f *fakePricingStore) GetByTier(tier models.TierCode) (*models.BoostPricing, error) {
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[tier]
	if !ok {
		return nil, errors.New("no rows")
	}
	return row, nil
}

func (f *fakePricingStore) GetAll() ([]models.BoostPricing, error) {
	var all []models.BoostPricing
	for _, row := range f.rows {
		all = append(all, *row)
	}
	return all, nil
}

func (f *fakePricingStore) Upsert(p *models.BoostPricing) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, p)
	return nil
}

type fakePricingCache struct {
	rows        map[models.TierCode]*models.BoostPricing
	sets        int
	invalidated []models.TierCode
}

func (f *fakePricingCache) Get(ctx context.Context, tier models.TierCode) (*models.BoostPricing, error) {
	row, ok := f.rows[tier]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return row, nil
}

func (f *fakePricingCache) Set(ctx context.Context, row *models.BoostPricing) error {
	f.sets++
	return nil
}

func (f *fakePricingCache) Invalidate(ctx context.Context, tiers ...models.TierCode) error {
	f.invalidated = append(f.invalidated, tiers...)
	return nil
}

func TestResolveRateFallsBackToDefaults(t *testing.T) {
	svc := NewPricingService(&fakePricingStore{err: errors.New("db down")}, nil, 30)

	assert.Equal(t, 1000, svc.ResolveRate(context.Background(), models.TierFeatured))
	assert.Equal(t, 2000, svc.ResolveRate(context.Background(), models.TierPremium))
	assert.Equal(t, 3500, svc.ResolveRate(context.Background(), models.TierTop))
}

func TestResolveRatePrefersCacheThenRepo(t *testing.T) {
	store := &fakePricingStore{rows: map[models.TierCode]*models.BoostPricing{
		models.TierPremium: {Tier: models.TierPremium, PricePerDay: 2500},
	}}
	cache := &fakePricingCache{rows: map[models.TierCode]*models.BoostPricing{
		models.TierTop: {Tier: models.TierTop, PricePerDay: 4000},
	}}
	svc := NewPricingService(store, cache, 30)

	// Cache hit wins outright.
	assert.Equal(t, 4000, svc.ResolveRate(context.Background(), models.TierTop))

	// Cache miss falls through to the repo and backfills the cache.
	assert.Equal(t, 2500, svc.ResolveRate(context.Background(), models.TierPremium))
	assert.Equal(t, 1, cache.sets)
}

func TestQuote(t *testing.T) {
	store := &fakePricingStore{rows: map[models.TierCode]*models.BoostPricing{}}
	svc := NewPricingService(store, nil, 30)

	tests := []struct {
		name    string
		tier    models.TierCode
		days    int
		want    int
		wantErr error
	}{
		{"premium two weeks", models.TierPremium, 14, 28000, nil},
		{"featured one day", models.TierFeatured, 1, 1000, nil},
		{"top max duration", models.TierTop, 30, 105000, nil},
		{"unknown tier", models.TierCode("gold"), 7, 0, utils.ErrInvalidTier},
		{"zero days", models.TierPremium, 0, 0, utils.ErrInvalidDuration},
		{"negative days", models.TierPremium, -3, 0, utils.ErrInvalidDuration},
		{"over max days", models.TierPremium, 31, 0, utils.ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Quote(context.Background(), tt.tier, tt.days)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetTiersAppliesOverrides(t *testing.T) {
	store := &fakePricingStore{rows: map[models.TierCode]*models.BoostPricing{
		models.TierFeatured: {Tier: models.TierFeatured, PricePerDay: 1500},
	}}
	svc := NewPricingService(store, nil, 30)

	tiers := svc.GetTiers(context.Background())
	require.Len(t, tiers, 3)
	byCode := map[models.TierCode]models.BoostTier{}
	for _, tier := range tiers {
		byCode[tier.Code] = tier
	}
	assert.Equal(t, 1500, byCode[models.TierFeatured].PricePerDay, "override row applies")
	assert.Equal(t, 2000, byCode[models.TierPremium].PricePerDay, "default applies without a row")
}

func TestSetRate(t *testing.T) {
	store := &fakePricingStore{rows: map[models.TierCode]*models.BoostPricing{}}
	cache := &fakePricingCache{}
	svc := NewPricingService(store, cache, 30)

	row, err := svc.SetRate(context.Background(), models.TierPremium, 2400)
	require.NoError(t, err)
	assert.Equal(t, 2400, row.PricePerDay)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, []models.TierCode{models.TierPremium}, cache.invalidated)

	_, err = svc.SetRate(context.Background(), models.TierCode("gold"), 2400)
	assert.ErrorIs(t, err, utils.ErrInvalidTier)

	_, err = svc.SetRate(context.Background(), models.TierPremium, 0)
	assert.ErrorIs(t, err, utils.ErrInvalidDuration)
}
