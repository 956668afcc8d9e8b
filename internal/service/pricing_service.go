package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// PricingStore is the persistence surface the pricing resolver needs.
type PricingStore interface {
	GetByTier(tier models.TierCode) (*models.BoostPricing, error)
	GetAll() ([]models.BoostPricing, error)
	Upsert(p *models.BoostPricing) error
}

// PricingCacheStore caches resolved rates between quotes.
type PricingCacheStore interface {
	Get(ctx context.Context, tier models.TierCode) (*models.BoostPricing, error)
	Set(ctx context.Context, row *models.BoostPricing) error
	Invalidate(ctx context.Context, tiers ...models.TierCode) error
}

// PricingService resolves boost tier rates and computes quotes.
// Rate resolution order: cache, then boost_pricing table, then the static
// default table. Lookup failures fall back silently so a quote is always
// produced.
type PricingService struct {
	repo    PricingStore
	cache   PricingCacheStore
	maxDays int
}

// NewPricingService constructs a PricingService. cache may be nil.
func NewPricingService(repo PricingStore, cache PricingCacheStore, maxDays int) *PricingService {
	if maxDays < 1 {
		maxDays = 30
	}
	return &PricingService{repo: repo, cache: cache, maxDays: maxDays}
}

// defaultRate returns the static per-day price for a tier.
func defaultRate(tier models.TierCode) int {
	for _, t := range models.DefaultTiers {
		if t.Code == tier {
			return t.PricePerDay
		}
	}
	return 0
}

// ResolveRate returns the per-day XAF rate for a tier.
func (s *PricingService) ResolveRate(ctx context.Context, tier models.TierCode) int {
	if s.cache != nil {
		if row, err := s.cache.Get(ctx, tier); err == nil {
			return row.PricePerDay
		}
	}

	row, err := s.repo.GetByTier(tier)
	if err != nil {
		// No override row or lookup failure: quote from the default table.
		return defaultRate(tier)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, row); err != nil {
			log.Warn().Err(err).Str("tier", string(tier)).Msg("failed to cache pricing row")
		}
	}
	return row.PricePerDay
}

// Quote computes the total price for boosting a listing at the given tier for
// the given number of days. XAF has no subunit, so the result is an exact
// integer multiple of the daily rate.
func (s *PricingService) Quote(ctx context.Context, tier models.TierCode, days int) (int, error) {
	if !models.ValidTier(tier) {
		return 0, utils.ErrInvalidTier
	}
	if days < 1 || days > s.maxDays {
		return 0, utils.ErrInvalidDuration
	}
	return s.ResolveRate(ctx, tier) * days, nil
}

// GetTiers returns the tier catalog with current per-day rates applied.
func (s *PricingService) GetTiers(ctx context.Context) []models.BoostTier {
	tiers := make([]models.BoostTier, len(models.DefaultTiers))
	copy(tiers, models.DefaultTiers)
	for i := range tiers {
		tiers[i].PricePerDay = s.ResolveRate(ctx, tiers[i].Code)
	}
	return tiers
}

// SetRate writes an admin pricing override and invalidates the cached rate.
func (s *PricingService) SetRate(ctx context.Context, tier models.TierCode, pricePerDay int) (*models.BoostPricing, error) {
	if !models.ValidTier(tier) {
		return nil, utils.ErrInvalidTier
	}
	if pricePerDay < 1 {
		return nil, utils.ErrInvalidDuration
	}

	row := &models.BoostPricing{Tier: tier, PricePerDay: pricePerDay}
	if err := s.repo.Upsert(row); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, tier); err != nil {
			log.Warn().Err(err).Str("tier", string(tier)).Msg("failed to invalidate pricing cache")
		}
	}
	return row, nil
}
