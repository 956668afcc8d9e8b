package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// pricingTTL bounds how stale a cached rate can be. Pricing rows change
// rarely; five minutes keeps admin price updates visible quickly enough.
const pricingTTL = 5 * time.Minute

// PricingCache caches boost_pricing rows so the pricing resolver does not hit
// PostgreSQL on every quote.
type PricingCache struct {
	redis *RedisClient
}

// NewPricingCache creates a new PricingCache.
func NewPricingCache(redis *RedisClient) *PricingCache {
	return &PricingCache{redis: redis}
}

func (c *PricingCache) key(tier models.TierCode) string {
	return fmt.Sprintf("boost:pricing:%s", tier)
}

// Set stores one pricing row.
func (c *PricingCache) Set(ctx context.Context, row *models.BoostPricing) error {
	jsonData, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal pricing row: %w", err)
	}
	return c.redis.Set(ctx, c.key(row.Tier), string(jsonData), pricingTTL)
}

// Get retrieves a cached pricing row. Returns redis.Nil via the wrapped client
// when the tier is not cached.
func (c *PricingCache) Get(ctx context.Context, tier models.TierCode) (*models.BoostPricing, error) {
	jsonData, err := c.redis.Get(ctx, c.key(tier))
	if err != nil {
		return nil, err
	}
	var row models.BoostPricing
	if err := json.Unmarshal([]byte(jsonData), &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pricing row: %w", err)
	}
	return &row, nil
}

// Invalidate drops cached rates for the given tiers (all tiers when empty).
func (c *PricingCache) Invalidate(ctx context.Context, tiers ...models.TierCode) error {
	if len(tiers) == 0 {
		tiers = []models.TierCode{models.TierFeatured, models.TierPremium, models.TierTop}
	}
	keys := make([]string, 0, len(tiers))
	for _, t := range tiers {
		keys = append(keys, c.key(t))
	}
	return c.redis.Delete(ctx, keys...)
}
