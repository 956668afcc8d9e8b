package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/service"
)

// BoostExpiryWorker periodically deactivates boosts past their expiry so
// expired promotions stop influencing search ranking.
type BoostExpiryWorker struct {
	boostSvc *service.BoostService
	interval time.Duration
}

// NewBoostExpiryWorker constructs a BoostExpiryWorker.
func NewBoostExpiryWorker(boostSvc *service.BoostService, interval time.Duration) *BoostExpiryWorker {
	return &BoostExpiryWorker{boostSvc: boostSvc, interval: interval}
}

// Start begins the periodic expiry sweep until context is canceled.
func (w *BoostExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting boost expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.boostSvc.ExpireBoosts(); err != nil {
				log.Error().Err(err).Msg("Boost expiry sweep failed")
			}
		case <-ctx.Done():
			log.Info().Msg("Boost expiry worker stopped")
			return
		}
	}
}
