package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
)

// BoostStore is the persistence surface the boost writer needs.
type BoostStore interface {
	Create(b *models.Boost) error
	GetByPaymentID(paymentID int) (*models.Boost, error)
	GetActiveByListing(listingID int) (*models.Boost, error)
	ListByOwner(ownerID, page, limit int) ([]models.Boost, int, error)
	DeactivateExpired() ([]int, error)
}

// BoostService creates and manages listing boosts. A boost row is written only
// after the payment provider reports a successful charge.
type BoostService struct {
	repo BoostStore
}

// NewBoostService constructs a BoostService.
func NewBoostService(repo BoostStore) *BoostService {
	return &BoostService{repo: repo}
}

// ConfirmPayment writes the boost for a successfully charged payment. The
// boosts.payment_id unique constraint makes this idempotent: a replayed
// confirmation (webhook plus poller racing, or a retried worker batch) finds
// the existing row instead of creating a second one.
func (s *BoostService) ConfirmPayment(p *models.Payment) (*models.Boost, error) {
	now := time.Now()
	boost := &models.Boost{
		ListingID:     p.ListingID,
		OwnerID:       p.UserID,
		PaymentID:     p.ID,
		Tier:          p.Tier,
		StartsAt:      now,
		ExpiresAt:     now.Add(time.Duration(p.Days) * 24 * time.Hour),
		PriceXAF:      p.AmountXAF,
		PaymentStatus: "paid",
		IsActive:      true,
	}

	err := s.repo.Create(boost)
	if err == nil {
		log.Info().
			Str("payment_id", p.PaymentID).
			Int("listing_id", p.ListingID).
			Str("tier", string(p.Tier)).
			Time("expires_at", boost.ExpiresAt).
			Msg("boost activated")
		return boost, nil
	}

	if repository.IsUniqueViolation(err) {
		existing, getErr := s.repo.GetByPaymentID(p.ID)
		if getErr != nil {
			return nil, getErr
		}
		log.Info().
			Str("payment_id", p.PaymentID).
			Int("boost_id", existing.ID).
			Msg("boost confirmation replayed, returning existing boost")
		return existing, nil
	}
	return nil, err
}

// GetActiveBoost returns a listing's live boost, or nil when none.
func (s *BoostService) GetActiveBoost(listingID int) (*models.Boost, error) {
	return s.repo.GetActiveByListing(listingID)
}

// ListByOwner returns an owner's boost history.
func (s *BoostService) ListByOwner(ownerID, page, limit int) ([]models.Boost, int, error) {
	return s.repo.ListByOwner(ownerID, page, limit)
}

// ExpireBoosts deactivates boosts past their expiry and returns the affected
// listing ids. Invoked periodically by the expiry worker.
func (s *BoostService) ExpireBoosts() ([]int, error) {
	ids, err := s.repo.DeactivateExpired()
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		log.Info().Int("count", len(ids)).Msg("deactivated expired boosts")
	}
	return ids, nil
}
