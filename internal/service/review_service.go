package service

import (
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// ReviewService contains business logic for seller reviews.
type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	listingRepo *repository.ListingRepository
	userRepo    *repository.UserRepository
}

// NewReviewService constructs a ReviewService.
func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, listingRepo: listingRepo, userRepo: userRepo}
}

// CreateReviewInput is the payload for reviewing a seller.
type CreateReviewInput struct {
	ListingID int    `json:"listingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"max=1000"`
}

// Create records a review of a listing's seller. One review per reviewer per
// listing; sellers cannot review themselves.
func (s *ReviewService) Create(reviewerID int, in *CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, utils.ErrInvalidRating
	}

	listing, err := s.listingRepo.GetByID(in.ListingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrListingNotFound
		}
		return nil, err
	}
	if listing.OwnerID == reviewerID {
		return nil, utils.ErrSelfReview
	}

	exists, err := s.reviewRepo.Exists(in.ListingID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrAlreadyReviewed
	}

	review := &models.Review{
		ListingID:  in.ListingID,
		SellerID:   listing.OwnerID,
		ReviewerID: reviewerID,
		Rating:     in.Rating,
	}
	if comment := strings.TrimSpace(in.Comment); comment != "" {
		review.Comment = &comment
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrAlreadyReviewed
		}
		return nil, err
	}

	if err := s.userRepo.RefreshRating(listing.OwnerID); err != nil {
		log.Warn().Err(err).Int("seller_id", listing.OwnerID).Msg("failed to refresh seller rating")
	}
	return review, nil
}

// ListBySeller returns a seller's reviews.
func (s *ReviewService) ListBySeller(sellerID, page, limit int) ([]models.Review, int, error) {
	return s.reviewRepo.ListBySeller(sellerID, page, limit)
}
