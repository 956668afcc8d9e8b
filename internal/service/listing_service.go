package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// ListingService contains business logic for classified ads.
type ListingService struct {
	listingRepo  *repository.ListingRepository
	categoryRepo *repository.CategoryRepository
	locationRepo *repository.LocationRepository
	moderation   *ModerationService
	storage      *StorageService
}

// NewListingService constructs a ListingService.
func NewListingService(
	listingRepo *repository.ListingRepository,
	categoryRepo *repository.CategoryRepository,
	locationRepo *repository.LocationRepository,
	moderation *ModerationService,
	storage *StorageService,
) *ListingService {
	return &ListingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		moderation:   moderation,
		storage:      storage,
	}
}

// CreateListingInput is the payload for posting an ad.
type CreateListingInput struct {
	CategoryID  int    `json:"categoryId" binding:"required"`
	LocationID  int    `json:"locationId" binding:"required"`
	Title       string `json:"title" binding:"required,min=3,max=120"`
	Description string `json:"description" binding:"required,min=10"`
	PriceXAF    int    `json:"priceXaf" binding:"required,min=1"`
	Negotiable  bool   `json:"negotiable"`
	Condition   string `json:"condition" binding:"omitempty,oneof=new used"`
}

// Create posts a new listing. New listings go live immediately; image uploads
// are screened separately and flagged content is pulled into the moderation
// queue by admins.
func (s *ListingService) Create(ownerID int, in *CreateListingInput) (*models.Listing, error) {
	if _, err := s.categoryRepo.GetByID(in.CategoryID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	if _, err := s.locationRepo.GetByID(in.LocationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrLocationNotFound
		}
		return nil, err
	}

	listing := &models.Listing{
		OwnerID:     ownerID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PriceXAF:    in.PriceXAF,
		Negotiable:  in.Negotiable,
		Status:      models.ListingActive,
	}
	if in.Condition != "" {
		listing.Condition = &in.Condition
	}
	if err := s.listingRepo.Create(listing); err != nil {
		return nil, err
	}

	log.Info().Int("listing_id", listing.ID).Int("owner_id", ownerID).Msg("listing created")
	return listing, nil
}

// Get returns a listing with its images, bumping the view counter for
// non-owner views.
func (s *ListingService) Get(id int, viewerID int) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrListingNotFound
		}
		return nil, err
	}

	images, err := s.listingRepo.GetImages(id)
	if err != nil {
		log.Warn().Err(err).Int("listing_id", id).Msg("failed to load listing images")
	} else {
		listing.Images = images
	}

	if viewerID != listing.OwnerID {
		if err := s.listingRepo.IncrementViews(id); err != nil {
			log.Warn().Err(err).Int("listing_id", id).Msg("failed to increment views")
		}
	}
	return listing, nil
}

// getOwned loads a listing and verifies ownership.
func (s *ListingService) getOwned(id, ownerID int) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrListingNotFound
		}
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, utils.ErrNotListingOwner
	}
	return listing, nil
}

// Update edits an owned listing.
func (s *ListingService) Update(id, ownerID int, in *CreateListingInput) (*models.Listing, error) {
	listing, err := s.getOwned(id, ownerID)
	if err != nil {
		return nil, err
	}

	listing.CategoryID = in.CategoryID
	listing.LocationID = in.LocationID
	listing.Title = strings.TrimSpace(in.Title)
	listing.Description = strings.TrimSpace(in.Description)
	listing.PriceXAF = in.PriceXAF
	listing.Negotiable = in.Negotiable
	listing.Condition = nil
	if in.Condition != "" {
		listing.Condition = &in.Condition
	}

	if err := s.listingRepo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// MarkSold flags an owned listing as sold.
func (s *ListingService) MarkSold(id, ownerID int) error {
	if _, err := s.getOwned(id, ownerID); err != nil {
		return err
	}
	return s.listingRepo.UpdateStatus(id, models.ListingSold)
}

// Remove takes an owned listing off the marketplace.
func (s *ListingService) Remove(id, ownerID int) error {
	if _, err := s.getOwned(id, ownerID); err != nil {
		return err
	}
	return s.listingRepo.UpdateStatus(id, models.ListingRemoved)
}

// Search returns active listings matching the filter. Category and location
// filters include their whole subtree, so searching a region covers its
// cities and quarters.
func (s *ListingService) Search(filter *repository.ListingFilter) (*repository.ListingResult, error) {
	active := models.ListingActive
	filter.Status = &active

	if len(filter.CategoryIDs) == 1 {
		ids, err := s.categoryRepo.SubtreeIDs(filter.CategoryIDs[0])
		if err == nil && len(ids) > 0 {
			filter.CategoryIDs = ids
		}
	}
	if len(filter.LocationIDs) == 1 {
		ids, err := s.locationRepo.SubtreeIDs(filter.LocationIDs[0])
		if err == nil && len(ids) > 0 {
			filter.LocationIDs = ids
		}
	}

	return s.listingRepo.Search(filter)
}

// ListByOwner returns a user's own listings regardless of status.
func (s *ListingService) ListByOwner(ownerID, page, limit int) (*repository.ListingResult, error) {
	return s.listingRepo.Search(&repository.ListingFilter{
		OwnerID: &ownerID,
		Page:    page,
		Limit:   limit,
	})
}

// AddImage screens, uploads and attaches an image to an owned listing. A
// rejected image is never stored and parks the listing in the moderation
// queue for admin review.
func (s *ListingService) AddImage(ctx context.Context, listingID, ownerID int, image []byte, sortOrder int) (*models.ListingImage, *ModerationResult, error) {
	if _, err := s.getOwned(listingID, ownerID); err != nil {
		return nil, nil, err
	}

	result, err := s.moderation.CheckImage(ctx, image)
	if err != nil {
		return nil, nil, err
	}
	if !result.Approved {
		if err := s.listingRepo.UpdateStatus(listingID, models.ListingPendingReview); err != nil {
			log.Error().Err(err).Int("listing_id", listingID).Msg("failed to queue listing for review")
		}
		return nil, result, nil
	}

	url, err := s.storage.UploadListingImage(ctx, listingID, image)
	if err != nil {
		return nil, nil, err
	}

	img := &models.ListingImage{ListingID: listingID, URL: url, SortOrder: sortOrder}
	if err := s.listingRepo.AddImage(img); err != nil {
		return nil, nil, err
	}
	return img, result, nil
}

// ModerationQueue returns listings awaiting admin review.
func (s *ListingService) ModerationQueue(limit int) ([]models.Listing, error) {
	return s.listingRepo.GetModerationQueue(limit)
}

// Moderate applies an admin decision to a queued listing.
func (s *ListingService) Moderate(listingID int, approve bool) error {
	if _, err := s.listingRepo.GetByID(listingID); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrListingNotFound
		}
		return err
	}
	status := models.ListingRemoved
	if approve {
		status = models.ListingActive
	}
	return s.listingRepo.UpdateStatus(listingID, status)
}
