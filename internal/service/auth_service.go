package service

import (
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// AuthService registers and authenticates marketplace users.
type AuthService struct {
	userRepo *repository.UserRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// Register creates a user account and returns it with a session token.
func (s *AuthService) Register(in *RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := s.userRepo.ExistsEmail(email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", utils.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		IsActive:     true,
	}
	if in.Phone != "" {
		phone := utils.NormalizePhone(in.Phone)
		user.Phone = &phone
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, utils.ScopeUser)
	if err != nil {
		return nil, "", err
	}

	log.Info().Int("user_id", user.ID).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", utils.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, utils.ScopeUser)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.TouchLastSeen(user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("failed to update last seen")
	}
	return user, token, nil
}

// GetProfile returns a user's profile.
func (s *AuthService) GetProfile(userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput carries mutable profile fields.
type UpdateProfileInput struct {
	Name       string  `json:"name" binding:"required"`
	Phone      *string `json:"phone"`
	AvatarURL  *string `json:"avatarUrl"`
	Bio        *string `json:"bio"`
	LocationID *int    `json:"locationId"`
}

// UpdateProfile persists profile changes for the caller.
func (s *AuthService) UpdateProfile(userID int, in *UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(in.Name)
	user.AvatarURL = in.AvatarURL
	user.Bio = in.Bio
	user.LocationID = in.LocationID
	if in.Phone != nil {
		phone := utils.NormalizePhone(*in.Phone)
		user.Phone = &phone
	} else {
		user.Phone = nil
	}

	if err := s.userRepo.UpdateProfile(user); err != nil {
		return nil, err
	}
	return user, nil
}
