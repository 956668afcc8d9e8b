package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")

	ErrListingNotFound = errors.New("LISTING_NOT_FOUND")
	ErrNotListingOwner = errors.New("NOT_LISTING_OWNER")
	ErrListingInactive = errors.New("LISTING_INACTIVE")

	ErrCategoryNotFound = errors.New("CATEGORY_NOT_FOUND")
	ErrLocationNotFound = errors.New("LOCATION_NOT_FOUND")

	ErrAlreadyReviewed = errors.New("ALREADY_REVIEWED")
	ErrSelfReview      = errors.New("SELF_REVIEW")
	ErrInvalidRating   = errors.New("INVALID_RATING")

	ErrConversationNotFound = errors.New("CONVERSATION_NOT_FOUND")
	ErrNotParticipant       = errors.New("NOT_PARTICIPANT")
	ErrSelfConversation     = errors.New("SELF_CONVERSATION")
	ErrEmptyMessage         = errors.New("EMPTY_MESSAGE")

	ErrInvalidTier          = errors.New("INVALID_TIER")
	ErrInvalidDuration      = errors.New("INVALID_DURATION")
	ErrSessionNotFound      = errors.New("SESSION_NOT_FOUND")
	ErrInvalidTransition    = errors.New("INVALID_TRANSITION")
	ErrMissingPhone         = errors.New("MISSING_PHONE")
	ErrMissingMethod        = errors.New("MISSING_METHOD")
	ErrInvalidPhone         = errors.New("INVALID_PHONE")
	ErrPaymentNotFound      = errors.New("PAYMENT_NOT_FOUND")
	ErrPaymentDeclined      = errors.New("PAYMENT_DECLINED")
	ErrAccountNotFound      = errors.New("MOMO_ACCOUNT_NOT_FOUND")
	ErrPaymentTimeout       = errors.New("PAYMENT_TIMEOUT")
	ErrProviderUnavailable  = errors.New("PROVIDER_UNAVAILABLE")
	ErrPayPalNotImplemented = errors.New("PAYPAL_NOT_IMPLEMENTED")
)
