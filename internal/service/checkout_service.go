package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// SessionStore persists checkout wizard sessions.
type SessionStore interface {
	Set(ctx context.Context, session *models.CheckoutSession) error
	Get(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.CheckoutSession, error)
	Delete(ctx context.Context, session *models.CheckoutSession) error
}

// Quoter prices a boost purchase.
type Quoter interface {
	Quote(ctx context.Context, tier models.TierCode, days int) (int, error)
}

// PaymentMaker submits and looks up boost payments.
type PaymentMaker interface {
	MakePayment(ctx context.Context, in *MakePaymentInput) (*models.Payment, error)
	GetPayment(paymentID string, userID int) (*models.Payment, error)
}

// ListingReader loads listings for ownership checks.
type ListingReader interface {
	GetByID(id int) (*models.Listing, error)
}

// CheckoutService drives the boost purchase wizard. Each session walks the
// steps in order: tier, duration, method, confirm, then payment submission.
// Picking a tier fills in the default duration, so the duration step is an
// optional override rather than a gate. The quote is frozen at the confirm
// step so a pricing change mid-checkout cannot alter what the payer is
// charged.
type CheckoutService struct {
	sessions    SessionStore
	pricing     Quoter
	payments    PaymentMaker
	listings    ListingReader
	defaultDays int
	maxDays     int
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(sessions SessionStore, pricing Quoter, payments PaymentMaker, listings ListingReader, defaultDays, maxDays int) *CheckoutService {
	if maxDays < 1 {
		maxDays = 30
	}
	if defaultDays < 1 || defaultDays > maxDays {
		defaultDays = 7
	}
	return &CheckoutService{
		sessions:    sessions,
		pricing:     pricing,
		payments:    payments,
		listings:    listings,
		defaultDays: defaultDays,
		maxDays:     maxDays,
	}
}

// Start opens a wizard session for boosting one of the caller's listings.
func (s *CheckoutService) Start(ctx context.Context, userID, listingID int) (*models.CheckoutSession, error) {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrListingNotFound
		}
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, utils.ErrNotListingOwner
	}
	if listing.Status != models.ListingActive {
		return nil, utils.ErrListingInactive
	}

	session := &models.CheckoutSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		ListingID: listingID,
		Step:      models.StepSelectTier,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session scoped to its owner. An expired or unknown session is
// reported as not found; the client simply restarts the wizard.
func (s *CheckoutService) Get(ctx context.Context, sessionID string, userID int) (*models.CheckoutSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, utils.ErrSessionNotFound
	}
	return session, nil
}

// SelectTier records the tier choice and moves to duration selection with the
// default duration already applied, so the wizard can proceed straight to the
// method step.
func (s *CheckoutService) SelectTier(ctx context.Context, sessionID string, userID int, tier models.TierCode) (*models.CheckoutSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Step >= models.StepAwaitingPhone {
		return nil, utils.ErrInvalidTransition
	}
	if !models.ValidTier(tier) {
		return nil, utils.ErrInvalidTier
	}

	session.Tier = tier
	if session.Days == 0 {
		session.Days = s.defaultDays
	}
	// Changing the tier invalidates any frozen quote.
	session.QuoteXAF = 0
	session.Step = models.StepSelectDuration
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectDuration overrides the default boost length in days.
func (s *CheckoutService) SelectDuration(ctx context.Context, sessionID string, userID int, days int) (*models.CheckoutSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Step < models.StepSelectDuration || session.Step >= models.StepAwaitingPhone {
		return nil, utils.ErrInvalidTransition
	}
	if days < 1 || days > s.maxDays {
		return nil, utils.ErrInvalidDuration
	}

	session.Days = days
	session.QuoteXAF = 0
	session.Step = models.StepSelectMethod
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectMethod records the payment method and payer number, freezes the quote
// and moves to the confirm step. Reachable as soon as a tier is picked, since
// the duration always holds at least the default. The phone is validated here
// so the payer sees a bad number before confirming, not after.
func (s *CheckoutService) SelectMethod(ctx context.Context, sessionID string, userID int, method models.PaymentMethod, phone string) (*models.CheckoutSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Step < models.StepSelectDuration || session.Step >= models.StepAwaitingPhone {
		return nil, utils.ErrInvalidTransition
	}

	switch method {
	case models.MethodMTNMoMo, models.MethodOrangeMoney, models.MethodPayPal:
	default:
		return nil, utils.ErrMissingMethod
	}

	if method.MobileMoney() {
		if phone == "" {
			return nil, utils.ErrMissingPhone
		}
		operator := models.OperatorMTN
		if method == models.MethodOrangeMoney {
			operator = models.OperatorOrange
		}
		normalized, err := utils.ValidatePhone(phone, operator)
		if err != nil {
			return nil, err
		}
		phone = normalized
	} else {
		phone = ""
	}

	quote, err := s.pricing.Quote(ctx, session.Tier, session.Days)
	if err != nil {
		return nil, err
	}

	session.Method = method
	session.Phone = phone
	session.QuoteXAF = quote
	session.Step = models.StepConfirm
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Pay submits the charge for a confirmed session. Declines and provider
// failures park the session on the error step so the payer can go back and
// retry; a pending collection moves to processing and resolves via Status.
func (s *CheckoutService) Pay(ctx context.Context, sessionID string, userID int) (*models.CheckoutSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepConfirm {
		return nil, utils.ErrInvalidTransition
	}

	session.Step = models.StepAwaitingPhone
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	payment, err := s.payments.MakePayment(ctx, &MakePaymentInput{
		UserID:    userID,
		ListingID: session.ListingID,
		Tier:      session.Tier,
		Days:      session.Days,
		AmountXAF: session.QuoteXAF,
		Method:    session.Method,
		Phone:     session.Phone,
	})
	if payment != nil && payment.PaymentID != "" {
		session.PaymentID = payment.PaymentID
	}
	if err != nil {
		session.Step = models.StepError
		session.ErrorCode = err.Error()
		if payment != nil && payment.FailedReason != nil {
			session.ErrorMessage = *payment.FailedReason
		}
		if setErr := s.sessions.Set(ctx, session); setErr != nil {
			log.Error().Err(setErr).Str("session_id", session.SessionID).Msg("failed to persist error step")
		}
		return session, err
	}

	session.Step = models.StepProcessing
	session.ErrorCode = ""
	session.ErrorMessage = ""
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Status reports the session together with its payment. A payment that went
// terminal while the session sat on the processing step moves the wizard
// forward: failure parks it on the error step, success ends the wizard.
func (s *CheckoutService) Status(ctx context.Context, sessionID string, userID int) (*models.CheckoutSession, *models.Payment, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, nil, err
	}
	if session.PaymentID == "" {
		return session, nil, nil
	}

	payment, err := s.payments.GetPayment(session.PaymentID, userID)
	if err != nil {
		return session, nil, err
	}

	if session.Step == models.StepProcessing && payment.Status.Terminal() {
		switch payment.Status {
		case models.PaymentSuccess:
			// Purchase complete; the session has served its purpose.
			if err := s.sessions.Delete(ctx, session); err != nil {
				log.Warn().Err(err).Str("session_id", session.SessionID).Msg("failed to delete completed session")
			}
		default:
			session.Step = models.StepError
			session.ErrorCode = string(payment.Status)
			if payment.FailedReason != nil {
				session.ErrorMessage = *payment.FailedReason
			}
			if err := s.sessions.Set(ctx, session); err != nil {
				return session, payment, err
			}
		}
	}
	return session, payment, nil
}

// ResolvePayment moves a processing session forward when its payment settles
// out of band, via webhook, so the wizard does not wait for the client to poll
// Status. Sessions are looked up through the payment index; a missing session
// just means the payer already finished or abandoned the wizard.
func (s *CheckoutService) ResolvePayment(ctx context.Context, payment *models.Payment) {
	if !payment.Status.Terminal() {
		return
	}

	session, err := s.sessions.GetByPaymentID(ctx, payment.PaymentID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("payment_id", payment.PaymentID).Msg("failed to resolve session for settled payment")
		}
		return
	}
	if session.Step != models.StepProcessing {
		return
	}

	if payment.Status == models.PaymentSuccess {
		if err := s.sessions.Delete(ctx, session); err != nil {
			log.Warn().Err(err).Str("session_id", session.SessionID).Msg("failed to delete completed session")
		}
		return
	}

	session.Step = models.StepError
	session.ErrorCode = string(payment.Status)
	if payment.FailedReason != nil {
		session.ErrorMessage = *payment.FailedReason
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		log.Warn().Err(err).Str("session_id", session.SessionID).Msg("failed to persist error step")
	}
}

// Back steps the wizard backwards. From the error step the wizard returns to
// the confirm step for a retry; otherwise one selection step back. Sessions
// past the confirm step cannot rewind while a charge may be in flight.
func (s *CheckoutService) Back(ctx context.Context, sessionID string, userID int) (*models.CheckoutSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepError:
		session.Step = models.StepConfirm
		session.ErrorCode = ""
		session.ErrorMessage = ""
		session.PaymentID = ""
	case models.StepSelectDuration, models.StepSelectMethod, models.StepConfirm:
		session.Step--
	default:
		return nil, utils.ErrInvalidTransition
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Cancel abandons the wizard and drops the session.
func (s *CheckoutService) Cancel(ctx context.Context, sessionID string, userID int) error {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, session)
}
