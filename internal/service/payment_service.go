package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// PaymentStore is the persistence surface the payment service needs.
type PaymentStore interface {
	Create(p *models.Payment) error
	Update(p *models.Payment) error
	GetByPaymentID(paymentID string) (*models.Payment, error)
	GetByProviderRef(providerRef string) (*models.Payment, error)
	GetCompensationRequired(limit int) ([]models.Payment, error)
	GeneratePaymentID() (string, error)
}

// BoostConfirmer writes the boost once a payment has been charged.
type BoostConfirmer interface {
	ConfirmPayment(p *models.Payment) (*models.Boost, error)
}

// ProviderResolver selects the provider integration for a payment.
type ProviderResolver interface {
	Get(code models.ProviderCode) (PaymentProvider, error)
}

// PaymentService charges boost purchases through payment providers and owns
// the payment lifecycle from creation to terminal status.
type PaymentService struct {
	repo      PaymentStore
	providers ProviderResolver
	boosts    BoostConfirmer
	checkBase time.Duration
}

// NewPaymentService constructs a PaymentService. checkBase is the initial
// delay before the first status poll of a pending collection.
func NewPaymentService(repo PaymentStore, providers ProviderResolver, boosts BoostConfirmer, checkBase time.Duration) *PaymentService {
	if checkBase <= 0 {
		checkBase = 5 * time.Second
	}
	return &PaymentService{repo: repo, providers: providers, boosts: boosts, checkBase: checkBase}
}

// MakePaymentInput carries a fully priced boost purchase. AmountXAF is the
// quote frozen by the checkout wizard; it is charged as-is.
type MakePaymentInput struct {
	UserID    int
	ListingID int
	Tier      models.TierCode
	Days      int
	AmountXAF int
	Method    models.PaymentMethod
	Phone     string
}

// methodRoute maps a checkout payment method to a provider and operator.
func methodRoute(method models.PaymentMethod) (models.ProviderCode, models.Operator, error) {
	switch method {
	case models.MethodMTNMoMo:
		return models.ProviderMeSomb, models.OperatorMTN, nil
	case models.MethodOrangeMoney:
		return models.ProviderMeSomb, models.OperatorOrange, nil
	case models.MethodPayPal:
		return models.ProviderPayPal, "", nil
	default:
		return "", "", utils.ErrMissingMethod
	}
}

// failureError maps a provider failure classification to an application error.
func failureError(kind FailureKind) error {
	switch kind {
	case FailureAccountNotFound:
		return utils.ErrAccountNotFound
	case FailureRetryable:
		return utils.ErrProviderUnavailable
	default:
		return utils.ErrPaymentDeclined
	}
}

// MakePayment creates a payment record and submits the charge. The payer
// number is validated before any provider call so an obviously bad number
// never produces a half-open collection. The returned payment is pending when
// the payer still has to confirm on their handset.
func (s *PaymentService) MakePayment(ctx context.Context, in *MakePaymentInput) (*models.Payment, error) {
	providerCode, operator, err := methodRoute(in.Method)
	if err != nil {
		return nil, err
	}

	var phone *string
	var op *models.Operator
	if in.Method.MobileMoney() {
		if in.Phone == "" {
			return nil, utils.ErrMissingPhone
		}
		normalized, err := utils.ValidatePhone(in.Phone, operator)
		if err != nil {
			return nil, err
		}
		phone = &normalized
		op = &operator
	}

	provider, err := s.providers.Get(providerCode)
	if err != nil {
		return nil, err
	}

	paymentID, err := s.repo.GeneratePaymentID()
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		PaymentID: paymentID,
		Reference: uuid.New().String(),
		UserID:    in.UserID,
		ListingID: in.ListingID,
		Tier:      in.Tier,
		Days:      in.Days,
		AmountXAF: in.AmountXAF,
		Phone:     phone,
		Operator:  op,
		Provider:  providerCode,
		Status:    models.PaymentPending,
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}

	var payerPhone string
	if phone != nil {
		payerPhone = *phone
	}
	result, err := provider.Collect(ctx, &ProviderCollectRequest{
		AmountXAF:   in.AmountXAF,
		Operator:    operator,
		Phone:       payerPhone,
		Reference:   p.Reference,
		Description: "Listing boost " + string(in.Tier),
	})
	if err != nil {
		if err == utils.ErrPayPalNotImplemented {
			s.markFailed(p, "PAYPAL_NOT_IMPLEMENTED")
			return p, err
		}
		log.Error().Err(err).Str("payment_id", p.PaymentID).Msg("provider collect failed")
		s.markFailed(p, "PROVIDER_UNAVAILABLE")
		return p, utils.ErrProviderUnavailable
	}

	if result.ProviderRef != "" {
		p.ProviderRef = &result.ProviderRef
	}

	switch result.Status {
	case models.PaymentSuccess:
		s.settleSuccess(p)
		return p, nil

	case models.PaymentPending:
		if p.ProviderRef == nil {
			// Without a transaction id the collection can never be polled or
			// timed out, so the payer would wait on it forever.
			log.Error().Str("payment_id", p.PaymentID).Msg("pending collect response without a provider reference")
			s.markFailed(p, "PROVIDER_NO_REFERENCE")
			return p, utils.ErrProviderUnavailable
		}
		next := time.Now().Add(s.checkBase)
		p.NextCheckAt = &next
		if err := s.repo.Update(p); err != nil {
			return nil, err
		}
		return p, nil

	default:
		reason := result.FailureCode
		if reason == "" {
			reason = string(result.FailureKind)
		}
		p.Status = result.Status
		s.markFailedWithStatus(p, reason)
		return p, failureError(result.FailureKind)
	}
}

// markFailed settles a payment as failed with the given reason.
func (s *PaymentService) markFailed(p *models.Payment, reason string) {
	p.Status = models.PaymentFailed
	s.markFailedWithStatus(p, reason)
}

func (s *PaymentService) markFailedWithStatus(p *models.Payment, reason string) {
	now := time.Now()
	p.FailedReason = &reason
	p.ProcessedAt = &now
	p.NextCheckAt = nil
	if err := s.repo.Update(p); err != nil {
		log.Error().Err(err).Str("payment_id", p.PaymentID).Msg("failed to persist failed payment")
	}
}

// settleSuccess marks the payment charged and writes the boost. If the boost
// insert fails after the charge, the payment is flagged for compensation so a
// worker can retry the insert rather than double-charging the payer.
func (s *PaymentService) settleSuccess(p *models.Payment) {
	now := time.Now()
	p.Status = models.PaymentSuccess
	p.ProcessedAt = &now
	p.NextCheckAt = nil

	if _, err := s.boosts.ConfirmPayment(p); err != nil {
		log.Error().Err(err).
			Str("payment_id", p.PaymentID).
			Msg("boost insert failed after successful charge, flagging for compensation")
		p.CompensationRequired = true
	}

	if err := s.repo.Update(p); err != nil {
		log.Error().Err(err).Str("payment_id", p.PaymentID).Msg("failed to persist successful payment")
	}
}

// ApplyStatusResult settles a pending payment from a poll or webhook result.
// Non-terminal results leave the payment untouched.
func (s *PaymentService) ApplyStatusResult(p *models.Payment, st *ProviderStatusResult) {
	if p.Status.Terminal() {
		return
	}

	switch st.Status {
	case models.PaymentSuccess:
		s.settleSuccess(p)

	case models.PaymentFailed, models.PaymentCancelled:
		reason := st.FailureCode
		if reason == "" {
			reason = string(st.FailureKind)
		}
		p.Status = st.Status
		s.markFailedWithStatus(p, reason)
	}
}

// GetPayment returns a payment scoped to its owner.
func (s *PaymentService) GetPayment(paymentID string, userID int) (*models.Payment, error) {
	p, err := s.repo.GetByPaymentID(paymentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPaymentNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, utils.ErrPaymentNotFound
	}
	return p, nil
}

// GetByProviderRef resolves a payment from a provider transaction id. Used by
// the webhook handler.
func (s *PaymentService) GetByProviderRef(providerRef string) (*models.Payment, error) {
	p, err := s.repo.GetByProviderRef(providerRef)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// RetryCompensations re-attempts boost inserts for charged payments whose
// boost write failed. Invoked periodically by the status worker.
func (s *PaymentService) RetryCompensations() {
	payments, err := s.repo.GetCompensationRequired(20)
	if err != nil {
		log.Error().Err(err).Msg("failed to load compensation queue")
		return
	}
	for i := range payments {
		p := &payments[i]
		if _, err := s.boosts.ConfirmPayment(p); err != nil {
			log.Error().Err(err).Str("payment_id", p.PaymentID).Msg("compensation retry failed")
			continue
		}
		p.CompensationRequired = false
		if err := s.repo.Update(p); err != nil {
			log.Error().Err(err).Str("payment_id", p.PaymentID).Msg("failed to clear compensation flag")
		}
	}
}
