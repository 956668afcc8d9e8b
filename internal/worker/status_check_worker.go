package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/service"
)

// maxBackoff caps the delay between two polls of the same payment.
const maxBackoff = time.Minute

// StatusCheckWorker polls pending mobile-money collections until they reach a
// terminal status. The provider's transactions endpoint is idempotent, so
// repeated polls never re-charge the payer. Each poll pushes the next check
// out exponentially; a payment that stays pending past the attempt or age
// limit is failed with a timeout so the payer is never left waiting forever.
type StatusCheckWorker struct {
	paymentRepo *repository.PaymentRepository
	paymentSvc  *service.PaymentService
	providers   *service.ProviderRouter
	interval    time.Duration
	base        time.Duration // delay before the first re-check
	maxAge      time.Duration // max pending age before timeout
	maxAttempts int
}

// NewStatusCheckWorker constructs a StatusCheckWorker.
func NewStatusCheckWorker(
	paymentRepo *repository.PaymentRepository,
	paymentSvc *service.PaymentService,
	providers *service.ProviderRouter,
	interval time.Duration,
	base time.Duration,
	maxAge time.Duration,
	maxAttempts int,
) *StatusCheckWorker {
	return &StatusCheckWorker{
		paymentRepo: paymentRepo,
		paymentSvc:  paymentSvc,
		providers:   providers,
		interval:    interval,
		base:        base,
		maxAge:      maxAge,
		maxAttempts: maxAttempts,
	}
}

// Start begins the periodic status check loop until context is canceled.
func (w *StatusCheckWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("base", w.base).
		Dur("max_age", w.maxAge).
		Int("max_attempts", w.maxAttempts).
		Msg("Starting payment status check worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Payment status check worker stopped")
			return
		}
	}
}

func (w *StatusCheckWorker) run(ctx context.Context) {
	due, err := w.paymentRepo.GetDuePending(50)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get due pending payments")
		return
	}

	for i := range due {
		select {
		case <-ctx.Done():
			return
		default:
			w.checkPayment(ctx, &due[i])
		}
	}

	w.paymentSvc.RetryCompensations()
}

func (w *StatusCheckWorker) checkPayment(ctx context.Context, p *models.Payment) {
	if p.Attempts >= w.maxAttempts || time.Since(p.CreatedAt) > w.maxAge {
		log.Warn().
			Str("payment_id", p.PaymentID).
			Int("attempts", p.Attempts).
			Dur("age", time.Since(p.CreatedAt)).
			Msg("Payment pending too long, marking as failed")
		w.paymentSvc.ApplyStatusResult(p, &service.ProviderStatusResult{
			Status:      models.PaymentFailed,
			FailureCode: "PAYMENT_TIMEOUT",
		})
		return
	}

	provider, err := w.providers.Get(p.Provider)
	if err != nil {
		log.Error().Str("payment_id", p.PaymentID).Str("provider", string(p.Provider)).Msg("No provider registered for payment")
		w.reschedule(p)
		return
	}

	st, err := provider.CheckStatus(ctx, *p.ProviderRef)
	if err != nil {
		log.Warn().
			Err(err).
			Str("payment_id", p.PaymentID).
			Msg("Network error checking payment status, will retry later")
		w.reschedule(p)
		return
	}

	if st.Status == models.PaymentPending {
		log.Debug().Str("payment_id", p.PaymentID).Int("attempts", p.Attempts).Msg("Payment still pending")
		w.reschedule(p)
		return
	}

	w.paymentSvc.ApplyStatusResult(p, st)
	log.Info().
		Str("payment_id", p.PaymentID).
		Str("status", string(p.Status)).
		Msg("Payment settled from status check")
}

// reschedule bumps the attempt counter and pushes the next check out with
// exponential backoff.
func (w *StatusCheckWorker) reschedule(p *models.Payment) {
	attempts := p.Attempts + 1
	next := time.Now().Add(NextCheckDelay(w.base, attempts))
	if err := w.paymentRepo.MarkChecked(p.ID, attempts, next); err != nil {
		log.Error().Err(err).Str("payment_id", p.PaymentID).Msg("Failed to reschedule payment check")
	}
}

// NextCheckDelay returns the backoff delay before poll number attempts:
// base*2^(attempts-1), capped at maxBackoff.
func NextCheckDelay(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	if delay > maxBackoff {
		return maxBackoff
	}
	return delay
}
