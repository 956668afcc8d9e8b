package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// CheckoutCache stores boost purchase wizard sessions in Redis.
// Sessions are short-lived; an expired session restarts the wizard, which
// matches the original client-side flow losing state on reload.
type CheckoutCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCheckoutCache creates a new CheckoutCache with the given session TTL.
func NewCheckoutCache(redis *RedisClient, ttl time.Duration) *CheckoutCache {
	return &CheckoutCache{redis: redis, ttl: ttl}
}

func (c *CheckoutCache) key(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

// keyByPayment maps a payment ID back to its session so the poller and webhook
// can update wizard state after a terminal status.
func (c *CheckoutCache) keyByPayment(paymentID string) string {
	return fmt.Sprintf("checkout:payment:%s", paymentID)
}

// Set stores a session, refreshing its TTL.
func (c *CheckoutCache) Set(ctx context.Context, session *models.CheckoutSession) error {
	session.UpdatedAt = time.Now()

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(session.SessionID), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set session key: %w", err)
	}

	if session.PaymentID != "" {
		if err := c.redis.Set(ctx, c.keyByPayment(session.PaymentID), session.SessionID, c.ttl); err != nil {
			return fmt.Errorf("failed to set payment index key: %w", err)
		}
	}
	return nil
}

// Get retrieves a session by ID.
func (c *CheckoutCache) Get(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	jsonData, err := c.redis.Get(ctx, c.key(sessionID))
	if err != nil {
		return nil, err
	}
	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}
	return &session, nil
}

// GetByPaymentID resolves the session that submitted the given payment.
func (c *CheckoutCache) GetByPaymentID(ctx context.Context, paymentID string) (*models.CheckoutSession, error) {
	sessionID, err := c.redis.Get(ctx, c.keyByPayment(paymentID))
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, sessionID)
}

// Delete removes a session and its payment index.
func (c *CheckoutCache) Delete(ctx context.Context, session *models.CheckoutSession) error {
	keys := []string{c.key(session.SessionID)}
	if session.PaymentID != "" {
		keys = append(keys, c.keyByPayment(session.PaymentID))
	}
	return c.redis.Delete(ctx, keys...)
}
