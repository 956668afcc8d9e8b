package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
	"github.com/MboaMarket/mboa_api/pkg/mesomb"
)

// mesombWebhookPayload is the event envelope MeSomb posts to our callback URL.
type mesombWebhookPayload struct {
	Event       string             `json:"event"`
	Transaction mesomb.Transaction `json:"transaction"`
}

// WebhookHandler handles incoming payment webhooks from MeSomb.
type WebhookHandler struct {
	paymentService interface {
		GetByProviderRef(providerRef string) (*models.Payment, error)
		ApplyStatusResult(p *models.Payment, st *service.ProviderStatusResult)
	}
	checkoutService interface {
		ResolvePayment(ctx context.Context, p *models.Payment)
	}
	mesombProvider *service.MeSombProvider
	webhookSecret  string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(
	paymentService interface {
		GetByProviderRef(providerRef string) (*models.Payment, error)
		ApplyStatusResult(p *models.Payment, st *service.ProviderStatusResult)
	},
	checkoutService interface {
		ResolvePayment(ctx context.Context, p *models.Payment)
	},
	mesombProvider *service.MeSombProvider,
	webhookSecret string,
) *WebhookHandler {
	return &WebhookHandler{
		paymentService:  paymentService,
		checkoutService: checkoutService,
		mesombProvider:  mesombProvider,
		webhookSecret:   webhookSecret,
	}
}

// HandleMeSombCallback handles POST /webhook/mesomb
func (h *WebhookHandler) HandleMeSombCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	signature := c.GetHeader("X-MeSomb-Signature")
	if !utils.VerifySignature(body, signature, h.webhookSecret) {
		log.Warn().Str("ip", c.ClientIP()).Msg("MeSomb webhook signature mismatch")
		c.JSON(401, gin.H{"error": "Invalid signature"})
		return
	}

	var payload mesombWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	if payload.Transaction.PK == "" {
		c.JSON(400, gin.H{"error": "Missing transaction"})
		return
	}

	payment, err := h.paymentService.GetByProviderRef(payload.Transaction.PK)
	if err != nil {
		if err == utils.ErrPaymentNotFound {
			// Unknown reference. Acknowledge so the provider stops retrying.
			log.Warn().Str("provider_ref", payload.Transaction.PK).Msg("MeSomb webhook for unknown transaction")
			c.JSON(200, gin.H{"received": true})
			return
		}
		log.Error().Err(err).Msg("Failed to load payment for MeSomb webhook")
		c.JSON(500, gin.H{"error": "Processing failed"})
		return
	}

	h.paymentService.ApplyStatusResult(payment, h.mesombProvider.StatusResult(&payload.Transaction))
	h.checkoutService.ResolvePayment(c.Request.Context(), payment)
	c.JSON(200, gin.H{"received": true})
}
