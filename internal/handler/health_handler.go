package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/utils"
	"github.com/MboaMarket/mboa_api/pkg/mesomb"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	mesomb *mesomb.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(mesomb *mesomb.Client) *HealthHandler {
	return &HealthHandler{mesomb: mesomb}
}

// GetHealth responds with service and payment provider status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status, err := h.mesomb.GetStatus(c.Request.Context())

	providerStatus := "connected"
	balances := 0
	if err != nil {
		providerStatus = "disconnected"
	} else {
		balances = len(status.Balances)
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"mesomb": gin.H{
			"status":   providerStatus,
			"balances": balances,
		},
	})
}
