package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envase-return-backend/internal/model"
)

// GetStatus reports service availability.
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"estado": h.catalog.Estado(),
		"ready":  h.catalog.Ready(),
	})
}

// PostRetry is the maintenance view's manual retry: it re-fetches the
// catalog and status synchronously and reports the new state. Live
// sessions are moved in or out of maintenance to match.
func (h *Handler) PostRetry(c *gin.Context) {
	if err := h.catalog.RefreshOnce(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "error de conexión", "ready": h.catalog.Ready()})
		return
	}

	if h.catalog.Estado() == model.StatusClosed {
		h.sessions.EnterMaintenanceAll()
	} else {
		h.sessions.LeaveMaintenanceAll()
	}

	c.JSON(http.StatusOK, gin.H{
		"estado": h.catalog.Estado(),
		"ready":  h.catalog.Ready(),
	})
}

// GetVAPIDPublicKey returns the VAPID public key to the client.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
