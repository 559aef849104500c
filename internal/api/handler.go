package api

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"envase-return-backend/config"
	"envase-return-backend/internal/devolucion"
	"envase-return-backend/internal/model"
	"envase-return-backend/internal/notify"
	"envase-return-backend/internal/receipt"
	"envase-return-backend/internal/session"
	"envase-return-backend/internal/sheets"
	"envase-return-backend/internal/store"
)

// RemoteWriter registers return records with the remote endpoint.
// *devolucion.Writer is the production implementation.
type RemoteWriter interface {
	Register(ctx context.Context, records []devolucion.Record) (devolucion.Outcome, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	cfg      *config.Config
	catalog  *sheets.Service
	sessions *session.Manager
	store    store.Store
	writer   RemoteWriter
	receipts *receipt.Generator
	pool     *notify.WorkerPool
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, catalog *sheets.Service, sessions *session.Manager, s store.Store, writer RemoteWriter, receipts *receipt.Generator, pool *notify.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		cfg:      cfg,
		catalog:  catalog,
		sessions: sessions,
		store:    s,
		writer:   writer,
		receipts: receipts,
		pool:     pool,
		webpush:  webpushOptions,
	}
}

const sessionHeader = "X-Session-Token"

const sessionContextKey = "session"

// RequireSession resolves the session token header and aborts with 401
// when it is missing or expired.
func (h *Handler) RequireSession(c *gin.Context) {
	token := c.GetHeader(sessionHeader)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session token required"})
		return
	}
	sess, ok := h.sessions.Get(token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or unknown"})
		return
	}
	c.Set(sessionContextKey, sess)
	c.Next()
}

// RequireOpen rejects catalog and submission traffic while the service
// is closed or the catalog has never loaded. Both cases resolve to the
// maintenance view with a manual retry.
func (h *Handler) RequireOpen(c *gin.Context) {
	if !h.catalog.Ready() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": "catalog not loaded",
			"view":  session.ViewMaintenance,
		})
		return
	}
	if h.catalog.Estado() == model.StatusClosed {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": "service closed for maintenance",
			"view":  session.ViewMaintenance,
		})
		return
	}
	c.Next()
}

// currentSession returns the session set by RequireSession.
func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}
