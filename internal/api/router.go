package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"envase-return-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	limit := rate.Limit(h.cfg.Server.RateLimitPerSec)
	if limit <= 0 {
		limit = rate.Limit(10)
	}
	burst := h.cfg.Server.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(limit, burst)

	cacheTTL := time.Duration(h.cfg.Server.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/status", caching, h.GetStatus)
		api.POST("/status/retry", h.PostRetry)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		api.POST("/login", h.PostLogin)

		authed := api.Group("")
		authed.Use(h.RequireSession)
		{
			authed.POST("/logout", h.PostLogout)
			authed.GET("/session", h.GetSession)

			open := authed.Group("")
			open.Use(h.RequireOpen)
			{
				open.GET("/catalog", h.GetCatalog)
				open.POST("/session/family", h.PostSelectFamily)
				open.POST("/session/review", h.PostToggleReview)

				open.GET("/basket", h.GetBasket)
				open.PUT("/basket/:code", h.PutQuantity)
				open.POST("/basket/:code/increment", h.PostIncrement)
				open.POST("/basket/:code/decrement", h.PostDecrement)
				open.DELETE("/basket/:code", h.DeleteBasketItem)
				open.DELETE("/basket", h.DeleteBasket)

				open.POST("/returns", h.PostReturns)
			}

			authed.PUT("/subscriptions", h.PutSubscription)
			authed.DELETE("/subscriptions", h.DeleteSubscription)
			authed.GET("/subscriptions", h.GetSubscription)
		}

		// Receipt downloads are reachable from pushed links without a
		// live session; the UUID path is the only credential.
		api.GET("/receipts/:id", h.GetReceipt)
	}

	return r
}
