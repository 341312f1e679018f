package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"chair-status-backend/config"
	"chair-status-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router around the handler.
func NewRouter(cfg *config.ServerConfig, handler *Handler) *gin.Engine {
	r := gin.Default()

	rateLimit := mw.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst)
	auth := mw.APIKey(cfg.APIKey)

	// Liveness stays outside the rate-limited group.
	r.GET("/health", GetHealth)

	api := r.Group("/api")
	api.Use(rateLimit)
	{
		// Snapshot reads. The response cache is opt-in: by default the
		// endpoint must reflect the store exactly.
		if cfg.CacheTTLSeconds > 0 {
			ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
			api.GET("/chairs", mw.ResponseCache(ttl), handler.GetChairs)
		} else {
			api.GET("/chairs", handler.GetChairs)
		}

		// Sensor reports. Auth gates mutations only.
		api.POST("/chairs", auth, handler.PostChair)

		if handler.db != nil {
			api.GET("/subscriptions", handler.GetSubscription)
			api.PUT("/subscriptions", auth, handler.PutSubscription)
			api.DELETE("/subscriptions", auth, handler.DeleteSubscription)
			api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
		}
	}

	return r
}
