package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"staffing-agency-backend/config"
	"staffing-agency-backend/internal/mw"
	"staffing-agency-backend/internal/notification"
	"staffing-agency-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, notifier *notification.WorkerPool, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)

	handler := NewHandler(s, webpushOptions, notifier, cacheStore)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Worker registry (thin boundary for the profile service)
		api.POST("/workers", handler.CreateWorker)
		api.GET("/workers", handler.GetWorkers)
		api.GET("/workers/:worker_id", handler.GetWorker)
		api.DELETE("/workers/:worker_id", handler.DeleteWorker)

		// Availability calendar
		api.POST("/workers/:worker_id/availability", handler.AssignRange)
		api.POST("/workers/:worker_id/availability/batch", handler.AssignBatch)
		api.POST("/workers/:worker_id/availability/reserve", handler.Reserve)
		api.GET("/workers/:worker_id/availability", caching, handler.GetAvailability)
		api.GET("/workers/:worker_id/availability/check", handler.CheckAvailability)
		api.DELETE("/workers/:worker_id/availability", handler.DeleteAvailability)

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
