package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"training-portal-backend/config"
	"training-portal-backend/internal/mw"
	"training-portal-backend/internal/notification"
	"training-portal-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, pool *notification.WorkerPool, webpushOptions *webpush.Options, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, pool, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/requests", handler.CreateRequest)
		api.GET("/requests", handler.ListRequests)
		api.POST("/requests/:id/approve", handler.ApproveRequest)
		api.POST("/requests/:id/reject", handler.RejectRequest)

		api.GET("/conflicts", handler.ListConflicts)
		api.POST("/conflicts/resolve", handler.ResolveConflict)

		api.GET("/bookings", caching, handler.ListBookings)
		api.PATCH("/bookings/:id/status", handler.UpdateBookingStatus)

		api.GET("/trainers", caching, handler.ListTrainers)
		api.POST("/trainers", handler.CreateTrainer)
		api.GET("/trainers/:id/availability", handler.ListAvailability)
		api.GET("/trainers/:id/slots/check", handler.CheckSlot)
		api.GET("/trainers/:id/slots/alternatives", handler.SuggestAlternatives)

		api.POST("/availability", handler.CreateAvailability)
		api.PATCH("/availability/:id", handler.UpdateAvailability)
		api.DELETE("/availability/:id", handler.DeleteAvailability)

		api.GET("/clients", handler.ListClients)
		api.POST("/clients", handler.CreateClient)
		api.PATCH("/clients/:id/priority", handler.UpdateClientPriority)

		api.GET("/notifications", handler.ListNotifications)
		api.POST("/notifications/:id/read", handler.MarkNotificationRead)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
