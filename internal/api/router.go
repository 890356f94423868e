package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"roomshare-backend/config"
	"roomshare-backend/internal/mw"
)

// NewRouter creates and configures the Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Identity())
	{
		api.POST("/rooms", h.CreateRoom)
		api.POST("/rooms/:room_id/members", h.JoinRoom)
		api.GET("/rooms/:room_id/members", h.GetMembers)

		api.GET("/rooms/:room_id/categories", caching, h.GetCategories)
		api.POST("/rooms/:room_id/categories", h.CreateCategory)
		api.DELETE("/categories/:id", h.DeleteCategory)

		api.POST("/rooms/:room_id/reservations", h.CreateReservation)
		api.GET("/rooms/:room_id/reservations/weekly", caching, h.GetWeeklySchedules)
		api.GET("/rooms/:room_id/reservations/current", caching, h.GetCurrentWeekSchedules)
		api.GET("/rooms/:room_id/reservations/visitor", h.GetVisitorSchedules)
		api.GET("/rooms/:room_id/reservations/pending", h.GetPendingApprovals)
		api.POST("/reservations/:id/approve", h.ApproveReservation)
		api.DELETE("/reservations/:id", h.DeleteReservation)

		api.GET("/notifications", h.GetNotifications)
		api.POST("/notifications/read", h.MarkNotificationsRead)

		api.PUT("/subscriptions", h.PutSubscription)
		api.GET("/subscriptions", h.GetSubscriptions)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
