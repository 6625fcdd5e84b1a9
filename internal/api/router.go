package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"parksystem-backend/config"
	"parksystem-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(d Deps, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	if cfg.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.RequestIPHeader
	}

	handler := NewHandler(d)
	r.Use(gin.Recovery(), mw.RequestLogger(handler.log, d.Metrics))

	// Initialize middleware
	// Rate limit: 10 requests per second with a burst of 5 unless configured
	perSec, burst := cfg.RateLimitPerSec, cfg.RateLimitBurst
	if perSec <= 0 {
		perSec = 10
	}
	if burst <= 0 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(rate.Limit(perSec), burst)
	requireAuth := mw.Auth(d.Auth.Issuer())

	// Flight status answers are cached per user until the TTL passes or the user changes something
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	responses := mw.NewResponseCache(ttl)

	// API group
	api := r.Group("/api")
	{
		api.GET("/vapid_public_key", rateLimiter, handler.GetVAPIDPublicKey)

		// Anonymous requests are limited per IP, signed-in ones per user
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter)
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/google", handler.GoogleLogin)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.POST("/logout", handler.Logout)

		private := api.Group("")
		private.Use(requireAuth, rateLimiter, responses.Invalidate())

		private.GET("/profile", handler.GetProfile)
		private.POST("/set-plan", handler.SetPlan)
		private.POST("/set-language", handler.SetLanguage)

		private.GET("/dashboard", handler.GetDashboard)

		private.GET("/reservations", handler.ListReservations)
		private.POST("/reservations", handler.CreateReservation)
		private.GET("/reservations/view", handler.GetView)
		private.GET("/reservations/pickups.pdf", handler.GetPickupSheet)
		private.GET("/reservations/:id", handler.GetReservation)
		private.PUT("/reservations/:id", handler.UpdateReservation)
		private.DELETE("/reservations/:id", handler.DeleteReservation)
		private.POST("/reservations/:id/toggle_complete", handler.ToggleComplete)
		private.POST("/reservations/:id/toggle_payment", handler.TogglePayment)
		private.GET("/reservations/:id/flight_status", responses.Serve(), handler.GetFlightStatus)

		private.GET("/pricing-settings", handler.GetPricing)
		private.PUT("/pricing-settings", handler.PutPricing)
		private.GET("/pricing-settings/estimate", handler.EstimatePrice)

		private.GET("/subscriptions", handler.GetSubscription)
		private.PUT("/subscriptions", handler.PutSubscription)
		private.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
