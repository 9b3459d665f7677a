package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/acesshop/internal/config"
	"github.com/polkiloo/acesshop/internal/server/http/handlers"
	"github.com/polkiloo/acesshop/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	if origins := cfg.AllowedOrigins; len(origins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimitRPS > 0 {
		limit = middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	catalogHandler := handlers.NewCatalogHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	couponHandler := handlers.NewCouponHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	authHandler := handlers.NewAuthHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	shop := engine.Group("/api/shop")
	shop.GET("/health", catalogHandler.Health)
	shop.GET("/products", catalogHandler.List)
	shop.GET("/products/:slug", catalogHandler.Get)
	shop.POST("/orders/create", limit, checkoutHandler.Create)
	shop.GET("/verify-payment", checkoutHandler.Verify)
	shop.POST("/coupons/validate", limit, couponHandler.Validate)
	shop.POST("/webhooks/paystack", webhookHandler.Paystack)

	admin := shop.Group("/admin")
	admin.POST("/login", limit, authHandler.Login)

	staff := admin.Group("")
	staff.Use(middleware.StaffRequired(facade))
	staff.GET("/orders", adminHandler.List)
	staff.POST("/orders/sweep", adminHandler.Sweep)
	staff.GET("/orders/:id", adminHandler.Get)
	staff.POST("/orders/:id/fulfill", adminHandler.Fulfill)
	staff.POST("/orders/:id/revert", adminHandler.Revert)
	staff.POST("/orders/:id/deliver", adminHandler.Deliver)
	staff.POST("/orders/:id/undeliver", adminHandler.Undeliver)
	staff.POST("/orders/:id/cancel", adminHandler.Cancel)

	return engine
}
