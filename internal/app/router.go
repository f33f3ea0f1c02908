package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"storefront/internal/handler"
	"storefront/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler     *handler.UserHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	LocationHandler *handler.LocationHandler
	OrderHandler    *handler.OrderHandler
	PaymentHandler  *handler.PaymentHandler
	WebhookHandler  *handler.WebhookHandler
	TokenParser     middleware.TokenParser
	// Idempotency replays responses for repeated Idempotency-Key headers on
	// create-style routes. Nil disables it.
	Idempotency     gin.HandlerFunc
	NewRelicApp     *newrelic.Application
	Logger          *slog.Logger
	WebhookLimiter  *middleware.RateLimiter
	AuthLimiter     *middleware.RateLimiter
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", middleware.HeaderRequestID},
		ExposeHeaders:   []string{middleware.HeaderRequestID},
		MaxAge:          12 * time.Hour,
	}))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicAttributes())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Gateway callbacks. Authenticated by signature, not by token.
	webhook := router.Group("/webhook")
	if deps.WebhookLimiter != nil {
		webhook.Use(deps.WebhookLimiter.Middleware())
	}
	webhook.POST("/", deps.WebhookHandler.Handle)

	requireAuth := middleware.RequireAuth(deps.TokenParser)
	idempotent := deps.Idempotency
	if idempotent == nil {
		idempotent = func(c *gin.Context) { c.Next() }
	}

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		if deps.AuthLimiter != nil {
			auth.Use(deps.AuthLimiter.Middleware())
		}
		{
			auth.POST("/register", deps.UserHandler.Register)
			auth.POST("/login", deps.UserHandler.Login)
			auth.GET("/me", requireAuth, deps.UserHandler.Me)
		}

		adminOnly := []gin.HandlerFunc{requireAuth, middleware.RequireAdmin()}

		products := v1.Group("/products")
		{
			products.GET("", deps.ProductHandler.GetAll)
			products.GET("/:id", deps.ProductHandler.Get)
			products.POST("", append(adminOnly, deps.ProductHandler.Create)...)
			products.PATCH("/:id", append(adminOnly, deps.ProductHandler.Update)...)
			products.DELETE("/:id", append(adminOnly, deps.ProductHandler.Delete)...)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", deps.CategoryHandler.GetAll)
			categories.GET("/:id", deps.CategoryHandler.Get)
			categories.POST("", append(adminOnly, deps.CategoryHandler.Create)...)
			categories.PUT("/:id", append(adminOnly, deps.CategoryHandler.Update)...)
			categories.DELETE("/:id", append(adminOnly, deps.CategoryHandler.Delete)...)
		}

		// Delivery areas are public so the checkout form can load them.
		states := v1.Group("/states")
		{
			states.GET("", deps.LocationHandler.ListStates)
			states.GET("/:id", deps.LocationHandler.GetState)
			states.POST("", append(adminOnly, deps.LocationHandler.CreateState)...)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("", deps.LocationHandler.ListLocations)
			locations.GET("/:id", deps.LocationHandler.GetLocation)
			locations.POST("", append(adminOnly, deps.LocationHandler.CreateLocation)...)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			orders.POST("", idempotent, deps.OrderHandler.Create)
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.Get)
			orders.PATCH("/:id/status", middleware.RequireAdmin(), deps.OrderHandler.UpdateStatus)
		}

		// Verify is a polling endpoint and must never replay a stale answer.
		payments := v1.Group("/payments", requireAuth)
		{
			payments.POST("/initiate", idempotent, deps.PaymentHandler.Initiate)
			payments.POST("/verify", deps.PaymentHandler.Verify)
			payments.GET("", deps.PaymentHandler.GetAll)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}
	}

	return router
}
