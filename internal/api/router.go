package api

import (
	v1 "github.com/flexprice/billingsession/internal/api/v1"
	"github.com/flexprice/billingsession/internal/auth"
	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/rest/middleware"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Product      *v1.ProductHandler
	Checkout     *v1.CheckoutHandler
	Portal       *v1.PortalHandler
	Subscription *v1.SubscriptionHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	authProvider auth.Provider,
	site *redirect.SiteURL,
) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(site),
		middleware.SentryMiddleware(cfg),
		middleware.RequestLoggerMiddleware(logger),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// every v1 route sees the caller's session when there is one; the
	// billing operations decide what an anonymous caller gets back
	v1Group := router.Group("/v1")
	v1Group.Use(
		middleware.AuthenticateMiddleware(authProvider, logger),
		middleware.SentryScopeMiddleware,
	)

	products := v1Group.Group("/products")
	{
		products.GET("", handlers.Product.ListProducts)
	}

	checkout := v1Group.Group("/checkout")
	{
		checkout.POST("", handlers.Checkout.CreateCheckoutSession)
	}

	portal := v1Group.Group("/portal")
	{
		portal.POST("", handlers.Portal.CreatePortalSession)
		portal.GET("/redirect", handlers.Portal.PortalRedirect)
	}

	subscriptions := v1Group.Group("/subscriptions")
	{
		subscriptions.GET("", handlers.Subscription.ListSubscriptions)
	}

	return router
}
