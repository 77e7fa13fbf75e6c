package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/billingsession/internal/api"
	v1 "github.com/flexprice/billingsession/internal/api/v1"
	"github.com/flexprice/billingsession/internal/auth"
	"github.com/flexprice/billingsession/internal/cache"
	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/integration/stripe"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/postgres"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/repository"
	"github.com/flexprice/billingsession/internal/sentry"
	"github.com/flexprice/billingsession/internal/service"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/flexprice/billingsession/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewPriceRepository,
			repository.NewSubscriptionRepository,

			// Payment provider
			stripe.NewClient,
			stripe.NewProvider,

			// Identity provider
			auth.NewProvider,

			// Site URL
			redirect.NewSiteURL,
		),
		sentry.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCustomerService,
			service.NewCatalogService,
			service.NewCheckoutService,
			service.NewPortalService,
			service.NewSubscriptionService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	db *postgres.DB,
	catalogService service.CatalogService,
	checkoutService service.CheckoutService,
	portalService service.PortalService,
	subscriptionService service.SubscriptionService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(db, logger),
		Product:      v1.NewProductHandler(catalogService, logger),
		Checkout:     v1.NewCheckoutHandler(checkoutService, catalogService, cfg, logger),
		Portal:       v1.NewPortalHandler(portalService, cfg, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		// local runs bring their own schema up to date before serving
		runMigrations(lc, cfg, log)
		startAPIServer(lc, r, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeMigrate:
		runMigrations(lc, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func runMigrations(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			m, err := postgres.NewMigrator(cfg)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				log.Errorw("failed to apply migrations", "error", err)
				return err
			}
			version, dirty, _ := m.Version()
			log.Infow("database schema is up to date", "version", version, "dirty", dirty)
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
