package service

import (
	"github.com/flexprice/billingsession/internal/cache"
	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/domain/customer"
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/subscription"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Cache   cache.Cache
	Sentry  *sentry.Service
	SiteURL *redirect.SiteURL

	// Repositories
	CustomerRepo customer.Repository
	PriceRepo    price.Repository
	SubRepo      subscription.Repository

	// Payment provider
	Provider billing.Provider
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	sentry *sentry.Service,
	siteURL *redirect.SiteURL,
	customerRepo customer.Repository,
	priceRepo price.Repository,
	subRepo subscription.Repository,
	provider billing.Provider,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		Cache:        cache,
		Sentry:       sentry,
		SiteURL:      siteURL,
		CustomerRepo: customerRepo,
		PriceRepo:    priceRepo,
		SubRepo:      subRepo,
		Provider:     provider,
	}
}
