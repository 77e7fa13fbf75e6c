package testutil

import (
	"context"
	"time"

	"github.com/flexprice/billingsession/internal/cache"
	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/sentry"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/flexprice/billingsession/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories for testing
type Stores struct {
	CustomerRepo     *InMemoryCustomerStore
	PriceRepo        *InMemoryPriceStore
	SubscriptionRepo *InMemorySubscriptionStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	provider *MockPaymentProvider
	cache    cache.Cache
	sentry   *sentry.Service
	siteURL  *redirect.SiteURL
	logger   *logger.Logger
	config   *config.Configuration
	now      time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Site.URL = "https://app.example.com"

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.sentry = sentry.NewSentryService(cfg, s.logger)
	s.siteURL = redirect.NewSiteURL(cfg)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		CustomerRepo:     NewInMemoryCustomerStore(),
		PriceRepo:        NewInMemoryPriceStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
	}
	s.provider = NewMockPaymentProvider()
	// a fresh cache per test keeps mappings from leaking between tests
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.CustomerRepo.Clear()
	s.stores.PriceRepo.Clear()
	s.stores.SubscriptionRepo.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetProvider returns the mock payment provider
func (s *BaseServiceTestSuite) GetProvider() *MockPaymentProvider {
	return s.provider
}

// GetCache returns the per-test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetSentry returns a disabled sentry service
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetSiteURL returns the site URL resolver for https://app.example.com
func (s *BaseServiceTestSuite) GetSiteURL() *redirect.SiteURL {
	return s.siteURL
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}
