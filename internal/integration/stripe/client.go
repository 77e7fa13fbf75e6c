package stripe

import (
	"sync"

	"github.com/flexprice/billingsession/internal/config"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/stripe/stripe-go/v82"
)

// Client owns the process-wide Stripe API handle. The handle is built on
// first use and shared by every request.
type Client struct {
	secretKey string
	logger    *logger.Logger

	once sync.Once
	api  *stripe.Client
}

// NewClient creates a new Stripe client
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		secretKey: cfg.Stripe.SecretKey,
		logger:    logger,
	}
}

// GetStripeClient returns the shared Stripe API handle
func (c *Client) GetStripeClient() (*stripe.Client, error) {
	if c.secretKey == "" {
		return nil, ierr.NewError("stripe secret key is not configured").
			WithHint("Payment provider is not configured").
			Mark(ierr.ErrSystem)
	}

	c.once.Do(func() {
		c.logger.Debug("initializing stripe client")
		c.api = stripe.NewClient(c.secretKey, nil)
	})
	return c.api, nil
}
