package stripe

import (
	"github.com/flexprice/billingsession/internal/domain/billing"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/sentry"
	gosentry "github.com/getsentry/sentry-go"
	"github.com/stripe/stripe-go/v82"
)

// Provider implements billing.Provider on top of Stripe
type Provider struct {
	client *Client
	logger *logger.Logger
	sentry *sentry.Service
}

var _ billing.Provider = (*Provider)(nil)

// NewProvider creates the Stripe backed payment provider
func NewProvider(client *Client, logger *logger.Logger, sentrySvc *sentry.Service) billing.Provider {
	return &Provider{
		client: client,
		logger: logger,
		sentry: sentrySvc,
	}
}

// wrapStripeError marks err as a provider failure, keeping Stripe's error
// code and request id as details for support
func wrapStripeError(err error, msg string) error {
	details := map[string]any{}
	var stripeErr *stripe.Error
	if ierr.As(err, &stripeErr) {
		details["stripe_code"] = string(stripeErr.Code)
		details["stripe_type"] = string(stripeErr.Type)
		details["stripe_request_id"] = stripeErr.RequestID
		details["http_status"] = stripeErr.HTTPStatusCode
	}
	return ierr.WithError(err).
		WithMessage(msg).
		WithReportableDetails(details).
		Mark(ierr.ErrHTTPClient)
}

func finishSpan(span *gosentry.Span, err error) {
	sentry.FinishSpan(span, err)
}
