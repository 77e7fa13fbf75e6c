package stripe

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/billing"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

// buildCustomerCreateParams maps a customer request onto Stripe's params
func buildCustomerCreateParams(req *billing.CreateCustomerRequest) *stripe.CustomerCreateParams {
	params := &stripe.CustomerCreateParams{
		Metadata: map[string]string{
			billing.MetadataKeyUserID: req.UserID,
		},
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	return params
}

// CreateCustomer creates a Stripe customer and returns its id
func (p *Provider) CreateCustomer(ctx context.Context, req *billing.CreateCustomerRequest) (string, error) {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return "", err
	}

	span, ctx := p.sentry.StartProviderSpan(ctx, "stripe.customers.create", map[string]interface{}{
		"user_id": req.UserID,
	})
	stripeCustomer, err := stripeClient.V1Customers.Create(ctx, buildCustomerCreateParams(req))
	finishSpan(span, err)
	if err != nil {
		p.logger.Errorw("failed to create customer in Stripe",
			"error", err,
			"user_id", req.UserID,
		)
		return "", wrapStripeError(err, "failed to create customer in Stripe")
	}

	if stripeCustomer == nil || stripeCustomer.ID == "" {
		return "", ierr.NewError("stripe returned a customer without an id").
			Mark(ierr.ErrHTTPClient)
	}

	p.logger.Infow("created customer in Stripe",
		"user_id", req.UserID,
		"stripe_customer_id", stripeCustomer.ID,
	)
	return stripeCustomer.ID, nil
}
