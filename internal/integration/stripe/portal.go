package stripe

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/billing"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

func buildPortalSessionParams(req *billing.PortalSessionRequest) *stripe.BillingPortalSessionCreateParams {
	return &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(req.ReturnURL),
	}
}

// CreatePortalSession opens a billing portal session for the customer
func (p *Provider) CreatePortalSession(ctx context.Context, req *billing.PortalSessionRequest) (*billing.PortalSession, error) {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	span, ctx := p.sentry.StartProviderSpan(ctx, "stripe.billing_portal.sessions.create", map[string]interface{}{
		"customer_id": req.CustomerID,
	})
	session, err := stripeClient.V1BillingPortalSessions.Create(ctx, buildPortalSessionParams(req))
	finishSpan(span, err)
	if err != nil {
		p.logger.Errorw("failed to create Stripe billing portal session",
			"error", err,
			"customer_id", req.CustomerID,
		)
		return nil, wrapStripeError(err, "failed to create billing portal session")
	}

	if session == nil || session.URL == "" {
		return nil, ierr.NewError("stripe returned a portal session without a url").
			Mark(ierr.ErrHTTPClient)
	}

	return &billing.PortalSession{URL: session.URL}, nil
}
