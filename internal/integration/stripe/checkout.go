package stripe

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/billing"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"
)

// buildCheckoutSessionParams maps a checkout request onto Stripe's params
func buildCheckoutSessionParams(req *billing.CheckoutSessionRequest) *stripe.CheckoutSessionCreateParams {
	params := &stripe.CheckoutSessionCreateParams{
		Customer:            stripe.String(req.CustomerID),
		Mode:                stripe.String(string(req.Mode)),
		AllowPromotionCodes: stripe.Bool(req.AllowPromotionCodes),
		SuccessURL:          stripe.String(req.SuccessURL),
		CancelURL:           stripe.String(req.CancelURL),
		Metadata:            req.Metadata,
		LineItems: lo.Map(req.LineItems, func(item billing.LineItem, _ int) *stripe.CheckoutSessionCreateLineItemParams {
			return &stripe.CheckoutSessionCreateLineItemParams{
				Price:    stripe.String(item.PriceID),
				Quantity: stripe.Int64(item.Quantity),
			}
		}),
	}

	if req.BillingAddressRequired {
		params.BillingAddressCollection = stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired))
	}

	if req.CustomerAddressUpdate != "" {
		params.CustomerUpdate = &stripe.CheckoutSessionCreateCustomerUpdateParams{
			Address: stripe.String(req.CustomerAddressUpdate),
		}
	}

	if req.SubscriptionData != nil {
		params.SubscriptionData = &stripe.CheckoutSessionCreateSubscriptionDataParams{
			TrialEnd: req.SubscriptionData.TrialEnd,
			Metadata: req.Metadata,
		}
	}

	return params
}

// CreateCheckoutSession creates a hosted checkout session
func (p *Provider) CreateCheckoutSession(ctx context.Context, req *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	span, ctx := p.sentry.StartProviderSpan(ctx, "stripe.checkout.sessions.create", map[string]interface{}{
		"customer_id": req.CustomerID,
		"mode":        req.Mode,
	})
	session, err := stripeClient.V1CheckoutSessions.Create(ctx, buildCheckoutSessionParams(req))
	finishSpan(span, err)
	if err != nil {
		p.logger.Errorw("failed to create Stripe checkout session",
			"error", err,
			"customer_id", req.CustomerID,
			"mode", req.Mode,
		)
		return nil, wrapStripeError(err, "failed to create checkout session")
	}

	if session == nil || session.ID == "" {
		return nil, ierr.NewError("stripe returned a checkout session without an id").
			Mark(ierr.ErrHTTPClient)
	}

	return &billing.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}
