package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/types"
)

// CheckoutResult is either *CheckoutSessionCreated or *CheckoutErrorRedirect
type CheckoutResult interface {
	isCheckoutResult()
}

// CheckoutSessionCreated carries the hosted checkout session
type CheckoutSessionCreated struct {
	SessionID string
	URL       string
}

// CheckoutErrorRedirect carries the page the browser should be sent to
// after a failed checkout attempt, and the error behind it
type CheckoutErrorRedirect struct {
	URL string
	Err error
}

func (*CheckoutSessionCreated) isCheckoutResult() {}
func (*CheckoutErrorRedirect) isCheckoutResult()  {}

func newCheckoutErrorRedirect(path string, err error) *CheckoutErrorRedirect {
	return &CheckoutErrorRedirect{
		URL: redirect.FromError(path, err),
		Err: err,
	}
}

// CheckoutService creates hosted checkout sessions for catalog prices
type CheckoutService interface {
	// CreateCheckoutSession never returns nil. Every failure is reported as
	// a *CheckoutErrorRedirect built on redirectPath.
	CreateCheckoutSession(ctx context.Context, p *price.Price, redirectPath string, u *user.User) CheckoutResult
}

type checkoutService struct {
	ServiceParams
	customers CustomerService
	now       func() time.Time
}

func NewCheckoutService(params ServiceParams, customers CustomerService) CheckoutService {
	return &checkoutService{
		ServiceParams: params,
		customers:     customers,
		now:           time.Now,
	}
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, p *price.Price, redirectPath string, u *user.User) (result CheckoutResult) {
	if redirectPath == "" {
		redirectPath = s.Config.Billing.DefaultReturnPath
	}

	defer func() {
		if r := recover(); r != nil {
			err := ierr.NewError(fmt.Sprintf("panic during checkout: %v", r)).
				WithHint(ierr.DefaultDisplayMessage).
				Mark(ierr.ErrUnknownFailure)
			s.Logger.WithContext(ctx).Errorw("recovered from panic in checkout", "panic", r)
			s.Sentry.CaptureException(ctx, err)
			result = newCheckoutErrorRedirect(redirectPath, err)
		}
	}()

	session, err := s.createCheckoutSession(ctx, p, redirectPath, u)
	if err != nil {
		return newCheckoutErrorRedirect(redirectPath, err)
	}
	return &CheckoutSessionCreated{SessionID: session.ID, URL: session.URL}
}

func (s *checkoutService) createCheckoutSession(ctx context.Context, p *price.Price, redirectPath string, u *user.User) (*billing.CheckoutSession, error) {
	if !u.IsAuthenticated() {
		return nil, ierr.NewError("no authenticated user").
			WithHint("Could not get user session.").
			Mark(ierr.ErrNotAuthenticated)
	}

	if p == nil || p.ID == "" {
		return nil, ierr.NewError("price is required").
			WithHint("A price must be selected.").
			Mark(ierr.ErrValidation)
	}

	customerID, err := s.customers.ResolveCustomer(ctx, u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	redirectURL := s.SiteURL.URL(redirectPath)
	req, err := billing.NewCheckoutSessionRequest(billing.CheckoutSessionParams{
		CustomerID:      customerID,
		UserID:          u.ID,
		PriceID:         p.ID,
		PriceType:       p.Type,
		TrialPeriodDays: p.TrialPeriodDays,
		SuccessURL:      billing.WithSessionIDPlaceholder(redirectURL),
		CancelURL:       redirectURL,
		Now:             s.now(),
	})
	if err != nil {
		return nil, err
	}

	session, err := s.Provider.CreateCheckoutSession(ctx, req)
	if err == nil && (session == nil || session.ID == "") {
		err = ierr.NewError("provider returned no checkout session id").Mark(ierr.ErrHTTPClient)
	}
	if err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to create checkout session",
			"error", err,
			"user_id", u.ID,
			"price_id", p.ID,
			"mode", req.Mode,
		)
		s.Sentry.CaptureException(ctx, err)
		return nil, ierr.WithError(err).
			WithHint("Unable to create checkout session.").
			Mark(ierr.ErrSessionCreation)
	}

	fields := []interface{}{
		"user_id", u.ID,
		"price_id", p.ID,
		"mode", req.Mode,
		"session_id", session.ID,
	}
	if req.SubscriptionData != nil && req.SubscriptionData.TrialEnd != nil {
		fields = append(fields, "trial_end", types.ToDateTimePtr(*req.SubscriptionData.TrialEnd))
	}
	s.Logger.WithContext(ctx).Infow("created checkout session", fields...)
	return session, nil
}
