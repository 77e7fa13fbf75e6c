package service

import (
	"context"
	"fmt"

	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/redirect"
)

// PortalResult is either *PortalSessionCreated or *PortalErrorRedirect
type PortalResult interface {
	isPortalResult()
}

type PortalSessionCreated struct {
	URL string
}

type PortalErrorRedirect struct {
	URL string
	Err error
}

func (*PortalSessionCreated) isPortalResult() {}
func (*PortalErrorRedirect) isPortalResult()  {}

// PortalService opens the provider's self-service billing portal
type PortalService interface {
	// CreatePortalSession fails with ierr.ErrNoCustomerRecord for users that
	// never checked out; it never creates a billing customer
	CreatePortalSession(ctx context.Context, u *user.User) (*billing.PortalSession, error)

	// PortalRedirect is CreatePortalSession for browser flows: failures are
	// returned as an error redirect built on currentPath
	PortalRedirect(ctx context.Context, u *user.User, currentPath string) PortalResult
}

type portalService struct {
	ServiceParams
	customers CustomerService
}

func NewPortalService(params ServiceParams, customers CustomerService) PortalService {
	return &portalService{
		ServiceParams: params,
		customers:     customers,
	}
}

func (s *portalService) CreatePortalSession(ctx context.Context, u *user.User) (session *billing.PortalSession, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ierr.NewError(fmt.Sprintf("panic during portal session: %v", r)).
				WithHint(ierr.DefaultDisplayMessage).
				Mark(ierr.ErrUnknownFailure)
			s.Logger.WithContext(ctx).Errorw("recovered from panic in portal session", "panic", r)
			s.Sentry.CaptureException(ctx, err)
			session = nil
		}
	}()

	if !u.IsAuthenticated() {
		return nil, ierr.NewError("no authenticated user").
			WithHint("Could not get user session.").
			Mark(ierr.ErrNotAuthenticated)
	}

	customerID, err := s.customers.LookupCustomer(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	session, err = s.Provider.CreatePortalSession(ctx, &billing.PortalSessionRequest{
		CustomerID: customerID,
		ReturnURL:  s.SiteURL.URL(s.Config.Billing.PortalReturnPath),
	})
	if err == nil && (session == nil || session.URL == "") {
		err = ierr.NewError("provider returned no portal url").Mark(ierr.ErrHTTPClient)
	}
	if err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to create billing portal session",
			"error", err,
			"user_id", u.ID,
			"billing_customer_id", customerID,
		)
		s.Sentry.CaptureException(ctx, err)
		return nil, ierr.WithError(err).
			WithHint("Could not create billing portal").
			Mark(ierr.ErrSessionCreation)
	}

	return session, nil
}

func (s *portalService) PortalRedirect(ctx context.Context, u *user.User, currentPath string) PortalResult {
	if currentPath == "" {
		currentPath = s.Config.Billing.PortalReturnPath
	}

	session, err := s.CreatePortalSession(ctx, u)
	if err != nil {
		return &PortalErrorRedirect{
			URL: redirect.FromError(currentPath, err),
			Err: err,
		}
	}
	return &PortalSessionCreated{URL: session.URL}
}
