package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/testutil"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

const checkoutErrorSuffix = "&message=Please%20try%20again%20later%20or%20contact%20a%20system%20administrator."

type CheckoutServiceSuite struct {
	testutil.BaseServiceTestSuite
	customers CustomerService
	service   *checkoutService
	user      *user.User
	testData  struct {
		recurring *price.Price
		oneTime   *price.Price
	}
}

func TestCheckoutService(t *testing.T) {
	suite.Run(t, new(CheckoutServiceSuite))
}

func (s *CheckoutServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetCache(),
		s.GetSentry(),
		s.GetSiteURL(),
		s.GetStores().CustomerRepo,
		s.GetStores().PriceRepo,
		s.GetStores().SubscriptionRepo,
		s.GetProvider(),
	)
	s.customers = NewCustomerService(params)
	s.service = NewCheckoutService(params, s.customers).(*checkoutService)
	s.service.now = s.GetNow
	s.user = &user.User{ID: "u1", Email: "a@b.com"}

	s.testData.recurring = &price.Price{
		ID:              "p1",
		ProductID:       "prod_1",
		Active:          true,
		UnitAmount:      lo.ToPtr(int64(1000)),
		Currency:        "usd",
		Type:            types.PriceTypeRecurring,
		Interval:        lo.ToPtr(types.BillingIntervalMonth),
		TrialPeriodDays: lo.ToPtr(int64(14)),
	}
	s.testData.oneTime = &price.Price{
		ID:         "p2",
		ProductID:  "prod_1",
		Active:     true,
		UnitAmount: lo.ToPtr(int64(5000)),
		Currency:   "usd",
		Type:       types.PriceTypeOneTime,
	}
}

func (s *CheckoutServiceSuite) created(result CheckoutResult) *CheckoutSessionCreated {
	created, ok := result.(*CheckoutSessionCreated)
	s.Require().True(ok, "expected a created session, got %#v", result)
	return created
}

func (s *CheckoutServiceSuite) errorRedirect(result CheckoutResult) *CheckoutErrorRedirect {
	redirect, ok := result.(*CheckoutErrorRedirect)
	s.Require().True(ok, "expected an error redirect, got %#v", result)
	return redirect
}

func (s *CheckoutServiceSuite) TestRecurringPriceWithTrial() {
	result := s.service.CreateCheckoutSession(s.GetContext(), s.testData.recurring, "/account", s.user)
	created := s.created(result)
	s.NotEmpty(created.SessionID)
	s.NotEmpty(created.URL)

	req := s.GetProvider().LastCheckoutRequest()
	s.Require().NotNil(req)
	s.Equal(billing.CheckoutModeSubscription, req.Mode)
	s.Equal([]billing.LineItem{{PriceID: "p1", Quantity: 1}}, req.LineItems)
	s.True(req.AllowPromotionCodes)
	s.True(req.BillingAddressRequired)
	s.Equal(billing.CustomerAddressUpdateAuto, req.CustomerAddressUpdate)
	s.Equal("https://app.example.com/account?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	s.Equal("https://app.example.com/account", req.CancelURL)
	s.Equal("u1", req.Metadata[billing.MetadataKeyUserID])

	s.Require().NotNil(req.SubscriptionData)
	s.Require().NotNil(req.SubscriptionData.TrialEnd)
	s.Equal(s.GetNow().Add(15*24*time.Hour).Unix(), *req.SubscriptionData.TrialEnd)

	mapped, err := s.GetStores().CustomerRepo.GetByUserID(s.GetContext(), "u1")
	s.Require().NoError(err)
	s.Equal(mapped.BillingCustomerID, req.CustomerID)
}

func (s *CheckoutServiceSuite) TestRecurringPriceTrialBelowMinimum() {
	s.testData.recurring.TrialPeriodDays = lo.ToPtr(int64(1))

	s.created(s.service.CreateCheckoutSession(s.GetContext(), s.testData.recurring, "/account", s.user))

	req := s.GetProvider().LastCheckoutRequest()
	s.Require().NotNil(req.SubscriptionData)
	s.Nil(req.SubscriptionData.TrialEnd)
}

func (s *CheckoutServiceSuite) TestOneTimePrice() {
	s.created(s.service.CreateCheckoutSession(s.GetContext(), s.testData.oneTime, "/pricing", s.user))

	req := s.GetProvider().LastCheckoutRequest()
	s.Equal(billing.CheckoutModePayment, req.Mode)
	s.Nil(req.SubscriptionData)
	s.Equal("https://app.example.com/pricing?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	s.Equal("https://app.example.com/pricing", req.CancelURL)
}

func (s *CheckoutServiceSuite) TestEmptyRedirectPathUsesDefault() {
	s.created(s.service.CreateCheckoutSession(s.GetContext(), s.testData.oneTime, "", s.user))

	req := s.GetProvider().LastCheckoutRequest()
	s.Equal("https://app.example.com/account", req.CancelURL)
}

func (s *CheckoutServiceSuite) TestReusesCustomerAcrossSessions() {
	s.created(s.service.CreateCheckoutSession(s.GetContext(), s.testData.recurring, "/account", s.user))
	s.created(s.service.CreateCheckoutSession(s.GetContext(), s.testData.oneTime, "/account", s.user))

	s.Equal(1, s.GetProvider().CustomerCalls())
	s.Equal(2, s.GetProvider().CheckoutCalls())
	s.Equal(s.GetProvider().CheckoutRequests[0].CustomerID, s.GetProvider().CheckoutRequests[1].CustomerID)
}

func (s *CheckoutServiceSuite) TestFailures() {
	tests := []struct {
		name         string
		price        func() *price.Price
		user         *user.User
		setup        func()
		expectedKind error
		expectedURL  string
		checkoutCall bool
	}{
		{
			name:         "unauthenticated",
			price:        func() *price.Price { return s.testData.recurring },
			user:         nil,
			expectedKind: ierr.ErrNotAuthenticated,
			expectedURL:  "/account?error=Could%20not%20get%20user%20session." + checkoutErrorSuffix,
		},
		{
			name:         "user without id",
			price:        func() *price.Price { return s.testData.recurring },
			user:         &user.User{Email: "a@b.com"},
			expectedKind: ierr.ErrNotAuthenticated,
			expectedURL:  "/account?error=Could%20not%20get%20user%20session." + checkoutErrorSuffix,
		},
		{
			name: "unrecognized price type",
			price: func() *price.Price {
				p := *s.testData.oneTime
				p.Type = types.PriceType("usage")
				return &p
			},
			user:         s.user,
			expectedKind: ierr.ErrUnrecognizedPriceType,
			expectedURL:  "/account?error=Unrecognized%20price%20type." + checkoutErrorSuffix,
		},
		{
			name:  "customer resolution fails",
			price: func() *price.Price { return s.testData.recurring },
			user:  s.user,
			setup: func() {
				s.GetStores().CustomerRepo.FailNext = ierr.NewError("connection refused").Mark(ierr.ErrDatabase)
			},
			expectedKind: ierr.ErrCustomerResolution,
			expectedURL:  "/account?error=Unable%20to%20access%20customer%20record." + checkoutErrorSuffix,
		},
		{
			name:  "provider rejects session",
			price: func() *price.Price { return s.testData.recurring },
			user:  s.user,
			setup: func() {
				s.GetProvider().OnCreateCheckoutSession = func(context.Context, *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
					return nil, ierr.NewError("card declined").Mark(ierr.ErrHTTPClient)
				}
			},
			expectedKind: ierr.ErrSessionCreation,
			expectedURL:  "/account?error=Unable%20to%20create%20checkout%20session." + checkoutErrorSuffix,
			checkoutCall: true,
		},
		{
			name:  "provider returns empty session id",
			price: func() *price.Price { return s.testData.recurring },
			user:  s.user,
			setup: func() {
				s.GetProvider().OnCreateCheckoutSession = func(context.Context, *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
					return &billing.CheckoutSession{}, nil
				}
			},
			expectedKind: ierr.ErrSessionCreation,
			expectedURL:  "/account?error=Unable%20to%20create%20checkout%20session." + checkoutErrorSuffix,
			checkoutCall: true,
		},
		{
			name:  "provider panics",
			price: func() *price.Price { return s.testData.recurring },
			user:  s.user,
			setup: func() {
				s.GetProvider().OnCreateCheckoutSession = func(context.Context, *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
					panic("boom")
				}
			},
			expectedKind: ierr.ErrUnknownFailure,
			expectedURL:  "/account?error=An%20unknown%20error%20occurred." + checkoutErrorSuffix,
			checkoutCall: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			if tt.setup != nil {
				tt.setup()
			}

			result := s.service.CreateCheckoutSession(s.GetContext(), tt.price(), "/account", tt.user)
			redirect := s.errorRedirect(result)
			s.True(ierr.Is(redirect.Err, tt.expectedKind), "got %v", redirect.Err)
			s.Equal(tt.expectedURL, redirect.URL)
			s.Equal(tt.checkoutCall, s.GetProvider().CheckoutCalls() > 0)
		})
	}
}

func (s *CheckoutServiceSuite) TestUnauthenticatedTouchesNoProvider() {
	s.errorRedirect(s.service.CreateCheckoutSession(s.GetContext(), s.testData.recurring, "/account", nil))

	s.Equal(0, s.GetProvider().CustomerCalls())
	s.Equal(0, s.GetProvider().CheckoutCalls())
	s.Equal(0, s.GetStores().CustomerRepo.Count())
}

func (s *CheckoutServiceSuite) TestErrorRedirectKeepsExistingQuery() {
	redirect := s.errorRedirect(s.service.CreateCheckoutSession(s.GetContext(), s.testData.recurring, "/pricing?plan=pro", nil))
	s.True(strings.HasPrefix(redirect.URL, "/pricing?plan=pro&error="), redirect.URL)
}

// The full flow a browser goes through: first checkout creates the billing
// customer, the portal then finds it.
func (s *CheckoutServiceSuite) TestCheckoutThenPortal() {
	portal := NewPortalService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetCache(),
		s.GetSentry(),
		s.GetSiteURL(),
		s.GetStores().CustomerRepo,
		s.GetStores().PriceRepo,
		s.GetStores().SubscriptionRepo,
		s.GetProvider(),
	), s.customers)

	_, err := portal.CreatePortalSession(s.GetContext(), s.user)
	s.True(ierr.IsNoCustomerRecord(err))

	s.created(s.service.CreateCheckoutSession(s.GetContext(), s.testData.recurring, "/account", s.user))
	customerID := s.GetProvider().LastCheckoutRequest().CustomerID

	session, err := portal.CreatePortalSession(s.GetContext(), s.user)
	s.Require().NoError(err)
	s.NotEmpty(session.URL)
	s.Require().Equal(1, s.GetProvider().PortalCalls())
	s.Equal(customerID, s.GetProvider().PortalRequests[0].CustomerID)
	s.Equal("https://app.example.com/account", s.GetProvider().PortalRequests[0].ReturnURL)
}
