package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flexprice/billingsession/internal/api/dto"
	v1 "github.com/flexprice/billingsession/internal/api/v1"
	"github.com/flexprice/billingsession/internal/cache"
	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/sentry"
	"github.com/flexprice/billingsession/internal/service"
	"github.com/flexprice/billingsession/internal/testutil"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/flexprice/billingsession/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

const errorMessageQuery = "&message=Please%20try%20again%20later%20or%20contact%20a%20system%20administrator."

type stubAuthProvider struct{}

func (stubAuthProvider) VerifySession(_ context.Context, token string) (*user.User, error) {
	if token == "token-u1" {
		return &user.User{ID: "u1", Email: "a@b.com"}, nil
	}
	return nil, ierr.NewError("invalid token").Mark(ierr.ErrNotAuthenticated)
}

type stubPinger struct {
	err error
}

func (p *stubPinger) PingContext(context.Context) error {
	return p.err
}

type RouterSuite struct {
	suite.Suite
	router    *gin.Engine
	db        *stubPinger
	customers *testutil.InMemoryCustomerStore
	prices    *testutil.InMemoryPriceStore
	provider  *testutil.MockPaymentProvider
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validator.NewValidator()
}

func (s *RouterSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.Site.URL = "https://app.example.com"
	cfg.Deployment.Mode = types.ModeLocal

	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)

	s.db = &stubPinger{}
	s.customers = testutil.NewInMemoryCustomerStore()
	s.prices = testutil.NewInMemoryPriceStore()
	s.provider = testutil.NewMockPaymentProvider()
	site := redirect.NewSiteURL(cfg)

	params := service.NewServiceParams(
		log,
		cfg,
		cache.NewInMemoryCache(cfg, log),
		sentry.NewSentryService(cfg, log),
		site,
		s.customers,
		s.prices,
		testutil.NewInMemorySubscriptionStore(),
		s.provider,
	)
	customers := service.NewCustomerService(params)
	catalog := service.NewCatalogService(params)

	s.router = NewRouter(Handlers{
		Health:       v1.NewHealthHandler(s.db, log),
		Product:      v1.NewProductHandler(catalog, log),
		Checkout:     v1.NewCheckoutHandler(service.NewCheckoutService(params, customers), catalog, cfg, log),
		Portal:       v1.NewPortalHandler(service.NewPortalService(params, customers), cfg, log),
		Subscription: v1.NewSubscriptionHandler(service.NewSubscriptionService(params, catalog), log),
	}, cfg, log, stubAuthProvider{}, site)

	ctx := context.Background()
	s.Require().NoError(s.prices.CreateProduct(ctx, &price.Product{ID: "prod_1", Active: true, Name: "Pro"}))
	s.Require().NoError(s.prices.CreatePrice(ctx, &price.Price{
		ID:              "p1",
		ProductID:       "prod_1",
		Active:          true,
		UnitAmount:      lo.ToPtr(int64(1000)),
		Type:            types.PriceTypeRecurring,
		TrialPeriodDays: lo.ToPtr(int64(14)),
	}))
	s.Require().NoError(s.prices.CreatePrice(ctx, &price.Price{
		ID:        "p_retired",
		ProductID: "prod_1",
		Active:    false,
		Type:      types.PriceTypeOneTime,
	}))
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(types.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decodeCheckout(w *httptest.ResponseRecorder) dto.CreateCheckoutSessionResponse {
	var resp dto.CreateCheckoutSessionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"postgres":"up"`)

	s.db.err = errors.New("connection refused")
	w = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Contains(w.Body.String(), `"postgres":"down"`)
}

func (s *RouterSuite) TestListProducts() {
	w := s.do(http.MethodGet, "/v1/products", "", nil)
	s.Equal(http.StatusOK, w.Code)

	var resp dto.ListProductsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Items, 1)
	s.Require().Len(resp.Items[0].Prices, 1)
	s.Equal("p1", resp.Items[0].Prices[0].ID)
}

func (s *RouterSuite) TestCheckout() {
	w := s.do(http.MethodPost, "/v1/checkout", "token-u1", dto.CreateCheckoutSessionRequest{
		Price:      dto.PriceRef{ID: "p1"},
		ReturnPath: "/account",
	})
	s.Equal(http.StatusOK, w.Code)

	resp := s.decodeCheckout(w)
	s.NotEmpty(resp.SessionID)
	s.Empty(resp.ErrorRedirect)

	req := s.provider.LastCheckoutRequest()
	s.Require().NotNil(req)
	s.Equal(billing.CheckoutModeSubscription, req.Mode)
	s.Equal(1, s.customers.Count())
}

func (s *RouterSuite) TestCheckoutFailures() {
	tests := []struct {
		name           string
		token          string
		body           any
		expectedStatus int
		expectedURL    string
	}{
		{
			name:           "anonymous",
			body:           dto.CreateCheckoutSessionRequest{Price: dto.PriceRef{ID: "p1"}, ReturnPath: "/pricing"},
			expectedStatus: http.StatusUnauthorized,
			expectedURL:    "/pricing?error=Could%20not%20get%20user%20session." + errorMessageQuery,
		},
		{
			name:           "invalid token",
			token:          "expired",
			body:           dto.CreateCheckoutSessionRequest{Price: dto.PriceRef{ID: "p1"}},
			expectedStatus: http.StatusUnauthorized,
			expectedURL:    "/account?error=Could%20not%20get%20user%20session." + errorMessageQuery,
		},
		{
			name:           "unknown price",
			token:          "token-u1",
			body:           dto.CreateCheckoutSessionRequest{Price: dto.PriceRef{ID: "p_missing"}, ReturnPath: "/pricing"},
			expectedStatus: http.StatusBadRequest,
			expectedURL:    "/pricing?error=This%20price%20is%20no%20longer%20available." + errorMessageQuery,
		},
		{
			name:           "retired price",
			token:          "token-u1",
			body:           dto.CreateCheckoutSessionRequest{Price: dto.PriceRef{ID: "p_retired"}, ReturnPath: "/pricing"},
			expectedStatus: http.StatusBadRequest,
			expectedURL:    "/pricing?error=This%20price%20is%20no%20longer%20available." + errorMessageQuery,
		},
		{
			name:           "off-site return path",
			token:          "token-u1",
			body:           dto.CreateCheckoutSessionRequest{Price: dto.PriceRef{ID: "p1"}, ReturnPath: "//evil.example"},
			expectedStatus: http.StatusBadRequest,
			expectedURL:    "/account?error=Invalid%20return%20path." + errorMessageQuery,
		},
		{
			name:           "return path with tab",
			token:          "token-u1",
			body:           dto.CreateCheckoutSessionRequest{Price: dto.PriceRef{ID: "p1"}, ReturnPath: "/\t/evil.example"},
			expectedStatus: http.StatusBadRequest,
			expectedURL:    "/account?error=Invalid%20return%20path." + errorMessageQuery,
		},
		{
			name:           "malformed body",
			token:          "token-u1",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
			expectedURL:    "/account?error=Invalid%20request%20format" + errorMessageQuery,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/v1/checkout", tt.token, tt.body)
			s.Equal(tt.expectedStatus, w.Code)

			resp := s.decodeCheckout(w)
			s.Empty(resp.SessionID)
			s.Equal(tt.expectedURL, resp.ErrorRedirect)
		})
	}
	s.Equal(0, s.provider.CheckoutCalls())
}

func (s *RouterSuite) TestPortal() {
	w := s.do(http.MethodPost, "/v1/portal", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	var errResp dto.PortalErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
	s.Equal(ierr.ErrCodeNotAuthenticated, errResp.Code)
	s.Equal("Could not get user session.", errResp.Message)

	w = s.do(http.MethodPost, "/v1/portal", "token-u1", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
	s.Equal(ierr.ErrCodeNoCustomerRecord, errResp.Code)
	s.Equal(0, s.customers.Count())

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/checkout", "token-u1", dto.CreateCheckoutSessionRequest{
		Price: dto.PriceRef{ID: "p1"},
	}).Code)

	w = s.do(http.MethodPost, "/v1/portal", "token-u1", nil)
	s.Equal(http.StatusOK, w.Code)
	var resp dto.CreatePortalSessionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(strings.HasPrefix(resp.URL, "https://billing.stripe.test/"))
}

func (s *RouterSuite) TestPortalRedirect() {
	w := s.do(http.MethodGet, "/v1/portal/redirect?path=/settings", "token-u1", nil)
	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal("/settings?error=No%20customer%20record%20found."+errorMessageQuery, w.Header().Get("Location"))

	for _, path := range []string{"//evil.example", "/%09/evil.example", "/%0A/evil.example"} {
		w = s.do(http.MethodGet, "/v1/portal/redirect?path="+path, "token-u1", nil)
		s.Equal(http.StatusSeeOther, w.Code, path)
		s.True(strings.HasPrefix(w.Header().Get("Location"), "/account?error="), path)
	}
}

func (s *RouterSuite) TestListSubscriptions() {
	w := s.do(http.MethodGet, "/v1/subscriptions", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	var errResp ierr.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
	s.Equal(ierr.ErrCodeNotAuthenticated, errResp.Error.Code)

	w = s.do(http.MethodGet, "/v1/subscriptions", "token-u1", nil)
	s.Equal(http.StatusOK, w.Code)
}
