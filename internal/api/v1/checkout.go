package v1

import (
	"net/http"

	"github.com/flexprice/billingsession/internal/api/dto"
	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/flexprice/billingsession/internal/service"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	service service.CheckoutService
	catalog service.CatalogService
	config  *config.Configuration
	log     *logger.Logger
}

func NewCheckoutHandler(
	service service.CheckoutService,
	catalog service.CatalogService,
	config *config.Configuration,
	log *logger.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		catalog: catalog,
		config:  config,
		log:     log,
	}
}

// CreateCheckoutSession answers with a session to hand to the client-side
// checkout redirect, or with the page to send the browser to on failure.
// Failures are never reported as a bare error body.
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorRedirect(c, h.config.Billing.DefaultReturnPath, ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		h.errorRedirect(c, h.config.Billing.DefaultReturnPath, err)
		return
	}

	returnPath := req.ReturnPath
	if returnPath == "" {
		returnPath = h.config.Billing.DefaultReturnPath
	}

	p, err := h.catalog.GetPrice(ctx, req.Price.ID)
	if err == nil && !p.Active {
		err = ierr.NewError("price is not active").
			WithReportableDetails(map[string]any{"price_id": p.ID}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		if ierr.IsNotFound(err) {
			err = ierr.WithError(err).
				WithHint("This price is no longer available.").
				Mark(ierr.ErrValidation)
		}
		h.errorRedirect(c, returnPath, err)
		return
	}

	switch result := h.service.CreateCheckoutSession(ctx, p, returnPath, user.FromContext(ctx)).(type) {
	case *service.CheckoutSessionCreated:
		c.JSON(http.StatusOK, dto.CreateCheckoutSessionResponse{
			SessionID: result.SessionID,
			URL:       result.URL,
		})
	case *service.CheckoutErrorRedirect:
		c.JSON(ierr.HTTPStatusFromErr(result.Err), dto.CreateCheckoutSessionResponse{
			ErrorRedirect: result.URL,
		})
	}
}

func (h *CheckoutHandler) errorRedirect(c *gin.Context, path string, err error) {
	h.log.WithContext(c.Request.Context()).Debugw("rejecting checkout request", "error", err)
	c.JSON(ierr.HTTPStatusFromErr(err), dto.CreateCheckoutSessionResponse{
		ErrorRedirect: redirect.FromError(path, err),
	})
}
