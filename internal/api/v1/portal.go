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

type PortalHandler struct {
	service service.PortalService
	config  *config.Configuration
	log     *logger.Logger
}

func NewPortalHandler(service service.PortalService, config *config.Configuration, log *logger.Logger) *PortalHandler {
	return &PortalHandler{service: service, config: config, log: log}
}

// CreatePortalSession returns the billing portal URL, or a {code, message}
// error for programmatic callers
func (h *PortalHandler) CreatePortalSession(c *gin.Context) {
	ctx := c.Request.Context()

	session, err := h.service.CreatePortalSession(ctx, user.FromContext(ctx))
	if err != nil {
		c.JSON(ierr.HTTPStatusFromErr(err), dto.PortalErrorResponse{
			Code:    ierr.Code(err),
			Message: ierr.DisplayMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, dto.CreatePortalSessionResponse{URL: session.URL})
}

// PortalRedirect sends the browser straight to the billing portal, or back
// to path with the error in the query string
func (h *PortalHandler) PortalRedirect(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PortalRedirectRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		req.Path = ""
	}
	if err := req.Validate(); err != nil {
		h.log.WithContext(ctx).Debugw("ignoring invalid portal return path", "path", req.Path)
		req.Path = ""
	}
	if req.Path == "" {
		req.Path = h.config.Billing.PortalReturnPath
	}

	switch result := h.service.PortalRedirect(ctx, user.FromContext(ctx), req.Path).(type) {
	case *service.PortalSessionCreated:
		c.Redirect(http.StatusSeeOther, result.URL)
	case *service.PortalErrorRedirect:
		c.Redirect(http.StatusSeeOther, result.URL)
	default:
		c.Redirect(http.StatusSeeOther, redirect.FromError(req.Path, nil))
	}
}
