package v1

import (
	"net/http"

	"github.com/flexprice/billingsession/internal/api/dto"
	"github.com/flexprice/billingsession/internal/domain/user"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/service"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// ListSubscriptions returns the caller's subscriptions, newest first
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	ctx := c.Request.Context()
	subs, err := h.service.ListSubscriptions(ctx, user.FromContext(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListSubscriptionsResponse{Items: subs})
}
