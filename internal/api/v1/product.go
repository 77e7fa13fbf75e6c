package v1

import (
	"net/http"

	"github.com/flexprice/billingsession/internal/api/dto"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewProductHandler(service service.CatalogService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

// ListProducts returns the active catalog for the pricing page
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListProductsResponse{Items: products})
}
