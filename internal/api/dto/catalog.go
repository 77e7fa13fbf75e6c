package dto

import (
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/subscription"
)

type ListProductsResponse struct {
	Items []*price.Product `json:"items"`
}

type ListSubscriptionsResponse struct {
	Items []*subscription.Subscription `json:"items"`
}
