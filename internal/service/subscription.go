package service

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/subscription"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
)

// SubscriptionService is the read-only account view of a user's subscriptions
type SubscriptionService interface {
	ListSubscriptions(ctx context.Context, u *user.User) ([]*subscription.Subscription, error)
}

type subscriptionService struct {
	ServiceParams
	catalog CatalogService
}

func NewSubscriptionService(params ServiceParams, catalog CatalogService) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		catalog:       catalog,
	}
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, u *user.User) ([]*subscription.Subscription, error) {
	if !u.IsAuthenticated() {
		return nil, ierr.NewError("no authenticated user").
			WithHint("Could not get user session.").
			Mark(ierr.ErrNotAuthenticated)
	}

	subs, err := s.SubRepo.ListByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return subs, nil
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	productByID := make(map[string]*price.Product, len(products))
	priceByID := make(map[string]*price.Price)
	for _, product := range products {
		productByID[product.ID] = product
		for _, p := range product.Prices {
			priceByID[p.ID] = p
		}
	}

	for _, sub := range subs {
		p, ok := priceByID[sub.PriceID]
		if !ok {
			// retired prices are no longer in the active catalog
			p, err = s.catalog.GetPrice(ctx, sub.PriceID)
			if err != nil {
				if ierr.IsNotFound(err) {
					s.Logger.Warnw("subscription references unknown price",
						"subscription_id", sub.ID,
						"price_id", sub.PriceID,
					)
					continue
				}
				return nil, err
			}
		}
		sub.Price = p
		sub.Product = productByID[p.ProductID]
	}

	return subs, nil
}
