package service

import (
	"context"
	"time"

	"github.com/flexprice/billingsession/internal/cache"
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/samber/lo"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService serves the products shown on the pricing page
type CatalogService interface {
	// ListProducts returns active products with their active prices, each
	// product's prices ordered by unit amount. Prices of a type checkout
	// cannot handle are left out.
	ListProducts(ctx context.Context) ([]*price.Product, error)

	// GetPrice returns a catalog price by id
	GetPrice(ctx context.Context, id string) (*price.Price, error)
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{ServiceParams: params}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*price.Product, error) {
	key := cache.GenerateKey(cache.PrefixProduct, "active")
	if v, ok := s.Cache.Get(ctx, key); ok {
		if products, ok := v.([]*price.Product); ok {
			return products, nil
		}
	}

	products, err := s.PriceRepo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		// prices checkout cannot sell are kept off the pricing page
		product.Prices = lo.Filter(product.Prices, func(p *price.Price, _ int) bool {
			if err := p.Type.Validate(); err != nil {
				s.Logger.Warnw("hiding price with unsupported type",
					"price_id", p.ID,
					"type", p.Type,
				)
				return false
			}
			return true
		})
		product.SortPrices()
	}

	s.Cache.Set(ctx, key, products, catalogCacheTTL)
	return products, nil
}

func (s *catalogService) GetPrice(ctx context.Context, id string) (*price.Price, error) {
	return s.PriceRepo.Get(ctx, id)
}
