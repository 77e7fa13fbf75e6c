package testutil

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/samber/lo"
)

// InMemoryPriceStore implements price.Repository
type InMemoryPriceStore struct {
	prices   *InMemoryStore[*price.Price]
	products *InMemoryStore[*price.Product]
}

// NewInMemoryPriceStore creates a new in-memory catalog store
func NewInMemoryPriceStore() *InMemoryPriceStore {
	return &InMemoryPriceStore{
		prices:   NewInMemoryStore[*price.Price](),
		products: NewInMemoryStore[*price.Product](),
	}
}

// CreateProduct seeds a product
func (s *InMemoryPriceStore) CreateProduct(ctx context.Context, p *price.Product) error {
	cp := *p
	cp.Prices = nil
	return s.products.Create(ctx, p.ID, &cp)
}

// CreatePrice seeds a price
func (s *InMemoryPriceStore) CreatePrice(ctx context.Context, p *price.Price) error {
	cp := *p
	return s.prices.Create(ctx, p.ID, &cp)
}

func (s *InMemoryPriceStore) Get(ctx context.Context, id string) (*price.Price, error) {
	p, err := s.prices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryPriceStore) ListActiveProducts(ctx context.Context) ([]*price.Product, error) {
	products := s.products.List(ctx,
		func(_ context.Context, p *price.Product) bool { return p.Active },
		func(a, b *price.Product) bool { return a.Name < b.Name },
	)
	prices := s.prices.List(ctx,
		func(_ context.Context, p *price.Price) bool { return p.Active },
		nil,
	)
	byProduct := lo.GroupBy(prices, func(p *price.Price) string { return p.ProductID })

	return lo.Map(products, func(p *price.Product, _ int) *price.Product {
		cp := *p
		cp.Prices = lo.Map(byProduct[p.ID], func(pr *price.Price, _ int) *price.Price {
			prCopy := *pr
			return &prCopy
		})
		return &cp
	}), nil
}

// Clear removes all products and prices
func (s *InMemoryPriceStore) Clear() {
	s.prices.Clear()
	s.products.Clear()
}
