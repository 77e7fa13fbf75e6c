package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexprice/billingsession/internal/domain/customer"
)

// InMemoryCustomerStore implements customer.Repository keyed by user id,
// mirroring the unique constraint of the customers table
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]

	// FailNext makes the next call fail with the given error
	FailNext error

	creates atomic.Int64
}

// NewInMemoryCustomerStore creates a new in-memory customer store
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (s *InMemoryCustomerStore) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *InMemoryCustomerStore) GetByUserID(ctx context.Context, userID string) (*customer.Customer, error) {
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	c, err := s.InMemoryStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.creates.Add(1)
	return s.InMemoryStore.Create(ctx, c.UserID, copyCustomer(c))
}

// CreateAttempts returns how many inserts were attempted, including rejected ones
func (s *InMemoryCustomerStore) CreateAttempts() int64 {
	return s.creates.Load()
}
