package testutil

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/subscription"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

// NewInMemorySubscriptionStore creates a new in-memory subscription store
func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

// Create seeds a subscription
func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	cp := *sub
	return s.InMemoryStore.Create(ctx, sub.ID, &cp)
}

func (s *InMemorySubscriptionStore) ListByUserID(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	subs := s.InMemoryStore.List(ctx,
		func(_ context.Context, sub *subscription.Subscription) bool { return sub.UserID == userID },
		func(a, b *subscription.Subscription) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	out := make([]*subscription.Subscription, 0, len(subs))
	for _, sub := range subs {
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}
