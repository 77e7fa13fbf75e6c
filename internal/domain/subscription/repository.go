package subscription

import (
	"context"
)

// Repository defines the interface for subscription data access
type Repository interface {
	// ListByUserID returns the user's subscriptions, newest first
	ListByUserID(ctx context.Context, userID string) ([]*Subscription, error)
}
