package customer

import (
	"context"
)

// Repository defines the interface for customer mapping data access
type Repository interface {
	// GetByUserID returns ierr.ErrNotFound when the user has no mapping
	GetByUserID(ctx context.Context, userID string) (*Customer, error)
	// Create returns ierr.ErrAlreadyExists when the user already has a mapping
	Create(ctx context.Context, customer *Customer) error
}
