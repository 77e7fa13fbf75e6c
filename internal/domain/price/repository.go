package price

import (
	"context"
)

// Repository defines the interface for catalog data access
type Repository interface {
	// Get returns ierr.ErrNotFound when the price does not exist
	Get(ctx context.Context, id string) (*Price, error)
	// ListActiveProducts returns active products with their active prices attached
	ListActiveProducts(ctx context.Context) ([]*Product, error)
}
