package billing

import (
	"context"
)

// Provider is the payment provider the billing flows create customers and
// hosted sessions with. Implementations return provider errors unwrapped;
// callers narrow them.
type Provider interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (string, error)
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, req *PortalSessionRequest) (*PortalSession, error)
}

// CreateCustomerRequest creates a provider customer for an application user
type CreateCustomerRequest struct {
	UserID string
	Email  string
	// IdempotencyKey makes retried creates for the same user return the same customer
	IdempotencyKey string
	Metadata       map[string]string
}

// CheckoutSession is a hosted checkout page created at the provider
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url,omitempty"`
}

// PortalSessionRequest opens the provider's self-service portal for a customer
type PortalSessionRequest struct {
	CustomerID string
	ReturnURL  string
}

// PortalSession is a short-lived portal link
type PortalSession struct {
	URL string `json:"url"`
}
