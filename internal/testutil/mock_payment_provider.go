package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/types"
)

// MockPaymentProvider implements billing.Provider in memory. Customer
// creation honours idempotency keys the way the real provider does.
type MockPaymentProvider struct {
	mu sync.Mutex

	// Hooks override the default behaviour when set
	OnCreateCustomer        func(ctx context.Context, req *billing.CreateCustomerRequest) (string, error)
	OnCreateCheckoutSession func(ctx context.Context, req *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error)
	OnCreatePortalSession   func(ctx context.Context, req *billing.PortalSessionRequest) (*billing.PortalSession, error)

	CustomerRequests []*billing.CreateCustomerRequest
	CheckoutRequests []*billing.CheckoutSessionRequest
	PortalRequests   []*billing.PortalSessionRequest

	customersByKey map[string]string
}

var _ billing.Provider = (*MockPaymentProvider)(nil)

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{
		customersByKey: make(map[string]string),
	}
}

func (m *MockPaymentProvider) CreateCustomer(ctx context.Context, req *billing.CreateCustomerRequest) (string, error) {
	m.mu.Lock()
	m.CustomerRequests = append(m.CustomerRequests, req)
	hook := m.OnCreateCustomer
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.customersByKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return id, nil
	}
	id := types.GenerateUUIDWithPrefix("cus")
	if req.IdempotencyKey != "" {
		m.customersByKey[req.IdempotencyKey] = id
	}
	return id, nil
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
	m.mu.Lock()
	m.CheckoutRequests = append(m.CheckoutRequests, req)
	hook := m.OnCreateCheckoutSession
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}
	id := types.GenerateUUIDWithPrefix("cs_test")
	return &billing.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("https://checkout.stripe.test/c/pay/%s", id),
	}, nil
}

func (m *MockPaymentProvider) CreatePortalSession(ctx context.Context, req *billing.PortalSessionRequest) (*billing.PortalSession, error) {
	m.mu.Lock()
	m.PortalRequests = append(m.PortalRequests, req)
	hook := m.OnCreatePortalSession
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}
	return &billing.PortalSession{
		URL: fmt.Sprintf("https://billing.stripe.test/p/session/%s", req.CustomerID),
	}, nil
}

// CustomerCalls returns the number of CreateCustomer calls
func (m *MockPaymentProvider) CustomerCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CustomerRequests)
}

// CheckoutCalls returns the number of CreateCheckoutSession calls
func (m *MockPaymentProvider) CheckoutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CheckoutRequests)
}

// PortalCalls returns the number of CreatePortalSession calls
func (m *MockPaymentProvider) PortalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PortalRequests)
}

// LastCheckoutRequest returns the most recent checkout request, or nil
func (m *MockPaymentProvider) LastCheckoutRequest() *billing.CheckoutSessionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.CheckoutRequests) == 0 {
		return nil
	}
	return m.CheckoutRequests[len(m.CheckoutRequests)-1]
}
