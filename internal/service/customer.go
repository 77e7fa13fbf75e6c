package service

import (
	"context"

	"github.com/flexprice/billingsession/internal/cache"
	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/flexprice/billingsession/internal/domain/customer"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/idempotency"
	"golang.org/x/sync/singleflight"
)

const hintCustomerResolution = "Unable to access customer record."

// CustomerService maps application users to billing customers
type CustomerService interface {
	// ResolveCustomer returns the user's billing customer id, creating the
	// provider customer and the mapping on first use
	ResolveCustomer(ctx context.Context, userID, email string) (string, error)

	// LookupCustomer returns the user's billing customer id without ever
	// creating one; ierr.ErrNoCustomerRecord when the user has none
	LookupCustomer(ctx context.Context, userID string) (string, error)
}

type customerService struct {
	ServiceParams
	flights singleflight.Group
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) ResolveCustomer(ctx context.Context, userID, email string) (string, error) {
	if userID == "" {
		return "", ierr.NewError("user id is required").
			WithHint(hintCustomerResolution).
			Mark(ierr.ErrCustomerResolution)
	}

	if id, ok := s.getCached(ctx, userID); ok {
		return id, nil
	}

	// first-time resolutions for one user share a single flight, which keeps
	// running even when the caller that started it goes away
	v, err, shared := s.flights.Do(userID, func() (interface{}, error) {
		return s.resolve(context.WithoutCancel(ctx), userID, email)
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.Logger.Debugw("joined in-flight customer resolution", "user_id", userID)
	}

	id, _ := v.(string)
	if id == "" {
		return "", ierr.NewError("customer resolution returned an empty id").
			WithHint(hintCustomerResolution).
			Mark(ierr.ErrCustomerResolution)
	}
	return id, nil
}

func (s *customerService) resolve(ctx context.Context, userID, email string) (string, error) {
	existing, err := s.CustomerRepo.GetByUserID(ctx, userID)
	if err == nil {
		s.setCached(ctx, existing)
		return existing.BillingCustomerID, nil
	}
	if !ierr.IsNotFound(err) {
		return "", s.narrow(ctx, err, userID)
	}

	billingCustomerID, err := s.Provider.CreateCustomer(ctx, &billing.CreateCustomerRequest{
		UserID:         userID,
		Email:          email,
		IdempotencyKey: customerIdempotencyKey(userID),
	})
	if err != nil {
		s.Sentry.CaptureException(ctx, err)
		return "", s.narrow(ctx, err, userID)
	}

	mapping := customer.New(userID, billingCustomerID)
	if err := s.CustomerRepo.Create(ctx, mapping); err != nil {
		if !ierr.IsAlreadyExists(err) {
			return "", s.narrow(ctx, err, userID)
		}

		// another process persisted a mapping first; theirs is authoritative
		persisted, getErr := s.CustomerRepo.GetByUserID(ctx, userID)
		if getErr != nil {
			return "", s.narrow(ctx, getErr, userID)
		}
		if persisted.BillingCustomerID != billingCustomerID {
			s.Logger.Warnw("discarding billing customer that lost the mapping race",
				"user_id", userID,
				"discarded_billing_customer_id", billingCustomerID,
				"billing_customer_id", persisted.BillingCustomerID,
			)
		}
		mapping = persisted
	} else {
		s.Logger.Infow("created billing customer mapping",
			"user_id", userID,
			"billing_customer_id", billingCustomerID,
		)
		s.Sentry.AddBreadcrumb("billing", "created billing customer mapping", map[string]interface{}{
			"user_id":             userID,
			"billing_customer_id": billingCustomerID,
		})
	}

	s.setCached(ctx, mapping)
	return mapping.BillingCustomerID, nil
}

func (s *customerService) LookupCustomer(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ierr.NewError("user id is required").
			WithHint(hintCustomerResolution).
			Mark(ierr.ErrCustomerResolution)
	}

	if id, ok := s.getCached(ctx, userID); ok {
		return id, nil
	}

	existing, err := s.CustomerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return "", ierr.WithError(err).
				WithHint("No customer record found.").
				Mark(ierr.ErrNoCustomerRecord)
		}
		return "", s.narrow(ctx, err, userID)
	}

	s.setCached(ctx, existing)
	return existing.BillingCustomerID, nil
}

func (s *customerService) narrow(ctx context.Context, err error, userID string) error {
	s.Logger.WithContext(ctx).Errorw("failed to resolve billing customer",
		"error", err,
		"user_id", userID,
	)
	return ierr.WithError(err).
		WithHint(hintCustomerResolution).
		Mark(ierr.ErrCustomerResolution)
}

func (s *customerService) getCached(ctx context.Context, userID string) (string, bool) {
	v, ok := s.Cache.Get(ctx, cache.GenerateKey(cache.PrefixCustomer, userID))
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// mappings never change once written, so any positive hit stays valid
func (s *customerService) setCached(ctx context.Context, c *customer.Customer) {
	s.Cache.Set(ctx, cache.GenerateKey(cache.PrefixCustomer, c.UserID), c.BillingCustomerID, s.Config.Billing.CustomerCacheTTL)
}

// the key depends on the user only so every attempt for one user converges
// on a single provider customer
func customerIdempotencyKey(userID string) string {
	return idempotency.NewGenerator().GenerateKey(idempotency.ScopeCustomerCreate, map[string]interface{}{
		"user_id": userID,
	})
}
