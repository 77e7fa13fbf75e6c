package types

import (
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/samber/lo"
)

// PriceType is the billing cadence of a catalog price ex one_time, recurring
type PriceType string

const (
	PriceTypeOneTime   PriceType = "one_time"
	PriceTypeRecurring PriceType = "recurring"
)

// Validate reports whether t is a price type the checkout flow can handle
func (t PriceType) Validate() error {
	allowed := []PriceType{PriceTypeOneTime, PriceTypeRecurring}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("unrecognized price type").
			WithHintf("Unrecognized price type %q.", string(t)).
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrUnrecognizedPriceType)
	}
	return nil
}

// BillingInterval is the unit a recurring price renews on
type BillingInterval string

const (
	BillingIntervalDay      BillingInterval = "day"
	BillingIntervalWeek     BillingInterval = "week"
	BillingIntervalMonth    BillingInterval = "month"
	BillingIntervalYear     BillingInterval = "year"
	BillingIntervalLifetime BillingInterval = "lifetime"
)

// SubscriptionStatus mirrors the provider's subscription states
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionStatusPaused            SubscriptionStatus = "paused"
)
