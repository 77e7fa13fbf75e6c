package subscription

import (
	"time"

	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/types"
)

// Subscription is the read model of a provider subscription owned by a user
type Subscription struct {
	ID       string                   `db:"id" json:"id"`
	UserID   string                   `db:"user_id" json:"user_id"`
	Status   types.SubscriptionStatus `db:"status" json:"status"`
	PriceID  string                   `db:"price_id" json:"price_id"`
	Quantity int64                    `db:"quantity" json:"quantity"`

	CancelAtPeriodEnd  bool       `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CurrentPeriodStart time.Time  `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `db:"current_period_end" json:"current_period_end"`
	EndedAt            *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CancelAt           *time.Time `db:"cancel_at" json:"cancel_at,omitempty"`
	CanceledAt         *time.Time `db:"canceled_at" json:"canceled_at,omitempty"`
	TrialStart         *time.Time `db:"trial_start" json:"trial_start,omitempty"`
	TrialEnd           *time.Time `db:"trial_end" json:"trial_end,omitempty"`

	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	Price   *price.Price   `db:"-" json:"price,omitempty"`
	Product *price.Product `db:"-" json:"product,omitempty"`

	types.BaseModel
}

// IsActive reports whether the subscription currently grants access
func (s *Subscription) IsActive() bool {
	return s.Status == types.SubscriptionStatusActive || s.Status == types.SubscriptionStatusTrialing
}
