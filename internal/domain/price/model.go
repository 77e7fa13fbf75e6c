package price

import (
	"sort"

	"github.com/flexprice/billingsession/internal/types"
)

// Price is a catalog price as synced from the payment provider
type Price struct {
	// ID is the provider's price id, used directly as the checkout line item
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	Active    bool   `db:"active" json:"active"`

	Description string `db:"description" json:"description,omitempty"`

	// UnitAmount is in the smallest currency unit ex cents
	UnitAmount *int64 `db:"unit_amount" json:"unit_amount,omitempty"`
	Currency   string `db:"currency" json:"currency"`

	Type            types.PriceType        `db:"type" json:"type"`
	Interval        *types.BillingInterval `db:"interval" json:"interval,omitempty"`
	IntervalCount   *int64                 `db:"interval_count" json:"interval_count,omitempty"`
	TrialPeriodDays *int64                 `db:"trial_period_days" json:"trial_period_days,omitempty"`

	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// Product is a catalog product with its prices
type Product struct {
	ID          string         `db:"id" json:"id"`
	Active      bool           `db:"active" json:"active"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description,omitempty"`
	Image       string         `db:"image" json:"image,omitempty"`
	Metadata    types.Metadata `db:"metadata" json:"metadata,omitempty"`

	Prices []*Price `db:"-" json:"prices"`

	types.BaseModel
}

// SortPrices orders the product's prices by unit amount, cheapest first.
// Prices without an amount sort last.
func (p *Product) SortPrices() {
	sort.SliceStable(p.Prices, func(i, j int) bool {
		a, b := p.Prices[i].UnitAmount, p.Prices[j].UnitAmount
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
