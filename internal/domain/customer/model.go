package customer

import (
	"github.com/flexprice/billingsession/internal/types"
)

// Customer maps an application user to their billing customer at the
// payment provider. A user has at most one mapping and it never changes.
type Customer struct {
	// UserID is the identity provider's id for the user
	UserID string `db:"user_id" json:"user_id"`

	// BillingCustomerID is the payment provider's customer id ex cus_...
	BillingCustomerID string `db:"billing_customer_id" json:"billing_customer_id"`

	types.BaseModel
}

// New returns a mapping ready to be persisted
func New(userID, billingCustomerID string) *Customer {
	return &Customer{
		UserID:            userID,
		BillingCustomerID: billingCustomerID,
		BaseModel:         types.GetDefaultBaseModel(),
	}
}
