package billing

import (
	"strings"
	"time"

	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/types"
)

type CheckoutMode string

const (
	CheckoutModePayment      CheckoutMode = "payment"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

const (
	// CheckoutSessionIDPlaceholder is replaced by the provider with the
	// session id when it redirects to the success URL
	CheckoutSessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

	// CustomerAddressUpdateAuto lets the provider save the address entered
	// during checkout on the customer
	CustomerAddressUpdateAuto = "auto"

	MetadataKeyUserID = "user_id"
)

// LineItem is one purchasable price in a checkout session
type LineItem struct {
	PriceID  string
	Quantity int64
}

// SubscriptionData is only present for subscription mode sessions
type SubscriptionData struct {
	// TrialEnd is Unix seconds; nil means no trial
	TrialEnd *int64
}

// CheckoutSessionRequest is everything needed to create a hosted checkout
// session, independent of the provider's wire format
type CheckoutSessionRequest struct {
	CustomerID             string
	Mode                   CheckoutMode
	LineItems              []LineItem
	SubscriptionData       *SubscriptionData
	AllowPromotionCodes    bool
	BillingAddressRequired bool
	CustomerAddressUpdate  string
	SuccessURL             string
	CancelURL              string
	Metadata               map[string]string
}

// CheckoutSessionParams are the inputs NewCheckoutSessionRequest assembles from
type CheckoutSessionParams struct {
	CustomerID      string
	UserID          string
	PriceID         string
	PriceType       types.PriceType
	TrialPeriodDays *int64
	SuccessURL      string
	CancelURL       string
	Now             time.Time
}

// NewCheckoutSessionRequest selects the session mode from the price type.
// Recurring prices open a subscription checkout carrying the trial end,
// one-time prices a payment checkout without subscription data.
func NewCheckoutSessionRequest(p CheckoutSessionParams) (*CheckoutSessionRequest, error) {
	req := &CheckoutSessionRequest{
		CustomerID: p.CustomerID,
		LineItems: []LineItem{
			{PriceID: p.PriceID, Quantity: 1},
		},
		AllowPromotionCodes:    true,
		BillingAddressRequired: true,
		CustomerAddressUpdate:  CustomerAddressUpdateAuto,
		SuccessURL:             p.SuccessURL,
		CancelURL:              p.CancelURL,
		Metadata: map[string]string{
			MetadataKeyUserID: p.UserID,
		},
	}

	switch p.PriceType {
	case types.PriceTypeRecurring:
		req.Mode = CheckoutModeSubscription
		req.SubscriptionData = &SubscriptionData{
			TrialEnd: TrialEndTimestamp(p.TrialPeriodDays, p.Now),
		}
	case types.PriceTypeOneTime:
		req.Mode = CheckoutModePayment
	default:
		return nil, ierr.NewError("unrecognized price type").
			WithHint("Unrecognized price type.").
			WithReportableDetails(map[string]any{
				"price_id": p.PriceID,
				"type":     p.PriceType,
			}).
			Mark(ierr.ErrUnrecognizedPriceType)
	}

	return req, nil
}

// WithSessionIDPlaceholder appends the session_id marker to a success URL.
// The braces must reach the provider unescaped, so the query is not re-encoded.
func WithSessionIDPlaceholder(successURL string) string {
	sep := "?"
	if strings.Contains(successURL, "?") {
		sep = "&"
	}
	return successURL + sep + "session_id=" + CheckoutSessionIDPlaceholder
}
