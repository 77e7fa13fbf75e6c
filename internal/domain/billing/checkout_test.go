package billing

import (
	"testing"
	"time"

	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams() CheckoutSessionParams {
	return CheckoutSessionParams{
		CustomerID: "cus_123",
		UserID:     "user-1",
		PriceID:    "price_abc",
		SuccessURL: "https://app.example.com/account?session_id=" + CheckoutSessionIDPlaceholder,
		CancelURL:  "https://app.example.com/account",
		Now:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewCheckoutSessionRequestRecurring(t *testing.T) {
	p := baseParams()
	p.PriceType = types.PriceTypeRecurring
	p.TrialPeriodDays = lo.ToPtr(int64(7))

	req, err := NewCheckoutSessionRequest(p)
	require.NoError(t, err)

	assert.Equal(t, CheckoutModeSubscription, req.Mode)
	require.NotNil(t, req.SubscriptionData)
	require.NotNil(t, req.SubscriptionData.TrialEnd)
	assert.Equal(t, p.Now.Add(8*24*time.Hour).Unix(), *req.SubscriptionData.TrialEnd)
	assert.Equal(t, []LineItem{{PriceID: "price_abc", Quantity: 1}}, req.LineItems)
	assert.True(t, req.AllowPromotionCodes)
	assert.True(t, req.BillingAddressRequired)
	assert.Equal(t, CustomerAddressUpdateAuto, req.CustomerAddressUpdate)
	assert.Equal(t, "cus_123", req.CustomerID)
	assert.Equal(t, "user-1", req.Metadata[MetadataKeyUserID])
}

func TestNewCheckoutSessionRequestRecurringWithoutTrial(t *testing.T) {
	p := baseParams()
	p.PriceType = types.PriceTypeRecurring

	req, err := NewCheckoutSessionRequest(p)
	require.NoError(t, err)

	assert.Equal(t, CheckoutModeSubscription, req.Mode)
	require.NotNil(t, req.SubscriptionData)
	assert.Nil(t, req.SubscriptionData.TrialEnd)
}

func TestNewCheckoutSessionRequestOneTime(t *testing.T) {
	p := baseParams()
	p.PriceType = types.PriceTypeOneTime
	p.TrialPeriodDays = lo.ToPtr(int64(30))

	req, err := NewCheckoutSessionRequest(p)
	require.NoError(t, err)

	assert.Equal(t, CheckoutModePayment, req.Mode)
	assert.Nil(t, req.SubscriptionData)
	assert.Equal(t, p.SuccessURL, req.SuccessURL)
	assert.Equal(t, p.CancelURL, req.CancelURL)
}

func TestNewCheckoutSessionRequestUnknownType(t *testing.T) {
	p := baseParams()
	p.PriceType = types.PriceType("metered")

	req, err := NewCheckoutSessionRequest(p)
	assert.Nil(t, req)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrUnrecognizedPriceType))
	assert.Equal(t, ierr.ErrCodeUnrecognizedPriceType, ierr.Code(err))
}

func TestWithSessionIDPlaceholder(t *testing.T) {
	assert.Equal(t,
		"https://app.example.com/account?session_id={CHECKOUT_SESSION_ID}",
		WithSessionIDPlaceholder("https://app.example.com/account"))
	assert.Equal(t,
		"https://app.example.com/account?tab=billing&session_id={CHECKOUT_SESSION_ID}",
		WithSessionIDPlaceholder("https://app.example.com/account?tab=billing"))
}
