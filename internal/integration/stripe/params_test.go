package stripe

import (
	"testing"

	"github.com/flexprice/billingsession/internal/domain/billing"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func checkoutRequest(mode billing.CheckoutMode, data *billing.SubscriptionData) *billing.CheckoutSessionRequest {
	return &billing.CheckoutSessionRequest{
		CustomerID:             "cus_123",
		Mode:                   mode,
		LineItems:              []billing.LineItem{{PriceID: "price_abc", Quantity: 1}},
		SubscriptionData:       data,
		AllowPromotionCodes:    true,
		BillingAddressRequired: true,
		CustomerAddressUpdate:  billing.CustomerAddressUpdateAuto,
		SuccessURL:             "https://app.example.com/account?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:              "https://app.example.com/account",
		Metadata:               map[string]string{billing.MetadataKeyUserID: "user-1"},
	}
}

func TestBuildCheckoutSessionParamsSubscription(t *testing.T) {
	req := checkoutRequest(billing.CheckoutModeSubscription, &billing.SubscriptionData{TrialEnd: lo.ToPtr(int64(1700000000))})

	params := buildCheckoutSessionParams(req)

	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), lo.FromPtr(params.Mode))
	assert.Equal(t, "cus_123", lo.FromPtr(params.Customer))
	assert.True(t, lo.FromPtr(params.AllowPromotionCodes))
	assert.Equal(t, string(stripe.CheckoutSessionBillingAddressCollectionRequired), lo.FromPtr(params.BillingAddressCollection))
	require.NotNil(t, params.CustomerUpdate)
	assert.Equal(t, "auto", lo.FromPtr(params.CustomerUpdate.Address))
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, "price_abc", lo.FromPtr(params.LineItems[0].Price))
	assert.Equal(t, int64(1), lo.FromPtr(params.LineItems[0].Quantity))
	require.NotNil(t, params.SubscriptionData)
	assert.Equal(t, int64(1700000000), lo.FromPtr(params.SubscriptionData.TrialEnd))
	assert.Equal(t, "user-1", params.Metadata["user_id"])
	assert.Equal(t, "https://app.example.com/account?session_id={CHECKOUT_SESSION_ID}", lo.FromPtr(params.SuccessURL))
	assert.Equal(t, "https://app.example.com/account", lo.FromPtr(params.CancelURL))
}

func TestBuildCheckoutSessionParamsSubscriptionWithoutTrial(t *testing.T) {
	params := buildCheckoutSessionParams(checkoutRequest(billing.CheckoutModeSubscription, &billing.SubscriptionData{}))

	require.NotNil(t, params.SubscriptionData)
	assert.Nil(t, params.SubscriptionData.TrialEnd)
}

func TestBuildCheckoutSessionParamsPayment(t *testing.T) {
	params := buildCheckoutSessionParams(checkoutRequest(billing.CheckoutModePayment, nil))

	assert.Equal(t, string(stripe.CheckoutSessionModePayment), lo.FromPtr(params.Mode))
	assert.Nil(t, params.SubscriptionData)
}

func TestBuildCustomerCreateParams(t *testing.T) {
	params := buildCustomerCreateParams(&billing.CreateCustomerRequest{
		UserID:         "user-1",
		Email:          "a@b.com",
		IdempotencyKey: "customer-create:user-1",
	})

	assert.Equal(t, "a@b.com", lo.FromPtr(params.Email))
	assert.Equal(t, "user-1", params.Metadata["user_id"])
	assert.Equal(t, "customer-create:user-1", lo.FromPtr(params.IdempotencyKey))
}

func TestBuildCustomerCreateParamsWithoutEmail(t *testing.T) {
	params := buildCustomerCreateParams(&billing.CreateCustomerRequest{UserID: "user-1"})

	assert.Nil(t, params.Email)
	assert.Nil(t, params.IdempotencyKey)
}

func TestBuildPortalSessionParams(t *testing.T) {
	params := buildPortalSessionParams(&billing.PortalSessionRequest{
		CustomerID: "cus_123",
		ReturnURL:  "https://app.example.com/account",
	})

	assert.Equal(t, "cus_123", lo.FromPtr(params.Customer))
	assert.Equal(t, "https://app.example.com/account", lo.FromPtr(params.ReturnURL))
}

func TestGetStripeClientRequiresSecretKey(t *testing.T) {
	c := &Client{}
	_, err := c.GetStripeClient()
	assert.Error(t, err)
}
