package stripegw

import (
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/subscription"

	gw "github.com/ragment/ragment-api/api/services/billing/gateway"
)

// SetKey configures the Stripe SDK key once during bootstrap and bounds
// outbound API calls so a slow Stripe response cannot hold request-handling
// capacity indefinitely.
func SetKey(key string) {
	stripe.Key = key
	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: 8 * time.Second},
	}))
}

// client is the Stripe SDK-backed implementation of the gateway.
type client struct{}

// New returns a StripeGateway backed by the official Stripe SDK.
func New() gw.StripeGateway { return client{} }

func (client) CreateCheckoutSession(spec gw.CheckoutSessionSpec) (stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(spec.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(spec.Email),
		SuccessURL:    stripe.String(spec.SuccessURL),
		CancelURL:     stripe.String(spec.CancelURL),
	}
	params.AddMetadata("clerk_user_id", spec.ClerkUserID)

	sessPtr, err := session.New(params)
	if err != nil {
		return stripe.CheckoutSession{}, err
	}
	if sessPtr == nil {
		return stripe.CheckoutSession{}, nil
	}
	return *sessPtr, nil
}

func (client) GetSubscription(id string) (stripe.Subscription, error) {
	subPtr, err := subscription.Get(id, nil)
	if err != nil {
		return stripe.Subscription{}, err
	}
	if subPtr == nil {
		return stripe.Subscription{}, nil
	}
	return *subPtr, nil
}
