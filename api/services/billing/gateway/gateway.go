package gateway

import stripe "github.com/stripe/stripe-go/v82"

// CheckoutSessionSpec carries the fields needed to open a subscription
// checkout for an authenticated caller. ClerkUserID travels as session
// metadata; it is the only link between this call and the webhook that
// follows it.
type CheckoutSessionSpec struct {
	PriceID     string
	Email       string
	ClerkUserID string
	SuccessURL  string
	CancelURL   string
}

// StripeGateway abstracts Stripe SDK operations needed by the app layer.
// Methods return values (not pointers) to respect the project's preference
// to avoid pointer types in public interfaces.
type StripeGateway interface {
	CreateCheckoutSession(spec CheckoutSessionSpec) (stripe.CheckoutSession, error)
	GetSubscription(id string) (stripe.Subscription, error)
}
