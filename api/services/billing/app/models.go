package app

// CheckoutIntent is a client request to start a subscription purchase. It is
// consumed by Stripe; nothing about it is persisted locally.
type CheckoutIntent struct {
	PriceID string
	Email   string
}
