package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	billingdb "github.com/ragment/ragment-api/api/services/billing/db"
	gw "github.com/ragment/ragment-api/api/services/billing/gateway"
)

// SubscriptionStore persists per-caller billing state. Satisfied by
// billingdb.Store; faked in tests.
type SubscriptionStore interface {
	UpsertSubscription(ctx context.Context, rec billingdb.SubscriptionRecord) error
}

// Service defines the business operations for the billing domain.
type Service interface {
	// CreateCheckoutSession opens a subscription checkout for the caller and
	// returns the Stripe-hosted redirect URL.
	CreateCheckoutSession(ctx context.Context, clerkUserID string, intent CheckoutIntent) (string, error)
	// HandleEvent dispatches a verified webhook event. Unrecognized event
	// types are acknowledged without action.
	HandleEvent(ctx context.Context, event stripe.Event) error
}

// serviceImpl is a concrete implementation.
type serviceImpl struct {
	gw     gw.StripeGateway
	store  SubscriptionStore
	domain string
}

// NewService wires the billing service. domain is the frontend base URL used
// to build checkout redirect URLs.
func NewService(g gw.StripeGateway, store SubscriptionStore, domain string) Service {
	return serviceImpl{gw: g, store: store, domain: domain}
}

func (s serviceImpl) CreateCheckoutSession(ctx context.Context, clerkUserID string, intent CheckoutIntent) (string, error) {
	session, err := s.gw.CreateCheckoutSession(gw.CheckoutSessionSpec{
		PriceID:     intent.PriceID,
		Email:       intent.Email,
		ClerkUserID: clerkUserID,
		SuccessURL:  s.domain + "/billing/success",
		CancelURL:   s.domain + "/billing/cancel",
	})
	if err != nil {
		return "", fmt.Errorf("%w: error creating checkout session: %v", ErrGateway, err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("%w: checkout session has no redirect URL", ErrGateway)
	}
	return session.URL, nil
}

func (s serviceImpl) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutSessionCompleted(ctx, event)
	default:
		slog.Info("ignoring stripe event", "type", event.Type, "event_id", event.ID)
		return nil
	}
}

// handleCheckoutSessionCompleted reconciles a completed checkout into the
// subscriptions table. The checkout session alone does not carry status or
// line-item detail, so the full subscription is re-fetched from Stripe.
func (s serviceImpl) handleCheckoutSessionCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("%w: error unmarshaling into CheckoutSession: %v", ErrBadEvent, err)
	}
	clerkUserID := session.Metadata["clerk_user_id"]
	if clerkUserID == "" {
		return fmt.Errorf("%w: clerk_user_id not found in session metadata", ErrBadEvent)
	}
	if session.Customer == nil || session.Customer.ID == "" {
		return fmt.Errorf("%w: customer ID not found in CheckoutSession", ErrBadEvent)
	}
	if session.Subscription == nil || session.Subscription.ID == "" {
		return fmt.Errorf("%w: subscription ID not found in CheckoutSession", ErrBadEvent)
	}

	sub, err := s.gw.GetSubscription(session.Subscription.ID)
	if err != nil {
		return fmt.Errorf("%w: error fetching subscription: %v", ErrGateway, err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return fmt.Errorf("%w: subscription has no line items", ErrBadEvent)
	}
	item := sub.Items.Data[0]
	if item.Price == nil || item.Price.ID == "" {
		return fmt.Errorf("%w: line item has no price", ErrBadEvent)
	}

	// A zero CurrentPeriodEnd means Stripe reported no period; keep the field
	// zero so the store writes NULL rather than the unix epoch.
	var periodEnd time.Time
	if item.CurrentPeriodEnd > 0 {
		periodEnd = time.Unix(item.CurrentPeriodEnd, 0).UTC()
	}

	rec := billingdb.SubscriptionRecord{
		ClerkUserID:          clerkUserID,
		StripeCustomerID:     session.Customer.ID,
		StripeSubscriptionID: session.Subscription.ID,
		Plan:                 ResolvePlan(item.Price.ID),
		Status:               string(sub.Status),
		CurrentPeriodEnd:     periodEnd,
		EventTimestamp:       event.Created,
	}
	if err := s.store.UpsertSubscription(ctx, rec); err != nil {
		return fmt.Errorf("%w: error upserting subscription: %v", ErrDatabase, err)
	}

	slog.Info("subscription reconciled",
		"clerk_user_id", clerkUserID,
		"stripe_subscription_id", rec.StripeSubscriptionID,
		"plan", rec.Plan,
		"status", rec.Status,
	)
	return nil
}
