package db

import (
	"context"
	"database/sql"
	"time"
)

// queryTimeout bounds every store operation; the webhook path must not hold a
// request slot hostage to a slow database.
const queryTimeout = 5 * time.Second

// SubscriptionRecord is the durable per-caller billing state. At most one
// record exists per clerk_user_id, enforced by the unique constraint.
type SubscriptionRecord struct {
	ClerkUserID          string
	StripeCustomerID     string
	StripeSubscriptionID string
	Plan                 string
	Status               string
	CurrentPeriodEnd     time.Time
	// EventTimestamp is the Stripe event's created time (unix seconds). The
	// upsert refuses to let an older event overwrite a newer record.
	EventTimestamp int64
}

// Store persists subscription state in Postgres.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// UpsertSubscription atomically inserts or overwrites the subscription record
// keyed by clerk_user_id. Conflict resolution happens entirely in the
// database, so concurrent duplicate webhook deliveries are safe. Events older
// than the stored one (event_ts) are dropped; equal timestamps still apply so
// a redelivered event remains idempotent.
func (s *Store) UpsertSubscription(ctx context.Context, rec SubscriptionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var periodEnd any
	if !rec.CurrentPeriodEnd.IsZero() {
		periodEnd = rec.CurrentPeriodEnd
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (clerk_user_id, stripe_customer_id, stripe_subscription_id, plan, status, current_period_end, event_ts, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (clerk_user_id) DO UPDATE SET
			stripe_customer_id     = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			plan                   = EXCLUDED.plan,
			status                 = EXCLUDED.status,
			current_period_end     = EXCLUDED.current_period_end,
			event_ts               = EXCLUDED.event_ts,
			updated_at             = now()
		WHERE subscriptions.event_ts <= EXCLUDED.event_ts`,
		rec.ClerkUserID, rec.StripeCustomerID, rec.StripeSubscriptionID,
		rec.Plan, rec.Status, periodEnd, rec.EventTimestamp,
	)
	return err
}

// GetSubscription returns the record for the given caller, reporting whether
// one exists.
func (s *Store) GetSubscription(ctx context.Context, clerkUserID string) (SubscriptionRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rec := SubscriptionRecord{ClerkUserID: clerkUserID}
	var periodEnd sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT stripe_customer_id, stripe_subscription_id, plan, status, current_period_end, event_ts
		FROM subscriptions
		WHERE clerk_user_id = $1`,
		clerkUserID,
	).Scan(&rec.StripeCustomerID, &rec.StripeSubscriptionID, &rec.Plan, &rec.Status, &periodEnd, &rec.EventTimestamp)
	if err == sql.ErrNoRows {
		return SubscriptionRecord{}, false, nil
	}
	if err != nil {
		return SubscriptionRecord{}, false, err
	}
	if periodEnd.Valid {
		rec.CurrentPeriodEnd = periodEnd.Time
	}
	return rec, true, nil
}
