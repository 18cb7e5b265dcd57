package user

import (
	"context"
	"database/sql"
	"time"
)

const queryTimeout = 5 * time.Second

// Profile is the per-caller account row. Rows are created lazily the first
// time an authenticated caller touches the API.
type Profile struct {
	ClerkUserID string    `json:"clerk_user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// GetOrCreate returns the caller's profile, creating an empty one on first
// sight.
func (s *Store) GetOrCreate(ctx context.Context, clerkUserID string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (clerk_user_id) VALUES ($1) ON CONFLICT (clerk_user_id) DO NOTHING`,
		clerkUserID,
	); err != nil {
		return Profile{}, err
	}

	var p Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT clerk_user_id, email, name, created_at, updated_at FROM users WHERE clerk_user_id = $1`,
		clerkUserID,
	).Scan(&p.ClerkUserID, &p.Email, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Update overwrites the caller's profile fields and returns the stored row.
func (s *Store) Update(ctx context.Context, clerkUserID, email, name string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Profile
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (clerk_user_id, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (clerk_user_id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = now()
		RETURNING clerk_user_id, email, name, created_at, updated_at`,
		clerkUserID, email, name,
	).Scan(&p.ClerkUserID, &p.Email, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
