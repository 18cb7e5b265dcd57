package chat

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const queryTimeout = 5 * time.Second

var ErrNotFound = errors.New("chat not found")

type Chat struct {
	ID          uuid.UUID  `json:"id"`
	ClerkUserID string     `json:"clerk_user_id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) List(ctx context.Context, clerkUserID string) ([]Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, clerk_user_id, project_id, title, created_at, updated_at
		FROM chats WHERE clerk_user_id = $1 ORDER BY updated_at DESC`,
		clerkUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []Chat{}
	for rows.Next() {
		var ch Chat
		if err := rows.Scan(&ch.ID, &ch.ClerkUserID, &ch.ProjectID, &ch.Title, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, ch)
	}
	return chats, rows.Err()
}

func (s *Store) Create(ctx context.Context, clerkUserID, title string, projectID *uuid.UUID) (Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ch Chat
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chats (id, clerk_user_id, project_id, title) VALUES ($1, $2, $3, $4)
		RETURNING id, clerk_user_id, project_id, title, created_at, updated_at`,
		uuid.New(), clerkUserID, projectID, title,
	).Scan(&ch.ID, &ch.ClerkUserID, &ch.ProjectID, &ch.Title, &ch.CreatedAt, &ch.UpdatedAt)
	return ch, err
}

func (s *Store) Get(ctx context.Context, clerkUserID string, id uuid.UUID) (Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ch Chat
	err := s.db.QueryRowContext(ctx, `
		SELECT id, clerk_user_id, project_id, title, created_at, updated_at
		FROM chats WHERE id = $1 AND clerk_user_id = $2`,
		id, clerkUserID,
	).Scan(&ch.ID, &ch.ClerkUserID, &ch.ProjectID, &ch.Title, &ch.CreatedAt, &ch.UpdatedAt)
	if err == sql.ErrNoRows {
		return Chat{}, ErrNotFound
	}
	return ch, err
}

func (s *Store) Delete(ctx context.Context, clerkUserID string, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chats WHERE id = $1 AND clerk_user_id = $2`, id, clerkUserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, clerkUserID string, chatID uuid.UUID) ([]Message, error) {
	// Ownership check first so a foreign chat id reads as 404.
	if _, err := s.Get(ctx, clerkUserID, chatID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, role, content, created_at
		FROM chat_messages WHERE chat_id = $1 ORDER BY created_at`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) AppendMessage(ctx context.Context, clerkUserID string, chatID uuid.UUID, role, content string) (Message, error) {
	if _, err := s.Get(ctx, clerkUserID, chatID); err != nil {
		return Message{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Message
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (id, chat_id, role, content) VALUES ($1, $2, $3, $4)
		RETURNING id, chat_id, role, content, created_at`,
		uuid.New(), chatID, role, content,
	).Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	// The bump only affects List ordering, so a failure is not worth failing
	// the append over, but it must not vanish silently either.
	if _, err := s.db.ExecContext(ctx, `UPDATE chats SET updated_at = now() WHERE id = $1`, chatID); err != nil {
		slog.Warn("failed to bump chat updated_at", "chat_id", chatID, "err", err)
	}
	return m, nil
}
