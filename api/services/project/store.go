package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

const queryTimeout = 5 * time.Second

// ErrNotFound covers both a missing row and a row owned by someone else;
// callers cannot tell the two apart.
var ErrNotFound = errors.New("project not found")

type Project struct {
	ID          uuid.UUID `json:"id"`
	ClerkUserID string    `json:"clerk_user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type File struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) List(ctx context.Context, clerkUserID string) ([]Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, clerk_user_id, name, description, created_at, updated_at
		FROM projects WHERE clerk_user_id = $1 ORDER BY created_at DESC`,
		clerkUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ClerkUserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) Create(ctx context.Context, clerkUserID, name, description string) (Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Project
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, clerk_user_id, name, description) VALUES ($1, $2, $3, $4)
		RETURNING id, clerk_user_id, name, description, created_at, updated_at`,
		uuid.New(), clerkUserID, name, description,
	).Scan(&p.ID, &p.ClerkUserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) Get(ctx context.Context, clerkUserID string, id uuid.UUID) (Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, clerk_user_id, name, description, created_at, updated_at
		FROM projects WHERE id = $1 AND clerk_user_id = $2`,
		id, clerkUserID,
	).Scan(&p.ID, &p.ClerkUserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Update(ctx context.Context, clerkUserID string, id uuid.UUID, name, description string) (Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Project
	err := s.db.QueryRowContext(ctx, `
		UPDATE projects SET name = $3, description = $4, updated_at = now()
		WHERE id = $1 AND clerk_user_id = $2
		RETURNING id, clerk_user_id, name, description, created_at, updated_at`,
		id, clerkUserID, name, description,
	).Scan(&p.ID, &p.ClerkUserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Delete(ctx context.Context, clerkUserID string, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1 AND clerk_user_id = $2`, id, clerkUserID)
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

func (s *Store) ListFiles(ctx context.Context, clerkUserID string, projectID uuid.UUID) ([]File, error) {
	// Ownership check first so a foreign project id reads as 404, not an empty list.
	if _, err := s.Get(ctx, clerkUserID, projectID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, filename, content, created_at, updated_at
		FROM project_files WHERE project_id = $1 ORDER BY filename`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []File{}
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.Content, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *Store) CreateFile(ctx context.Context, clerkUserID string, projectID uuid.UUID, filename, content string) (File, error) {
	if _, err := s.Get(ctx, clerkUserID, projectID); err != nil {
		return File{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var f File
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO project_files (id, project_id, filename, content) VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, filename, content, created_at, updated_at`,
		uuid.New(), projectID, filename, content,
	).Scan(&f.ID, &f.ProjectID, &f.Filename, &f.Content, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (s *Store) DeleteFile(ctx context.Context, clerkUserID string, projectID, fileID uuid.UUID) error {
	if _, err := s.Get(ctx, clerkUserID, projectID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM project_files WHERE id = $1 AND project_id = $2`, fileID, projectID)
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
