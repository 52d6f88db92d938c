package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres with JSONB columns for the
// document-shaped fields.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new interview.
func (r *PGRepo) Create(ctx context.Context, interview Interview) error {
	const query = `
INSERT INTO interviews (
    id,
    role,
    type,
    level,
    techstack,
    questions,
    user_id,
    finalized,
    cover_image,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	techstack, err := json.Marshal(interview.Techstack)
	if err != nil {
		return err
	}
	questions, err := json.Marshal(interview.Questions)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		interview.ID,
		interview.Role,
		interview.Type,
		interview.Level,
		techstack,
		questions,
		interview.UserID,
		interview.Finalized,
		interview.CoverImage,
		interview.CreatedAt,
	)
	return err
}

// GetByID fetches an interview by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Interview, error) {
	const query = `
SELECT id, role, type, level, techstack, questions, user_id, finalized, cover_image, created_at
FROM interviews
WHERE id = $1
LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, id)
	interview, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	return interview, nil
}

// ListByUser returns a user's interviews, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Interview, error) {
	const query = `
SELECT id, role, type, level, techstack, questions, user_id, finalized, cover_image, created_at
FROM interviews
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

// ListLatest returns other users' finalized interviews, newest first.
func (r *PGRepo) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]Interview, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	const query = `
SELECT id, role, type, level, techstack, questions, user_id, finalized, cover_image, created_at
FROM interviews
WHERE finalized = TRUE AND user_id <> $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (Interview, error) {
	var interview Interview
	var techstack, questions []byte
	if err := row.Scan(
		&interview.ID,
		&interview.Role,
		&interview.Type,
		&interview.Level,
		&techstack,
		&questions,
		&interview.UserID,
		&interview.Finalized,
		&interview.CoverImage,
		&interview.CreatedAt,
	); err != nil {
		return Interview{}, err
	}
	if err := json.Unmarshal(techstack, &interview.Techstack); err != nil {
		return Interview{}, err
	}
	if err := json.Unmarshal(questions, &interview.Questions); err != nil {
		return Interview{}, err
	}
	return interview, nil
}

func collectInterviews(rows *sql.Rows) ([]Interview, error) {
	var out []Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, interview)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
