package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const candidateColumns = `id, first_name, last_name, email, phone, resume_text, created_at, updated_at`

// CreateCandidate inserts a candidate and returns it with generated fields.
func (db *DB) CreateCandidate(ctx context.Context, c *Candidate) (*Candidate, error) {
	var out Candidate
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (first_name, last_name, email, phone, resume_text)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+candidateColumns,
		c.FirstName, c.LastName, c.Email, c.Phone, c.ResumeText,
	).Scan(&out.ID, &out.FirstName, &out.LastName, &out.Email, &out.Phone, &out.ResumeText, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return &out, nil
}

// GetCandidate retrieves a candidate by ID. Returns (nil, nil) when absent.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	var c Candidate
	err := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.ResumeText, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &c, nil
}

// GetCandidateByEmail retrieves a candidate by email. Returns (nil, nil)
// when absent.
func (db *DB) GetCandidateByEmail(ctx context.Context, email string) (*Candidate, error) {
	var c Candidate
	err := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE email = $1`,
		email,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.ResumeText, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate by email: %w", err)
	}
	return &c, nil
}

// CandidateFilters holds optional filters for listing candidates.
type CandidateFilters struct {
	Name   string // matches first or last name, case-insensitive
	Email  string
	Limit  int
	Offset int
}

// ListCandidates retrieves candidates with optional filters, newest first.
func (db *DB) ListCandidates(ctx context.Context, filters CandidateFilters) ([]Candidate, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Name != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filters.Name+"%")
		argNum++
	}
	if filters.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argNum)
		args = append(args, filters.Email)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.ResumeText, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// UpdateCandidate updates mutable candidate fields.
func (db *DB) UpdateCandidate(ctx context.Context, c *Candidate) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidates
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, resume_text = $5, updated_at = NOW()
		 WHERE id = $6`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.ResumeText, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", c.ID)
	}
	return nil
}

// DeleteCandidate removes a candidate and its match results (via cascade).
func (db *DB) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}
