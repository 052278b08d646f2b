package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, title, description, required_skills, created_at, updated_at`

// CreateJob inserts a job description and returns it with generated fields.
func (db *DB) CreateJob(ctx context.Context, j *Job) (*Job, error) {
	skills, err := j.RequiredSkills.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode required skills: %w", err)
	}

	var out Job
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, description, required_skills)
		 VALUES ($1, $2, $3)
		 RETURNING `+jobColumns,
		j.Title, j.Description, skills,
	).Scan(&out.ID, &out.Title, &out.Description, &out.RequiredSkills, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &out, nil
}

// GetJob retrieves a job by ID. Returns (nil, nil) when absent.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	var j Job
	err := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Title, &j.Description, &j.RequiredSkills, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// JobFilters holds optional filters for listing jobs.
type JobFilters struct {
	Title  string
	Limit  int
	Offset int
}

// ListJobs retrieves jobs with optional filters, newest first.
func (db *DB) ListJobs(ctx context.Context, filters JobFilters) ([]Job, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Title != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argNum)
		args = append(args, "%"+filters.Title+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.RequiredSkills, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// UpdateJob updates mutable job fields.
func (db *DB) UpdateJob(ctx context.Context, j *Job) error {
	skills, err := j.RequiredSkills.Value()
	if err != nil {
		return fmt.Errorf("failed to encode required skills: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET title = $1, description = $2, required_skills = $3, updated_at = NOW()
		 WHERE id = $4`,
		j.Title, j.Description, skills, j.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", j.ID)
	}
	return nil
}

// DeleteJob removes a job and its match results (via cascade).
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}
