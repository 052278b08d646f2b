package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, candidate_id, job_id, match_score, missing_skills, matched_skills, created_at`

// SaveMatchResult stores the scoring of a candidate against a job. Rescoring
// the same pair overwrites the previous row.
func (db *DB) SaveMatchResult(ctx context.Context, m *MatchResult) (*MatchResult, error) {
	missing, err := m.MissingSkills.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode missing skills: %w", err)
	}
	matched, err := m.MatchedSkills.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode matched skills: %w", err)
	}

	var out MatchResult
	err = db.pool.QueryRow(ctx,
		`INSERT INTO match_results (candidate_id, job_id, match_score, missing_skills, matched_skills)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (candidate_id, job_id)
		 DO UPDATE SET match_score = $3, missing_skills = $4, matched_skills = $5, created_at = NOW()
		 RETURNING `+matchColumns,
		m.CandidateID, m.JobID, m.MatchScore, missing, matched,
	).Scan(&out.ID, &out.CandidateID, &out.JobID, &out.MatchScore, &out.MissingSkills, &out.MatchedSkills, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save match result: %w", err)
	}
	return &out, nil
}

// GetMatchResult retrieves the stored scoring of one candidate against one
// job. Returns (nil, nil) when the pair has not been scored.
func (db *DB) GetMatchResult(ctx context.Context, candidateID, jobID uuid.UUID) (*MatchResult, error) {
	var m MatchResult
	err := db.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM match_results WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID,
	).Scan(&m.ID, &m.CandidateID, &m.JobID, &m.MatchScore, &m.MissingSkills, &m.MatchedSkills, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match result: %w", err)
	}
	return &m, nil
}

// ListMatchesForJob retrieves stored match results for a job, best first.
// limit <= 0 returns all rows.
func (db *DB) ListMatchesForJob(ctx context.Context, jobID uuid.UUID, limit int) ([]MatchResult, error) {
	query := `SELECT ` + matchColumns + ` FROM match_results WHERE job_id = $1 ORDER BY match_score DESC`
	args := []any{jobID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	defer rows.Close()

	var matches []MatchResult
	for rows.Next() {
		var m MatchResult
		if err := rows.Scan(&m.ID, &m.CandidateID, &m.JobID, &m.MatchScore, &m.MissingSkills, &m.MatchedSkills, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// DeleteMatchesForJob removes every stored result for a job.
func (db *DB) DeleteMatchesForJob(ctx context.Context, jobID uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM match_results WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("failed to delete match results: %w", err)
	}
	return nil
}
