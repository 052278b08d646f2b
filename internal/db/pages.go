package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Fetch status values for cached pages.
const (
	FetchStatusSuccess = "success"
	FetchStatusFailed  = "failed"
)

const (
	// DefaultPageCacheTTL is how long a fetched page stays fresh.
	DefaultPageCacheTTL = 7 * 24 * time.Hour

	// maxFetchFailures is how many consecutive failures trigger a backoff.
	maxFetchFailures = 3

	// failureBackoff is how long a repeatedly failing URL is skipped.
	failureBackoff = time.Hour
)

// CachedPage is one fetched URL with its raw HTML and extracted text.
// Re-ingesting the same posting URL within the TTL serves from here instead
// of hitting the job board again.
type CachedPage struct {
	ID          uuid.UUID  `json:"id"`
	URL         string     `json:"url"`
	RawHTML     *string    `json:"raw_html,omitempty"`
	ParsedText  *string    `json:"parsed_text,omitempty"`
	HTTPStatus  *int       `json:"http_status,omitempty"`
	FetchStatus string     `json:"fetch_status"`
	FailCount   int        `json:"fail_count"`
	LastError   *string    `json:"last_error,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

const pageColumns = `id, url, raw_html, parsed_text, http_status, fetch_status, fail_count, last_error, fetched_at, expires_at`

func scanPage(row pgx.Row) (*CachedPage, error) {
	var p CachedPage
	err := row.Scan(&p.ID, &p.URL, &p.RawHTML, &p.ParsedText, &p.HTTPStatus,
		&p.FetchStatus, &p.FailCount, &p.LastError, &p.FetchedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetPageByURL retrieves a cached page regardless of freshness. Returns
// (nil, nil) when the URL has never been fetched.
func (db *DB) GetPageByURL(ctx context.Context, url string) (*CachedPage, error) {
	p, err := scanPage(db.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM page_cache WHERE url = $1`, url))
	if err != nil {
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}
	return p, nil
}

// GetFreshPage retrieves a successfully fetched page younger than ttl and
// not explicitly expired. Returns (nil, nil) on a cache miss.
func (db *DB) GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*CachedPage, error) {
	cutoff := time.Now().Add(-ttl)
	p, err := scanPage(db.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM page_cache
		 WHERE url = $1
		   AND fetch_status = $2
		   AND fetched_at > $3
		   AND (expires_at IS NULL OR expires_at > NOW())`,
		url, FetchStatusSuccess, cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to check page cache: %w", err)
	}
	return p, nil
}

// UpsertPage stores a fetched page, resetting any failure history for the
// URL. Sets p.ID and p.FetchedAt from the stored row.
func (db *DB) UpsertPage(ctx context.Context, p *CachedPage) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO page_cache (url, raw_html, parsed_text, http_status, fetch_status, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url)
		 DO UPDATE SET raw_html = $2, parsed_text = $3, http_status = $4,
		               fetch_status = $5, expires_at = $6,
		               fail_count = 0, last_error = NULL, fetched_at = NOW()
		 RETURNING id, fetched_at`,
		p.URL, p.RawHTML, p.ParsedText, p.HTTPStatus, p.FetchStatus, p.ExpiresAt,
	).Scan(&p.ID, &p.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cached page: %w", err)
	}
	return nil
}

// RecordFailedFetch marks a URL as failed and bumps its failure count.
func (db *DB) RecordFailedFetch(ctx context.Context, url string, statusCode int, errMsg string) error {
	var status *int
	if statusCode != 0 {
		status = &statusCode
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO page_cache (url, http_status, fetch_status, fail_count, last_error)
		 VALUES ($1, $2, $3, 1, $4)
		 ON CONFLICT (url)
		 DO UPDATE SET http_status = $2, fetch_status = $3,
		               fail_count = page_cache.fail_count + 1,
		               last_error = $4, fetched_at = NOW()`,
		url, status, FetchStatusFailed, errMsg)
	if err != nil {
		return fmt.Errorf("failed to record failed fetch: %w", err)
	}
	return nil
}

// ExpirePage marks a cached page stale so the next fetch hits the network.
func (db *DB) ExpirePage(ctx context.Context, url string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE page_cache SET expires_at = NOW() - INTERVAL '1 hour' WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to expire cached page: %w", err)
	}
	return nil
}

// DeletePage removes a URL from the cache entirely.
func (db *DB) DeletePage(ctx context.Context, url string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM page_cache WHERE url = $1`, url); err != nil {
		return fmt.Errorf("failed to delete cached page: %w", err)
	}
	return nil
}

// ShouldSkipURL reports whether a URL should not be fetched right now,
// either because it is permanently gone (404/410) or because repeated
// failures put it in a backoff window. The string is a human-readable
// reason when skipping.
func (db *DB) ShouldSkipURL(ctx context.Context, url string) (bool, string, error) {
	p, err := db.GetPageByURL(ctx, url)
	if err != nil {
		return false, "", err
	}
	if p == nil || p.FetchStatus != FetchStatusFailed {
		return false, "", nil
	}

	if p.HTTPStatus != nil && (*p.HTTPStatus == 404 || *p.HTTPStatus == 410) {
		return true, fmt.Sprintf("URL returned %d", *p.HTTPStatus), nil
	}

	if p.FailCount >= maxFetchFailures && time.Since(p.FetchedAt) < failureBackoff {
		return true, fmt.Sprintf("%d consecutive fetch failures, backing off", p.FailCount), nil
	}

	return false, "", nil
}
