package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/haruki/ats-backend/internal/db"
)

// maxConcurrentFetches bounds parallel fetches so bulk ingestion does not
// flood a single job board.
const maxConcurrentFetches = 4

// CachedFetcher serves page fetches through the database page cache: a URL
// fetched within the TTL comes back without network work, and URLs that
// keep failing are skipped instead of hammered. A nil database degrades it
// to a plain fetcher.
type CachedFetcher struct {
	db        *db.DB
	options   *Options
	cacheTTL  time.Duration
	skipCache bool
}

// CachedFetcherConfig configures a CachedFetcher. Zero fields fall back to
// defaults in NewCachedFetcher.
type CachedFetcherConfig struct {
	CacheTTL time.Duration
	// SkipCache bypasses cache reads; results are still recorded.
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns the standard settings: a week of
// freshness and the default fetch options.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: db.DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher builds a fetcher over database, which may be nil.
func NewCachedFetcher(database *db.DB, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	f := &CachedFetcher{
		db:        database,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
	if f.options == nil {
		f.options = DefaultOptions()
	}
	if f.cacheTTL == 0 {
		f.cacheTTL = db.DefaultPageCacheTTL
	}
	return f
}

// CachedResult is a fetch Result plus where it came from.
type CachedResult struct {
	*Result
	FromCache bool
	PageID    uuid.UUID // zero when the page was not stored
}

// Fetch returns the page at urlStr, from cache when a fresh copy exists,
// otherwise over HTTP. Fresh fetches are stored for next time and failures
// are recorded so repeat offenders back off.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if hit, err := f.fromCache(ctx, urlStr); hit != nil || err != nil {
		return hit, err
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		f.recordFailure(ctx, urlStr, result, err)
		return nil, err
	}

	// Extract text now so cache hits skip the HTML parse too.
	result.Text, _ = ExtractMainText(result.HTML, JobPostingSelectors())

	return f.store(ctx, urlStr, result), nil
}

// fromCache consults the skip list and the page cache. A nil result with a
// nil error means the caller should fetch over the network.
func (f *CachedFetcher) fromCache(ctx context.Context, urlStr string) (*CachedResult, error) {
	if f.skipCache || f.db == nil {
		return nil, nil
	}

	skip, reason, err := f.db.ShouldSkipURL(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to check skip status: %w", err)
	}
	if skip {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("URL skipped: %s", reason)}
	}

	page, err := f.db.GetFreshPage(ctx, urlStr, f.cacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to check cache: %w", err)
	}
	if page == nil {
		return nil, nil
	}

	return &CachedResult{
		Result: &Result{
			URL:        page.URL,
			HTML:       deref(page.RawHTML),
			Text:       deref(page.ParsedText),
			StatusCode: deref(page.HTTPStatus),
		},
		FromCache: true,
		PageID:    page.ID,
	}, nil
}

func (f *CachedFetcher) recordFailure(ctx context.Context, urlStr string, result *Result, err error) {
	if f.db == nil {
		return
	}
	status := 0
	if result != nil {
		status = result.StatusCode
	}
	_ = f.db.RecordFailedFetch(ctx, urlStr, status, err.Error())
}

// store writes the fetched page to the cache. A write failure is not fatal
// since the fetch itself succeeded; the result just carries no page ID.
func (f *CachedFetcher) store(ctx context.Context, urlStr string, result *Result) *CachedResult {
	out := &CachedResult{Result: result}
	if f.db == nil {
		return out
	}

	page := &db.CachedPage{
		URL:         urlStr,
		RawHTML:     &result.HTML,
		ParsedText:  &result.Text,
		HTTPStatus:  &result.StatusCode,
		FetchStatus: db.FetchStatusSuccess,
	}
	if err := f.db.UpsertPage(ctx, page); err == nil {
		out.PageID = page.ID
	}
	return out
}

// FetchMultiple fetches urls concurrently through the cache. Results come
// back in input order; a failed fetch leaves a nil result and its error at
// the same index.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, url := range urls {
		g.Go(func() error {
			result, err := f.Fetch(gctx, url)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// InvalidateCache marks a cached page as stale, forcing a re-fetch on the
// next request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.db == nil {
		return nil
	}
	return f.db.ExpirePage(ctx, urlStr)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
