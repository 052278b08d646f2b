package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruki/ats-backend/internal/db"
)

func TestDefaultCachedFetcherConfig(t *testing.T) {
	config := DefaultCachedFetcherConfig()

	require.NotNil(t, config)
	assert.Equal(t, db.DefaultPageCacheTTL, config.CacheTTL)
	assert.False(t, config.SkipCache)
	require.NotNil(t, config.Options)
	assert.Equal(t, DefaultTimeout, config.Options.Timeout)
}

func TestNewCachedFetcher_FillsMissingConfig(t *testing.T) {
	// Nil config and zero-valued config both fall back to defaults.
	for name, config := range map[string]*CachedFetcherConfig{
		"nil config":   nil,
		"empty config": {},
	} {
		t.Run(name, func(t *testing.T) {
			fetcher := NewCachedFetcher(nil, config)
			require.NotNil(t, fetcher)
			assert.Equal(t, db.DefaultPageCacheTTL, fetcher.cacheTTL)
			assert.NotNil(t, fetcher.options)
		})
	}
}

func TestCachedFetcher_NoDatabasePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><main><p>Posting body</p></main></body></html>"))
	}))
	defer server.Close()

	fetcher := NewCachedFetcher(nil, nil)
	result, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, result.FromCache, "without a database every fetch goes to the network")
	assert.Contains(t, result.HTML, "Posting body")
	assert.Contains(t, result.Text, "Posting body", "text is pre-extracted on fetch")
}

func TestCachedFetcher_FetchMultiplePreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<html><body><main>" + r.URL.Path + "</main></body></html>"))
	}))
	defer server.Close()

	urls := []string{
		server.URL + "/first",
		server.URL + "/missing",
		server.URL + "/third",
	}

	fetcher := NewCachedFetcher(nil, nil)
	results, errs := fetcher.FetchMultiple(context.Background(), urls)

	require.Len(t, results, 3)
	require.Len(t, errs, 3)

	require.NotNil(t, results[0])
	assert.Contains(t, results[0].HTML, "/first")
	assert.NoError(t, errs[0])

	assert.Nil(t, results[1])
	assert.Error(t, errs[1])

	require.NotNil(t, results[2])
	assert.Contains(t, results[2].HTML, "/third")
	assert.NoError(t, errs[2])
}
