package ingestion

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash_KnownAnswer(t *testing.T) {
	// SHA-256 of the empty string.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		computeHash(""))
}

func TestComputeHash_DiscriminatesContent(t *testing.T) {
	a := computeHash("five years of Go experience")
	b := computeHash("five years of Rust experience")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, computeHash("five years of Go experience"), "hashing must be deterministic")
}

func TestNewMetadata(t *testing.T) {
	meta := NewMetadata("senior backend engineer", "https://boards.example.com/jobs/7")

	assert.Equal(t, "https://boards.example.com/jobs/7", meta.URL)
	assert.Equal(t, computeHash("senior backend engineer"), meta.Hash)
	assert.Equal(t, 3, meta.WordCount)

	stamp, err := time.Parse(time.RFC3339, meta.Timestamp)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(meta.Timestamp, "Z"), "timestamps are stored in UTC")
	assert.WithinDuration(t, time.Now(), stamp, time.Minute)
}

func TestNewMetadata_FileSource(t *testing.T) {
	// Documents ingested from local files have no URL.
	meta := NewMetadata("content", "")
	assert.Empty(t, meta.URL)
	assert.NotEmpty(t, meta.Hash)
}

func TestMetadataToJSON(t *testing.T) {
	meta := NewMetadata("Go PostgreSQL Kubernetes", "https://example.com/job")

	out, err := meta.ToJSON()
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "\n  \"", "output should be indented for sidecar files")
	assert.Contains(t, body, `"word_count": 3`)
	assert.Contains(t, body, `"url": "https://example.com/job"`)
}

// Platform, title, and skills only exist for LLM-extracted postings and
// must not clutter the sidecar for plain ingests.
func TestMetadataToJSON_OmitsJobFieldsWhenUnset(t *testing.T) {
	out, err := NewMetadata("plain resume text", "").ToJSON()
	require.NoError(t, err)

	body := string(out)
	assert.NotContains(t, body, "platform")
	assert.NotContains(t, body, "title")
	assert.NotContains(t, body, "required_skills")
	assert.NotContains(t, body, `"url"`)
}
