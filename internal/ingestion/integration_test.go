package ingestion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixtures under testdata mirror the formats recruiters actually paste
// or download: markdown exports, plain text, and saved job board pages.
func TestIngestFromFile_JobBoardFormats(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		absent  []string
	}{
		{
			name:    "markdown export",
			fixture: "testdata/sample_job_markdown.txt",
		},
		{
			name:    "plain text",
			fixture: "testdata/sample_job_plain.txt",
		},
		{
			name:    "saved greenhouse page",
			fixture: "testdata/sample_job_html.html",
			absent:  []string{"Navigation", "Header", "Footer"},
		},
		{
			name:    "saved lever page",
			fixture: "testdata/sample_job_lever.html",
			absent:  []string{"Sidebar", "Ad content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, meta, err := IngestFromFile(tt.fixture)
			require.NoError(t, err)

			for _, want := range []string{"Senior Software Engineer", "About the Role", "Requirements"} {
				assert.Contains(t, text, want)
			}
			for _, chrome := range tt.absent {
				assert.NotContains(t, text, chrome)
			}

			require.NotNil(t, meta)
			assert.Empty(t, meta.URL, "file ingests carry no source URL")
			assert.Equal(t, computeHash(text), meta.Hash)
		})
	}
}

func TestIngestFromFile_MissingFile(t *testing.T) {
	_, _, err := IngestFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

// Ingest then write, then read the pair back the way the import command does.
func TestIngestWriteReadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "posting.txt")
	require.NoError(t, os.WriteFile(src, []byte("# Backend Engineer\n\nGo and PostgreSQL.\n"), 0644))

	text, meta, err := IngestFromFile(src)
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer")

	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, WriteOutput(outDir, "posting", text, meta))

	written, err := os.ReadFile(filepath.Join(outDir, "posting.cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, text, string(written))

	metaRaw, err := os.ReadFile(filepath.Join(outDir, "posting.meta.json"))
	require.NoError(t, err)
	var parsed Metadata
	require.NoError(t, json.Unmarshal(metaRaw, &parsed))
	assert.Equal(t, meta.Hash, parsed.Hash)
	assert.Equal(t, meta.WordCount, parsed.WordCount)
}

func TestWriteOutput_CreatesNestedDirectories(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "a", "b", "c")
	meta := NewMetadata("content", "")

	require.NoError(t, WriteOutput(outDir, "doc", "content", meta))

	_, err := os.Stat(filepath.Join(outDir, "doc.cleaned.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "doc.meta.json"))
	assert.NoError(t, err)
}
