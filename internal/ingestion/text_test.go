package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "headings keep their markers and lose indentation",
			input: "  # Title\nbody",
			want:  "# Title\nbody",
		},
		{
			name:  "space runs inside a heading collapse",
			input: "# Backend   Engineer",
			want:  "# Backend Engineer",
		},
		{
			name:  "unicode bullets become dashes",
			input: "• First point\n· Second point",
			want:  "- First point\n- Second point",
		},
		{
			name:  "markdown bullets pass through",
			input: "- Item 1\n* Item 2",
			want:  "- Item 1\n* Item 2",
		},
		{
			name:  "indented bullets keep their indent",
			input: "  - nested item",
			want:  "  - nested item",
		},
		{
			name:  "space runs inside a line collapse",
			input: "Line    with    multiple    spaces",
			want:  "Line with multiple spaces",
		},
		{
			name:  "leading indentation survives the collapse",
			input: "    Indented  line",
			want:  "    Indented line",
		},
		{
			name:  "blank line runs collapse to one",
			input: "Line 1\n\n\n\n\nLine 2",
			want:  "Line 1\n\nLine 2",
		},
		{
			name:  "CR and CRLF normalize to LF",
			input: "Line 1\r\nLine 2\rLine 3",
			want:  "Line 1\nLine 2\nLine 3",
		},
		{
			name:  "trailing whitespace is trimmed per line",
			input: "ends with spaces   \nnext",
			want:  "ends with spaces\nnext",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only input",
			input: "   \n  \n  ",
			want:  "",
		},
		{
			name:  "non-ascii text is untouched",
			input: "émojis 🚀 and spéciàl chàracters",
			want:  "émojis 🚀 and spéciàl chàracters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

// Cleaning already-clean text must change nothing, otherwise re-ingesting a
// stored document would shift its hash.
func TestCleanText_Idempotent(t *testing.T) {
	raw := "# Role\r\n\r\n\r\n• Go   experience\n    still  indented\n"
	once := CleanText(raw)
	assert.Equal(t, once, CleanText(once))
}

func TestCleanText_ComplexFixture(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "complex_formatting.txt"))
	require.NoError(t, err)

	result := CleanText(string(content))

	assert.Contains(t, result, "# Senior Software Engineer")
	assert.Contains(t, result, "## Responsibilities")
	assert.Contains(t, result, "- Go experience")
	assert.Contains(t, result, "* Go (5+ years)")
	assert.NotContains(t, result, "\n\n\n")
}

func TestIngestFromFile_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Job Title\n\nDescription here"), 0644))

	text, meta, err := IngestFromFile(path)
	require.NoError(t, err)

	assert.Contains(t, text, "Job Title")
	require.NotNil(t, meta)
	assert.Len(t, meta.Hash, 64)
	assert.Equal(t, 5, meta.WordCount)
	assert.NotEmpty(t, meta.Timestamp)
}

func TestIngestFromFile_NotFound(t *testing.T) {
	text, meta, err := IngestFromFile("/nonexistent/file.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
	assert.Empty(t, text)
	assert.Nil(t, meta)
}

// The hash identifies document content: stable across re-ingests of the
// same file, different across different files.
func TestIngestFromFile_HashTracksContent(t *testing.T) {
	tmpDir := t.TempDir()
	fileA := filepath.Join(tmpDir, "a.txt")
	fileB := filepath.Join(tmpDir, "b.txt")
	require.NoError(t, os.WriteFile(fileA, []byte("Content 1"), 0644))
	require.NoError(t, os.WriteFile(fileB, []byte("Content 2"), 0644))

	_, metaA1, err := IngestFromFile(fileA)
	require.NoError(t, err)
	_, metaA2, err := IngestFromFile(fileA)
	require.NoError(t, err)
	_, metaB, err := IngestFromFile(fileB)
	require.NoError(t, err)

	assert.Equal(t, metaA1.Hash, metaA2.Hash)
	assert.NotEqual(t, metaA1.Hash, metaB.Hash)
}

func TestIngestFromFile_HTMLExtractsMainContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.html")
	html := `<!DOCTYPE html>
<html>
<body>
<nav>Navigation</nav>
<main>
<h1>Senior Software Engineer</h1>
<p>Build backend services in Go.</p>
</main>
<footer>Footer</footer>
</body>
</html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))

	text, meta, err := IngestFromFile(path)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Software Engineer")
	assert.Contains(t, text, "Build backend services in Go.")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "<main>")
	require.NotNil(t, meta)
}
