package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruki/ats-backend/internal/nlp"
)

func TestExtractJobPosting_RequiresAPIKey(t *testing.T) {
	_, err := ExtractJobPosting(context.Background(), "some posting text", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestFormatJobPosting_AllFields(t *testing.T) {
	posting := &nlp.JobPosting{
		Title:          "Senior Software Engineer",
		Description:    "Build backend services for the hiring platform.",
		RequiredSkills: []string{"Go", "PostgreSQL"},
		NiceToHave:     []string{"Kubernetes"},
	}

	result := FormatJobPosting(posting)

	assert.Contains(t, result, "# Senior Software Engineer")
	assert.Contains(t, result, "Build backend services")
	assert.Contains(t, result, "Required Skills:\n- Go\n- PostgreSQL")
	assert.Contains(t, result, "Nice to Have:\n- Kubernetes")
}

func TestFormatJobPosting_MinimalFields(t *testing.T) {
	posting := &nlp.JobPosting{
		Title:       "Backend Engineer",
		Description: "Go services.",
	}

	result := FormatJobPosting(posting)

	assert.Equal(t, "# Backend Engineer\n\nGo services.", result)
	assert.NotContains(t, result, "Required Skills")
	assert.NotContains(t, result, "Nice to Have")
}

func TestFormatJobPosting_RoundTripsThroughCleanText(t *testing.T) {
	posting := &nlp.JobPosting{
		Title:          "Backend Engineer",
		Description:    "Go services.",
		RequiredSkills: []string{"Go"},
	}

	formatted := FormatJobPosting(posting)

	// Formatted output is already clean
	assert.Equal(t, formatted, CleanText(formatted))
}

func TestIngestFromPDF_FileNotFound(t *testing.T) {
	_, _, err := IngestFromPDF("/nonexistent/resume.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngestFromPDF_InvalidPDF(t *testing.T) {
	tmpDir := t.TempDir()
	notPDF := filepath.Join(tmpDir, "resume.pdf")
	err := os.WriteFile(notPDF, []byte("plain text, not a PDF"), 0644)
	require.NoError(t, err)

	_, _, err = IngestFromPDF(notPDF)
	assert.Error(t, err)
}

func TestIngestFromFile_DispatchesPDFByExtension(t *testing.T) {
	tmpDir := t.TempDir()
	notPDF := filepath.Join(tmpDir, "resume.PDF")
	err := os.WriteFile(notPDF, []byte("plain text, not a PDF"), 0644)
	require.NoError(t, err)

	// Extension check is case-insensitive, so this routes to the PDF
	// reader and fails rather than being read as plain text.
	_, _, err = IngestFromFile(notPDF)
	assert.Error(t, err)
}
