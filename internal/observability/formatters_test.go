package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haruki/ats-backend/internal/ingestion"
	"github.com/haruki/ats-backend/internal/types"
)

func TestPrintMatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchSummary(78.4, 100, []string{"go", "kubernetes"}, []string{"graphql"})
	output := buf.String()

	assert.Contains(t, output, "MATCH SUMMARY")
	assert.Contains(t, output, "78.4 / 100")
	assert.Contains(t, output, "Matched (2):")
	assert.Contains(t, output, "• go")
	assert.Contains(t, output, "Missing (1):")
	assert.Contains(t, output, "• graphql")
}

func TestPrintMatchSummary_NoSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchSummary(0, 100, nil, nil)
	output := buf.String()

	assert.Contains(t, output, "Score:  0.0 / 100")
	assert.NotContains(t, output, "Matched")
	assert.NotContains(t, output, "Missing")
}

func TestPrintMatchSummary_CapsSkillList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	matched := []string{"go", "postgresql", "kubernetes", "docker", "terraform", "redis", "kafka"}
	p.PrintMatchSummary(92.0, 100, matched, nil)
	output := buf.String()

	assert.Contains(t, output, "Matched (7):")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "• kafka")
}

func TestPrintRankedCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := []types.RankedCandidate{
		{FirstName: "Jane", LastName: "Doe", MatchScore: 87.5, MatchedSkills: []string{"go", "kubernetes"}},
		{FirstName: "Ade", LastName: "Okafor", MatchScore: 61.0},
		{MatchScore: 12.3},
	}

	p.PrintRankedCandidates(ranked)
	output := buf.String()

	assert.Contains(t, output, "TOP RANKED CANDIDATES")
	assert.Contains(t, output, "Total candidates ranked: 3")
	assert.Contains(t, output, "#1  Jane Doe")
	assert.Contains(t, output, "Score: 87.5")
	assert.Contains(t, output, "Skills: go, kubernetes")
	assert.Contains(t, output, "#2  Ade Okafor")
	assert.Contains(t, output, "#3  (unnamed candidate)")
}

func TestPrintRankedCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRankedCandidates(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRankedCandidates_CapsList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := make([]types.RankedCandidate, 8)
	for i := range ranked {
		ranked[i] = types.RankedCandidate{FirstName: "Candidate", MatchScore: float64(80 - i)}
	}

	p.PrintRankedCandidates(ranked)
	output := buf.String()

	assert.Contains(t, output, "#5")
	assert.NotContains(t, output, "#6")
	assert.Contains(t, output, "... and 3 more candidates")
}

func TestPrintIngestMetadata(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	meta := &ingestion.Metadata{
		WordCount: 412,
		Hash:      strings.Repeat("a", 64),
		URL:       "https://boards.greenhouse.io/acme/jobs/1",
		Platform:  "greenhouse",
		Title:     "Senior Software Engineer",
	}

	p.PrintIngestMetadata(meta)
	output := buf.String()

	assert.Contains(t, output, "INGESTED DOCUMENT")
	assert.Contains(t, output, "Words:    412")
	assert.Contains(t, output, "aaaaaaaaaaaaaaaa...")
	assert.Contains(t, output, "Platform: greenhouse")
	assert.Contains(t, output, "Title:    Senior Software Engineer")
}

func TestPrintIngestMetadata_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIngestMetadata(nil)

	assert.Empty(t, buf.String())
}

func TestPrintIngestMetadata_OmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIngestMetadata(&ingestion.Metadata{WordCount: 3, Hash: "abc"})
	output := buf.String()

	assert.Contains(t, output, "Words:    3")
	assert.NotContains(t, output, "URL:")
	assert.NotContains(t, output, "Platform:")
	assert.NotContains(t, output, "Title:")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))
	output := buf.String()

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, output, "...")
}
