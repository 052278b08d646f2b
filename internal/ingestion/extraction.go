package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/haruki/ats-backend/internal/llm"
	"github.com/haruki/ats-backend/internal/nlp"
)

// ExtractJobPosting runs LLM extraction over cleaned posting text, pulling
// the fields a job record needs and dropping application-form boilerplate.
func ExtractJobPosting(ctx context.Context, text string, apiKey string) (*nlp.JobPosting, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required for LLM extraction")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	return nlp.NewExtractor(client).ExtractJobPosting(ctx, text)
}

// FormatJobPosting renders an extracted posting as readable text suitable
// for scoring and storage.
func FormatJobPosting(posting *nlp.JobPosting) string {
	var sb strings.Builder

	if posting.Title != "" {
		sb.WriteString("# " + posting.Title + "\n\n")
	}
	if posting.Description != "" {
		sb.WriteString(posting.Description + "\n\n")
	}
	if len(posting.RequiredSkills) > 0 {
		sb.WriteString("Required Skills:\n")
		for _, skill := range posting.RequiredSkills {
			sb.WriteString("- " + skill + "\n")
		}
		sb.WriteString("\n")
	}
	if len(posting.NiceToHave) > 0 {
		sb.WriteString("Nice to Have:\n")
		for _, skill := range posting.NiceToHave {
			sb.WriteString("- " + skill + "\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}
