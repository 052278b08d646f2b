package nlp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haruki/ats-backend/internal/llm"
)

// ResumeProfile is the structured output of LLM resume extraction.
type ResumeProfile struct {
	Skills          []string `json:"skills"`
	JobTitles       []string `json:"job_titles,omitempty"`
	YearsExperience string   `json:"years_experience,omitempty"`
}

// JobPosting is the structured output of LLM job posting extraction.
type JobPosting struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	NiceToHave     []string `json:"nice_to_have,omitempty"`
}

// Extractor pulls structured fields from free text with an LLM. The
// lexicon path covers callers without an API key; the extractor is for
// those who have one and want richer output.
type Extractor struct {
	client llm.Client
}

// NewExtractor wraps an LLM client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// ExtractResumeProfile asks the LLM which skills a resume claims. Skill
// names come back canonicalized.
func (e *Extractor) ExtractResumeProfile(ctx context.Context, resumeText string) (*ResumeProfile, error) {
	prompt := llm.BuildExtractionPrompt(llm.ResumeSkillsSchema(), resumeText)
	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("extract resume profile: %w", err)
	}

	var profile ResumeProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("parse resume profile response: %w", err)
	}

	profile.Skills = NormalizeSkills(profile.Skills)
	return &profile, nil
}

// ExtractJobPosting asks the LLM for a job record's fields from a raw
// posting.
func (e *Extractor) ExtractJobPosting(ctx context.Context, postingText string) (*JobPosting, error) {
	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), postingText)
	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("extract job posting: %w", err)
	}

	var posting JobPosting
	if err := json.Unmarshal([]byte(raw), &posting); err != nil {
		return nil, fmt.Errorf("parse job posting response: %w", err)
	}
	if posting.Title == "" {
		return nil, fmt.Errorf("job posting response missing title")
	}

	posting.RequiredSkills = NormalizeSkills(posting.RequiredSkills)
	posting.NiceToHave = NormalizeSkills(posting.NiceToHave)
	return &posting, nil
}
