package llm

import (
	"fmt"
	"strings"

	"github.com/haruki/ats-backend/internal/prompts"
)

// ExtractionSchema describes one structured-extraction task: what the model
// is asked to do and the JSON fields it must return.
type ExtractionSchema struct {
	Name        string        // identifies the schema in logs
	Description string        // task preamble, loaded from the prompts package
	Fields      []SchemaField // output fields, rendered in order
}

// SchemaField is one field of the expected JSON output.
type SchemaField struct {
	Name        string // JSON key
	Type        string // JSON type literal shown to the model, e.g. ["string"]
	Description string // one-line hint rendered as a comment
	Required    bool
}

// BuildExtractionPrompt renders the full prompt for one extraction: the task
// description, the JSON shape the model must return, and the input text
// fenced in triple quotes.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		sb.WriteString(fieldLine(field, i == len(schema.Fields)-1))
	}
	sb.WriteString("}\n\n")

	sb.WriteString("Rules:\n")
	sb.WriteString("- Copy information from the text. Do not invent, infer beyond it, or summarize.\n")
	sb.WriteString("- Respond with the JSON object alone: no markdown fences, no commentary.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// fieldLine renders one field of the output schema block, with the required
// flag and description as a trailing comment.
func fieldLine(f SchemaField, last bool) string {
	typeHint := f.Type
	if typeHint == "" {
		typeHint = `"string"`
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %q: %s", f.Name, typeHint)
	if !last {
		sb.WriteString(",")
	}

	hints := make([]string, 0, 2)
	if f.Required {
		hints = append(hints, "required")
	}
	if f.Description != "" {
		hints = append(hints, f.Description)
	}
	if len(hints) > 0 {
		sb.WriteString(" // " + strings.Join(hints, ". "))
	}
	sb.WriteString("\n")
	return sb.String()
}

// --- Predefined Schemas ---

// ResumeSkillsSchema returns the extraction schema for resume text.
// Extracts the technologies and skills a candidate actually claims.
func ResumeSkillsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeSkills",
		Description: prompts.MustGet("extraction.json", "extract-resume-skills"),
		Fields: []SchemaField{
			{
				Name:        "skills",
				Type:        `["string"]`,
				Description: "Technical skills, languages, frameworks, tools and platforms the candidate claims",
				Required:    true,
			},
			{
				Name:        "job_titles",
				Type:        `["string"]`,
				Description: "Job titles the candidate has held, most recent first",
			},
			{
				Name:        "years_experience",
				Type:        `"string"`,
				Description: "Total years of professional experience if stated or clearly inferable, else empty",
			},
		},
	}
}

// JobPostingSchema returns the extraction schema for raw job postings.
// Extracts the fields a job record needs, skipping boilerplate.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobPosting",
		Description: prompts.MustGet("extraction.json", "extract-job-posting"),
		Fields: []SchemaField{
			{
				Name:        "title",
				Type:        `"string"`,
				Description: "The job title",
				Required:    true,
			},
			{
				Name:        "description",
				Type:        `"string"`,
				Description: "The role description: responsibilities and requirements, verbatim, boilerplate removed",
				Required:    true,
			},
			{
				Name:        "required_skills",
				Type:        `["string"]`,
				Description: "Skills the posting requires, canonical names",
				Required:    true,
			},
			{
				Name:        "nice_to_have",
				Type:        `["string"]`,
				Description: "Preferred but not required skills, canonical names",
			},
		},
	}
}
