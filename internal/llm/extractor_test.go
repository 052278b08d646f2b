package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExtractionPrompt_Layout(t *testing.T) {
	schema := ExtractionSchema{
		Name:        "Widget",
		Description: "Extract widget facts.",
		Fields: []SchemaField{
			{Name: "name", Type: `"string"`, Description: "Widget name", Required: true},
			{Name: "tags", Type: `["string"]`, Description: "Widget tags"},
		},
	}

	prompt := BuildExtractionPrompt(schema, "The Frobnicator 3000 is a widget.")

	// Task description leads, input text trails inside triple quotes
	require.True(t, strings.HasPrefix(prompt, "Extract widget facts.\n\n"))
	require.True(t, strings.HasSuffix(prompt, "The Frobnicator 3000 is a widget.\n\"\"\"\n"))

	assert.Contains(t, prompt, `"name": "string", // required. Widget name`)
	assert.Contains(t, prompt, `"tags": ["string"] // Widget tags`)
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

func TestBuildExtractionPrompt_FieldRendering(t *testing.T) {
	tests := []struct {
		name  string
		field SchemaField
		last  bool
		want  string
	}{
		{
			name:  "required with description",
			field: SchemaField{Name: "title", Type: `"string"`, Description: "The title", Required: true},
			last:  true,
			want:  `  "title": "string" // required. The title` + "\n",
		},
		{
			name:  "optional, comma before comment",
			field: SchemaField{Name: "tags", Type: `["string"]`, Description: "Tags"},
			last:  false,
			want:  `  "tags": ["string"], // Tags` + "\n",
		},
		{
			name:  "bare field",
			field: SchemaField{Name: "note", Type: `"string"`},
			last:  true,
			want:  `  "note": "string"` + "\n",
		},
		{
			name:  "type defaults to string",
			field: SchemaField{Name: "x"},
			last:  true,
			want:  `  "x": "string"` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldLine(tt.field, tt.last))
		})
	}
}

func TestResumeSkillsSchema(t *testing.T) {
	schema := ResumeSkillsSchema()
	assert.Equal(t, "ResumeSkills", schema.Name)
	assert.NotEmpty(t, schema.Description)

	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"skills", "job_titles", "years_experience"}, names)
	assert.True(t, schema.Fields[0].Required, "skills is the field extraction cannot do without")
}

func TestJobPostingSchema(t *testing.T) {
	schema := JobPostingSchema()
	assert.Equal(t, "JobPosting", schema.Name)
	assert.NotEmpty(t, schema.Description)

	required := map[string]bool{}
	for _, f := range schema.Fields {
		required[f.Name] = f.Required
	}
	assert.True(t, required["title"])
	assert.True(t, required["description"])
	assert.True(t, required["required_skills"])
	assert.False(t, required["nice_to_have"])
}
