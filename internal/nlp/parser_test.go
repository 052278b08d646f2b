package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities_Resume(t *testing.T) {
	text := `Jane Doe
Senior Backend Engineer
jane.doe@example.com | +1 (555) 123-4567
https://github.com/janedoe

EXPERIENCE
Built Go services on Kubernetes from 2019 - 2023.`

	got := ExtractEntities(text)

	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, []string{"jane.doe@example.com"}, got.Emails)
	assert.Equal(t, []string{"+1 (555) 123-4567"}, got.Phones)
	assert.Equal(t, []string{"https://github.com/janedoe"}, got.URLs)
}

func TestExtractEntities_Empty(t *testing.T) {
	got := ExtractEntities("")

	assert.Empty(t, got.Name)
	assert.Empty(t, got.Emails)
	assert.Empty(t, got.Phones)
	assert.Empty(t, got.URLs)
}

func TestExtractEntities_DeduplicatesRepeats(t *testing.T) {
	text := `Contact: sam@example.com
References available from sam@example.com on request.
Portfolio: www.samwise.dev and again www.samwise.dev`

	got := ExtractEntities(text)

	assert.Equal(t, []string{"sam@example.com"}, got.Emails)
	assert.Equal(t, []string{"www.samwise.dev"}, got.URLs)
}

func TestExtractEntities_PhoneFormats(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  []string
		empty bool
	}{
		{name: "international", text: "Call +44 20 7946 0958 anytime", want: []string{"+44 20 7946 0958"}},
		{name: "dotted", text: "Phone: 555.123.4567", want: []string{"555.123.4567"}},
		{name: "year range is not a phone", text: "Worked there 2019 - 2023", empty: true},
		{name: "too few digits", text: "Apt 12-345", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntities(tt.text)
			if tt.empty {
				assert.Empty(t, got.Phones)
			} else {
				assert.Equal(t, tt.want, got.Phones)
			}
		})
	}
}

func TestExtractEntities_URLTrailingPunctuation(t *testing.T) {
	got := ExtractEntities("See https://example.com/profile, or www.example.com/cv.")

	assert.Equal(t, []string{"https://example.com/profile", "www.example.com/cv"}, got.URLs)
}

func TestGuessName_SkipsHeadersAndTitles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "name after document header",
			text: "CURRICULUM VITAE\nJohn Smith\njohn@example.com",
			want: "John Smith",
		},
		{
			name: "job title line is not a name",
			text: "Senior Software Engineer\nAvailable from March",
			want: "",
		},
		{
			name: "name with middle initial",
			text: "Maria J. Fernandez\nmaria@example.com",
			want: "Maria J. Fernandez",
		},
		{
			name: "name too deep in the document",
			text: "a\nb\nc\nd\ne\nJohn Smith",
			want: "",
		},
		{
			name: "contact line is not a name",
			text: "john@example.com\n+1 555 123 4567",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntities(tt.text)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}
