package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request MatchRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: MatchRequest{
				ResumeText:     "Go engineer",
				JobDescription: "Go engineer wanted",
			},
			wantErr: false,
		},
		{
			name:    "empty texts are allowed and score zero downstream",
			request: MatchRequest{},
			wantErr: false,
		},
		{
			name: "positive max score",
			request: MatchRequest{
				ResumeText:     "Go",
				JobDescription: "Go",
				MaxScore:       10,
			},
			wantErr: false,
		},
		{
			name: "negative max score",
			request: MatchRequest{
				ResumeText:     "Go",
				JobDescription: "Go",
				MaxScore:       -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRankRequest_Validation(t *testing.T) {
	valid := RankRequest{
		Candidates:     []map[string]any{{"resume_text": "Go"}},
		JobDescription: "Go engineer",
	}
	assert.NoError(t, valid.Validate())

	missingCandidates := RankRequest{JobDescription: "Go engineer"}
	assert.Error(t, missingCandidates.Validate())

	negativeScale := RankRequest{
		Candidates: []map[string]any{{"resume_text": "Go"}},
		MaxScore:   -5,
	}
	assert.Error(t, negativeScale.Validate())
}

func TestRankedCandidate_FullName(t *testing.T) {
	tests := []struct {
		name      string
		candidate RankedCandidate
		want      string
	}{
		{"both parts", RankedCandidate{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"first only", RankedCandidate{FirstName: "Jane"}, "Jane"},
		{"last only", RankedCandidate{LastName: "Doe"}, "Doe"},
		{"neither", RankedCandidate{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.FullName())
		})
	}
}

func TestDecodeRankedCandidate_WeakTyping(t *testing.T) {
	record := map[string]any{
		"id":             42, // numeric IDs appear in caller-supplied pools
		"first_name":     "Jane",
		"last_name":      "Doe",
		"email":          "jane@example.com",
		"match_score":    87.5,
		"matched_skills": []any{"go", "kubernetes"},
		"missing_skills": []string{"graphql"},
		"notes":          "ignored extra field",
	}

	rc, err := DecodeRankedCandidate(record)
	require.NoError(t, err)

	assert.Equal(t, "42", rc.ID)
	assert.Equal(t, "Jane Doe", rc.FullName())
	assert.Equal(t, 87.5, rc.MatchScore)
	assert.Equal(t, []string{"go", "kubernetes"}, rc.MatchedSkills)
	assert.Equal(t, []string{"graphql"}, rc.MissingSkills)
}

func TestDecodeRankedCandidates_PreservesOrder(t *testing.T) {
	records := []map[string]any{
		{"first_name": "Jane", "match_score": 90.0},
		{"first_name": "Ade", "match_score": 55.0},
		{"first_name": "Sam", "match_score": 12.0},
	}

	ranked, err := DecodeRankedCandidates(records)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Jane", ranked[0].FirstName)
	assert.Equal(t, "Ade", ranked[1].FirstName)
	assert.Equal(t, "Sam", ranked[2].FirstName)
}

func TestDecodeRankedCandidates_BadRecordNamesIndex(t *testing.T) {
	records := []map[string]any{
		{"first_name": "Jane"},
		{"match_score": "not a number"},
	}

	_, err := DecodeRankedCandidates(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}
