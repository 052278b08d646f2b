package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// MatchRequest asks for a one-off scoring of a resume against a job
// description. Empty texts are accepted and score zero rather than erroring.
// MaxScore is an optional positive scale; the server defaults it to 100.
type MatchRequest struct {
	ResumeText     string  `json:"resume_text"`
	JobDescription string  `json:"job_description"`
	MaxScore       float64 `json:"max_score,omitempty" validate:"omitempty,gt=0"`
}

// MatchResponse carries the scaled score plus the vocabulary-level skill
// breakdown for one resume/job pair.
type MatchResponse struct {
	MatchScore    float64  `json:"match_score"`
	MissingSkills []string `json:"missing_skills"`
	MatchedSkills []string `json:"matched_skills"`
}

// RankRequest asks for a full ranking of caller-supplied candidate records
// against one job description. Records are loose mappings; only resume_text
// is consulted for scoring, everything else is passed through untouched.
type RankRequest struct {
	Candidates     []map[string]any `json:"candidates" validate:"required"`
	JobDescription string           `json:"job_description"`
	MaxScore       float64          `json:"max_score,omitempty" validate:"omitempty,gt=0"`
}

// RankResponse returns candidate records sorted by descending match_score,
// each augmented with match_score, missing_skills and matched_skills.
type RankResponse struct {
	JobDescription string           `json:"job_description,omitempty"`
	Candidates     []map[string]any `json:"candidates"`
}

// RankedCandidate is the typed view of one ranking output record. Ranking
// itself operates on loose mappings so arbitrary caller fields survive the
// round trip; the CLI and TUI decode the well-known fields through this.
type RankedCandidate struct {
	ID            string   `json:"id,omitempty" mapstructure:"id"`
	FirstName     string   `json:"first_name,omitempty" mapstructure:"first_name"`
	LastName      string   `json:"last_name,omitempty" mapstructure:"last_name"`
	Email         string   `json:"email,omitempty" mapstructure:"email"`
	ResumeText    string   `json:"resume_text,omitempty" mapstructure:"resume_text"`
	MatchScore    float64  `json:"match_score" mapstructure:"match_score"`
	MissingSkills []string `json:"missing_skills" mapstructure:"missing_skills"`
	MatchedSkills []string `json:"matched_skills" mapstructure:"matched_skills"`
}

// FullName joins the candidate's name parts, tolerating records that carry
// only one of them.
func (r *RankedCandidate) FullName() string {
	switch {
	case r.FirstName != "" && r.LastName != "":
		return r.FirstName + " " + r.LastName
	case r.FirstName != "":
		return r.FirstName
	default:
		return r.LastName
	}
}

// DecodeRankedCandidate converts one ranking output mapping into its typed
// view. Decoding is weakly typed so numeric IDs and other loosely shaped
// caller fields do not fail the conversion.
func DecodeRankedCandidate(record map[string]any) (*RankedCandidate, error) {
	var rc RankedCandidate
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build record decoder: %w", err)
	}
	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("failed to decode candidate record: %w", err)
	}
	return &rc, nil
}

// DecodeRankedCandidates converts a full ranking output, preserving order.
func DecodeRankedCandidates(records []map[string]any) ([]RankedCandidate, error) {
	out := make([]RankedCandidate, 0, len(records))
	for i, record := range records {
		rc, err := DecodeRankedCandidate(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, *rc)
	}
	return out, nil
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RankRequest using the validator.
func (r *RankRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
