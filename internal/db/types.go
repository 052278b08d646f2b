package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Candidate is an applicant whose resume text is scored against jobs.
type Candidate struct {
	ID         uuid.UUID `json:"id" mapstructure:"id"`
	FirstName  string    `json:"first_name" mapstructure:"first_name"`
	LastName   string    `json:"last_name" mapstructure:"last_name"`
	Email      string    `json:"email" mapstructure:"email"`
	Phone      string    `json:"phone,omitempty" mapstructure:"phone"`
	ResumeText string    `json:"resume_text" mapstructure:"resume_text"`
	CreatedAt  time.Time `json:"created_at" mapstructure:"-"`
	UpdatedAt  time.Time `json:"updated_at" mapstructure:"-"`
}

// Job is a job description candidates are matched against.
type Job struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	RequiredSkills StringArray `json:"required_skills"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// MatchResult is a stored scoring of one candidate against one job. There is
// at most one row per (candidate, job) pair; rescoring overwrites it.
type MatchResult struct {
	ID            uuid.UUID   `json:"id"`
	CandidateID   uuid.UUID   `json:"candidate_id"`
	JobID         uuid.UUID   `json:"job_id"`
	MatchScore    float64     `json:"match_score"`
	MissingSkills StringArray `json:"missing_skills"`
	MatchedSkills StringArray `json:"matched_skills"`
	CreatedAt     time.Time   `json:"created_at"`
}

// User is an authenticated API principal.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"` // never serialized
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StringArray handles JSONB string arrays.
type StringArray []string

// Scan implements the Scanner interface for StringArray.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("unsupported source type for StringArray")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}
