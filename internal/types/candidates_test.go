package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCandidateRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateCandidateRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: CreateCandidateRequest{
				FirstName:  "Jane",
				LastName:   "Doe",
				Email:      "jane@example.com",
				ResumeText: "Go engineer",
			},
			wantErr: false,
		},
		{
			name: "valid without resume or phone",
			request: CreateCandidateRequest{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "jane@example.com",
			},
			wantErr: false,
		},
		{
			name: "missing first name",
			request: CreateCandidateRequest{
				LastName: "Doe",
				Email:    "jane@example.com",
			},
			wantErr: true,
		},
		{
			name: "missing email",
			request: CreateCandidateRequest{
				FirstName: "Jane",
				LastName:  "Doe",
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			request: CreateCandidateRequest{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "not-an-email",
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

func TestCreateJobRequest_Validation(t *testing.T) {
	valid := CreateJobRequest{
		Title:          "Backend Engineer",
		Description:    "Go services and PostgreSQL.",
		RequiredSkills: []string{"go", "postgresql"},
	}
	assert.NoError(t, valid.Validate())

	noSkills := CreateJobRequest{Title: "Backend Engineer", Description: "Go services."}
	assert.NoError(t, noSkills.Validate())

	missingTitle := CreateJobRequest{Description: "Go services."}
	assert.Error(t, missingTitle.Validate())

	missingDescription := CreateJobRequest{Title: "Backend Engineer"}
	assert.Error(t, missingDescription.Validate())
}

func TestUpdateRequests_ShareCreateRules(t *testing.T) {
	badCandidate := UpdateCandidateRequest{FirstName: "Jane", LastName: "Doe", Email: "nope"}
	assert.Error(t, badCandidate.Validate())

	goodCandidate := UpdateCandidateRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	assert.NoError(t, goodCandidate.Validate())

	badJob := UpdateJobRequest{Title: "Engineer"}
	assert.Error(t, badJob.Validate())

	goodJob := UpdateJobRequest{Title: "Engineer", Description: "Builds services."}
	assert.NoError(t, goodJob.Validate())
}
