package types

// CreateCandidateRequest is the payload for registering a candidate.
type CreateCandidateRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1"`
	LastName   string `json:"last_name" validate:"required,min=1"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
}

// UpdateCandidateRequest replaces a candidate's profile. Semantics are a
// full PUT: omitted optional fields clear their columns.
type UpdateCandidateRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1"`
	LastName   string `json:"last_name" validate:"required,min=1"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
}

// CreateJobRequest is the payload for posting a job description.
type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required,min=1"`
	Description    string   `json:"description" validate:"required,min=1"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

// UpdateJobRequest replaces a job description (full PUT semantics).
type UpdateJobRequest struct {
	Title          string   `json:"title" validate:"required,min=1"`
	Description    string   `json:"description" validate:"required,min=1"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

// IngestJobRequest creates a job from a posting URL instead of inline text.
// The description comes from the fetched page. Refresh expires any cached
// copy first, for postings known to have changed.
type IngestJobRequest struct {
	URL            string   `json:"url" validate:"required,url"`
	Title          string   `json:"title" validate:"required,min=1"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Refresh        bool     `json:"refresh,omitempty"`
}

// IngestJobsRequest ingests several postings in one call. Each entry is
// fetched through the page cache; failures are reported per entry.
type IngestJobsRequest struct {
	Jobs []IngestJobRequest `json:"jobs" validate:"required,min=1,max=50,dive"`
}

// Validate checks the request against its field constraints.
func (r *CreateCandidateRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request against its field constraints.
func (r *UpdateCandidateRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request against its field constraints.
func (r *CreateJobRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request against its field constraints.
func (r *UpdateJobRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request against its field constraints.
func (r *IngestJobRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request and every entry against their constraints.
func (r *IngestJobsRequest) Validate() error {
	return requestValidator.Struct(r)
}
