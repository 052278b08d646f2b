package server

import (
	"encoding/json"
	"net/http"

	"github.com/haruki/ats-backend/internal/types"
)

// handleMatch scores one resume against one job description. Nothing is
// persisted; this is the stateless scoring endpoint.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var score float64
	if req.MaxScore > 0 {
		score = s.engine.MatchScoreMax(req.ResumeText, req.JobDescription, req.MaxScore)
	} else {
		score = s.engine.MatchScore(req.ResumeText, req.JobDescription)
	}
	missing, matched := s.engine.ExtractSkills(req.ResumeText, req.JobDescription)

	s.jsonResponse(w, http.StatusOK, types.MatchResponse{
		MatchScore:    score,
		MissingSkills: missing,
		MatchedSkills: matched,
	})
}

// handleRank ranks an ad-hoc candidate list against a job description.
// Candidates are arbitrary records; only their resume_text field is read.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req types.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var ranked []map[string]any
	if req.MaxScore > 0 {
		ranked = s.engine.RankCandidatesMax(req.Candidates, req.JobDescription, req.MaxScore)
	} else {
		ranked = s.engine.RankCandidates(req.Candidates, req.JobDescription)
	}

	s.jsonResponse(w, http.StatusOK, types.RankResponse{
		JobDescription: req.JobDescription,
		Candidates:     ranked,
	})
}
