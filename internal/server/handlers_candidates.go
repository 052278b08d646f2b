package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/semantic"
	"github.com/haruki/ats-backend/internal/types"
)

// ---------------------------------------------------------------------
// Candidate Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	existing, err := s.db.GetCandidateByEmail(r.Context(), req.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existing != nil {
		s.errorResponse(w, http.StatusConflict, "Candidate email already registered: "+req.Email)
		return
	}

	candidate, err := s.db.CreateCandidate(r.Context(), &db.Candidate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.indexCandidate(r.Context(), candidate)
	s.jsonResponse(w, http.StatusCreated, candidate)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), candidateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, candidate)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	filters := db.CandidateFilters{
		Name:   r.URL.Query().Get("name"),
		Email:  r.URL.Query().Get("email"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	candidates, err := s.db.ListCandidates(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":      len(candidates),
		"candidates": candidates,
	})
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	var req types.UpdateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	err = s.db.UpdateCandidate(r.Context(), &db.Candidate{
		ID:         candidateID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		if err.Error() == "candidate not found: "+candidateID.String() {
			s.errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), candidateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.indexCandidate(r.Context(), candidate)
	s.jsonResponse(w, http.StatusOK, candidate)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	if err := s.db.DeleteCandidate(r.Context(), candidateID); err != nil {
		if err.Error() == "candidate not found: "+candidateID.String() {
			s.errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.unindexCandidate(r.Context(), candidateID)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSearchCandidates runs a full-text query across names, emails and
// resume text.
func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	limit := queryInt(r, "limit", 10)

	results, err := s.index.Search(query, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Search error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// handleSimilarCandidates returns candidates whose resumes are closest to the
// given candidate's resume in the semantic index.
func (s *Server) handleSimilarCandidates(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), candidateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	topK := queryInt(r, "top_k", 5)
	if topK <= 0 {
		topK = 5
	}

	matches, err := s.semantic.SimilarToDocument(r.Context(), candidateCollection, candidateID.String(), topK)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Similarity search error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidate_id": candidateID,
		"count":        len(matches),
		"similar":      matches,
	})
}

// indexCandidate mirrors a candidate row into the full-text and semantic
// indexes. Index failures are logged, not surfaced; the row of record is the
// database.
func (s *Server) indexCandidate(ctx context.Context, c *db.Candidate) {
	if c == nil {
		return
	}
	if err := s.index.Index(searchDocument(c)); err != nil {
		s.log.Warn("failed to index candidate", zap.String("id", c.ID.String()), zap.Error(err))
	}
	if err := s.semantic.Store(ctx, candidateCollection, []semantic.Document{semanticDocument(c)}); err != nil {
		s.log.Warn("failed to store candidate embedding", zap.String("id", c.ID.String()), zap.Error(err))
	}
}

// unindexCandidate removes a candidate from both in-memory indexes.
func (s *Server) unindexCandidate(ctx context.Context, id uuid.UUID) {
	if err := s.index.Delete(id.String()); err != nil {
		s.log.Warn("failed to unindex candidate", zap.String("id", id.String()), zap.Error(err))
	}
	if err := s.semantic.Delete(ctx, candidateCollection, id.String()); err != nil {
		s.log.Warn("failed to delete candidate embedding", zap.String("id", id.String()), zap.Error(err))
	}
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
