package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/ingestion"
	"github.com/haruki/ats-backend/internal/types"
)

// ---------------------------------------------------------------------
// Job Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.db.CreateJob(r.Context(), &db.Job{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleIngestJob creates a job from a posting URL. The page is fetched
// through the page cache, so re-ingesting the same URL within the TTL does
// not hit the job board again.
func (s *Server) handleIngestJob(w http.ResponseWriter, r *http.Request) {
	var req types.IngestJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.Refresh {
		if err := s.fetcher.InvalidateCache(r.Context(), req.URL); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	page, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Fetch error: "+err.Error())
		return
	}

	description := ingestion.CleanText(page.Text)
	if description == "" {
		s.errorResponse(w, http.StatusUnprocessableEntity, "No readable content at URL")
		return
	}

	job, err := s.db.CreateJob(r.Context(), &db.Job{
		Title:          req.Title,
		Description:    description,
		RequiredSkills: req.RequiredSkills,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.log.Info("job ingested from url",
		zap.String("job_id", job.ID.String()),
		zap.String("url", req.URL),
		zap.Bool("from_cache", page.FromCache),
		zap.Bool("refreshed", req.Refresh),
	)

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"job":        job,
		"source_url": req.URL,
		"from_cache": page.FromCache,
	})
}

// handleIngestJobs ingests a batch of posting URLs. Pages are fetched
// concurrently through the cache; each entry succeeds or fails on its own
// and the response reports both.
func (s *Server) handleIngestJobs(w http.ResponseWriter, r *http.Request) {
	var req types.IngestJobsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	urls := make([]string, len(req.Jobs))
	for i, entry := range req.Jobs {
		if entry.Refresh {
			if err := s.fetcher.InvalidateCache(r.Context(), entry.URL); err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
				return
			}
		}
		urls[i] = entry.URL
	}

	pages, fetchErrs := s.fetcher.FetchMultiple(r.Context(), urls)

	type entryResult struct {
		URL   string  `json:"url"`
		Job   *db.Job `json:"job,omitempty"`
		Error string  `json:"error,omitempty"`
	}

	results := make([]entryResult, len(req.Jobs))
	created := 0
	for i, entry := range req.Jobs {
		results[i].URL = entry.URL
		if fetchErrs[i] != nil {
			results[i].Error = fetchErrs[i].Error()
			continue
		}

		description := ingestion.CleanText(pages[i].Text)
		if description == "" {
			results[i].Error = "no readable content at URL"
			continue
		}

		job, err := s.db.CreateJob(r.Context(), &db.Job{
			Title:          entry.Title,
			Description:    description,
			RequiredSkills: entry.RequiredSkills,
		})
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Job = job
		created++
	}

	s.log.Info("job batch ingested",
		zap.Int("requested", len(req.Jobs)),
		zap.Int("created", created),
	)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"created": created,
		"failed":  len(req.Jobs) - created,
		"results": results,
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filters := db.JobFilters{
		Title:  r.URL.Query().Get("title"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	jobs, err := s.db.ListJobs(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req types.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	err = s.db.UpdateJob(r.Context(), &db.Job{
		ID:             jobID,
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
	})
	if err != nil {
		if err.Error() == "job not found: "+jobID.String() {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// Stored scores were computed against the old description.
	if err := s.db.DeleteMatchesForJob(r.Context(), jobID); err != nil {
		s.log.Warn("failed to clear stale match results", zap.String("job_id", jobID.String()), zap.Error(err))
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := s.db.DeleteJob(r.Context(), jobID); err != nil {
		if err.Error() == "job not found: "+jobID.String() {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Persisted matching
// ---------------------------------------------------------------------

// handleMatchCandidate scores one stored candidate against one stored job
// and persists the result. Rescoring the pair overwrites the previous row.
func (s *Server) handleMatchCandidate(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}
	candidateID, err := uuid.Parse(r.PathValue("candidate_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
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

	jobText := jobMatchText(job)
	score := s.engine.MatchScore(candidate.ResumeText, jobText)
	missing, matched := s.engine.ExtractSkills(candidate.ResumeText, jobText)

	result, err := s.db.SaveMatchResult(r.Context(), &db.MatchResult{
		CandidateID:   candidateID,
		JobID:         jobID,
		MatchScore:    score,
		MissingSkills: missing,
		MatchedSkills: matched,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleListJobMatches returns the stored match results for a job, best
// first.
func (s *Server) handleListJobMatches(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	matches, err := s.db.ListMatchesForJob(r.Context(), jobID, queryInt(r, "limit", 0))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":  jobID,
		"count":   len(matches),
		"matches": matches,
	})
}

// ---------------------------------------------------------------------
// Rankings
// ---------------------------------------------------------------------

// handleJobRankings scores every stored candidate against a job and returns
// them best first. Scoring is fanned out across CPUs; each pair is scored in
// its own two-document vector space, so the work is embarrassingly parallel.
func (s *Server) handleJobRankings(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	candidates, err := s.listAllCandidates(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	ranked, err := s.rankJobCandidates(r.Context(), candidates, jobMatchText(job))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Ranking error: "+err.Error())
		return
	}

	if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":     jobID,
		"job_title":  job.Title,
		"count":      len(ranked),
		"candidates": ranked,
	})
}

// handleJobRankingsStream is handleJobRankings over Server-Sent Events: one
// "score" event per candidate as it is scored, then a "complete" event with
// the sorted ranking.
func (s *Server) handleJobRankingsStream(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Headers are committed once the writer exists, so report failures
	// from here on as error events instead of status codes.
	candidates, err := s.listAllCandidates(r.Context())
	if err != nil {
		sse.WriteError("Database error: " + err.Error())
		return
	}

	jobText := jobMatchText(job)
	ranked := make([]types.RankedCandidate, 0, len(candidates))
	for i := range candidates {
		if r.Context().Err() != nil {
			// Client went away mid-stream.
			return
		}

		entry := s.scoreCandidate(&candidates[i], jobText)
		ranked = append(ranked, entry)

		if err := sse.WriteEvent("score", map[string]any{
			"index":        i,
			"total":        len(candidates),
			"candidate_id": entry.ID,
			"match_score":  entry.MatchScore,
		}); err != nil {
			return
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	sse.WriteComplete(map[string]any{
		"job_id":     jobID,
		"job_title":  job.Title,
		"count":      len(ranked),
		"candidates": ranked,
	})
}

// rankJobCandidates scores candidates against jobText in parallel and sorts
// them by score descending. Ties keep database order.
func (s *Server) rankJobCandidates(ctx context.Context, candidates []db.Candidate, jobText string) ([]types.RankedCandidate, error) {
	ranked := make([]types.RankedCandidate, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ranked[i] = s.scoreCandidate(&candidates[i], jobText)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked, nil
}

// scoreCandidate evaluates one candidate against a job text.
func (s *Server) scoreCandidate(c *db.Candidate, jobText string) types.RankedCandidate {
	score := s.engine.MatchScore(c.ResumeText, jobText)
	missing, matched := s.engine.ExtractSkills(c.ResumeText, jobText)
	return types.RankedCandidate{
		ID:            c.ID.String(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		MatchScore:    score,
		MissingSkills: missing,
		MatchedSkills: matched,
	}
}

// jobMatchText is the text candidates are scored against: the description,
// with the structured skill list appended so required skills always enter
// the scoring vocabulary.
func jobMatchText(j *db.Job) string {
	if len(j.RequiredSkills) == 0 {
		return j.Description
	}
	return j.Description + "\n\nRequired skills: " + strings.Join(j.RequiredSkills, ", ")
}
