// Package server provides the HTTP REST API for the applicant tracking
// system: resume-to-job matching, candidate and job management, rankings,
// search and authentication.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/haruki/ats-backend/internal/config"
	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/fetch"
	"github.com/haruki/ats-backend/internal/matching"
	"github.com/haruki/ats-backend/internal/search"
	"github.com/haruki/ats-backend/internal/semantic"
	"github.com/haruki/ats-backend/internal/server/middleware"
	"github.com/haruki/ats-backend/internal/server/ratelimit"
)

// candidateCollection is the semantic collection resume vectors live in.
const candidateCollection = "candidates"

// warmPageSize is how many candidates are loaded per page when rebuilding
// the in-memory indexes on startup.
const warmPageSize = 200

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	engine      *matching.Engine
	index       *search.Index
	semantic    *semantic.Manager
	fetcher     *fetch.CachedFetcher
	log         *zap.Logger
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
}

// New creates a new server instance, connects to the database, runs the
// schema migration and rebuilds the in-memory search indexes.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Schema is idempotent, safe to run on every boot
	if err := database.Migrate(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	index, err := search.NewMemoryIndex()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	s := &Server{
		db:       database,
		engine:   matching.NewEngine(nil),
		index:    index,
		semantic: semantic.NewManager(nil),
		fetcher:  fetch.NewCachedFetcher(database, nil),
		log:      log,
		validate: validator.New(),
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	if err := s.warmIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to warm search indexes: %w", err)
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Streaming rankings can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Matching endpoints (stateless, nothing persisted)
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /rank", s.handleRank)

	// Candidate endpoints
	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/search", s.handleSearchCandidates)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PUT /candidates/{id}", s.handleUpdateCandidate)
	mux.HandleFunc("DELETE /candidates/{id}", s.handleDeleteCandidate)
	mux.HandleFunc("GET /candidates/{id}/similar", s.handleSimilarCandidates)

	// Job endpoints
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("POST /jobs/ingest", s.handleIngestJob)
	mux.HandleFunc("POST /jobs/ingest-batch", s.handleIngestJobs)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /jobs/{id}", s.handleUpdateJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDeleteJob)

	// Persisted matching and rankings
	mux.HandleFunc("POST /jobs/{id}/candidates/{candidate_id}/match", s.handleMatchCandidate)
	mux.HandleFunc("GET /jobs/{id}/matches", s.handleListJobMatches)
	mux.HandleFunc("GET /jobs/{id}/rankings", s.handleJobRankings)
	mux.HandleFunc("GET /jobs/{id}/rankings/stream", s.handleJobRankingsStream)

	// Authentication
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Routes behind JWT authentication
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("POST /auth/password", requireAuth(http.HandlerFunc(s.handleUpdatePassword)))
	mux.Handle("GET /users/me", requireAuth(http.HandlerFunc(s.handleGetMe)))

	return mux
}

// warmIndexes rebuilds the full-text and semantic indexes from the candidates
// table. Both indexes live in memory and start empty on every boot.
func (s *Server) warmIndexes(ctx context.Context) error {
	candidates, err := s.listAllCandidates(ctx)
	if err != nil {
		return err
	}

	docs := make([]semantic.Document, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if err := s.index.Index(searchDocument(c)); err != nil {
			return err
		}
		docs = append(docs, semanticDocument(c))
	}

	if len(docs) > 0 {
		if err := s.semantic.Store(ctx, candidateCollection, docs); err != nil {
			return err
		}
	}

	s.log.Info("search indexes warmed", zap.Int("candidates", len(docs)))
	return nil
}

// listAllCandidates pages through the candidates table. Ranking and index
// rebuilds want the whole pool, not the default list page.
func (s *Server) listAllCandidates(ctx context.Context) ([]db.Candidate, error) {
	var all []db.Candidate
	offset := 0
	for {
		page, err := s.db.ListCandidates(ctx, db.CandidateFilters{Limit: warmPageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates: %w", err)
		}
		all = append(all, page...)
		if len(page) < warmPageSize {
			return all, nil
		}
		offset += warmPageSize
	}
}

// searchDocument projects a candidate row into the full-text index.
func searchDocument(c *db.Candidate) search.Document {
	return search.Document{
		ID:         c.ID.String(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		ResumeText: c.ResumeText,
	}
}

// semanticDocument projects a candidate row into the semantic store.
func semanticDocument(c *db.Candidate) semantic.Document {
	return semantic.Document{
		ID:   c.ID.String(),
		Text: c.ResumeText,
		Metadata: map[string]string{
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"email":      c.Email,
		},
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if err := s.index.Close(); err != nil {
		s.log.Warn("failed to close search index", zap.Error(err))
	}
	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds structured request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := s.db.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		s.log.Warn("health check database ping failed", zap.Error(err))
	}
	s.jsonResponse(w, code, map[string]string{"status": status})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests for the
// authenticated user.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; deployments behind a trusted
// proxy should rewrite RemoteAddr at the proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit
// information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.log.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining),
		zap.Time("reset_at", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
