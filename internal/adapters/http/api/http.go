// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/sensei/internal/adapters/repository"
	"github.com/okian/sensei/internal/domain/dedupe"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async scoring. Returns false on backpressure.
	Enqueue(ctx context.Context, sub model.Submission) bool

	// Read operations expose analysis and recommendation data.
	Analyze(ctx context.Context, userID string) (types.AnalysisReport, error)
	Recommend(ctx context.Context, userID string, limit int) (types.RecommendationSet, error)
	Problems(ctx context.Context) []types.Problem
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	submissionsHandler     *SubmissionsHandler
	analysisHandler        *AnalysisHandler
	recommendationsHandler *RecommendationsHandler
	problemsHandler        *ProblemsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		submissionsHandler:     NewSubmissionsHandler(deps),
		analysisHandler:        NewAnalysisHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps, maxLimit),
		problemsHandler:        NewProblemsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/problems", MetricsMiddleware(s.problemsHandler.HandleGetProblems, "problems"))
	mux.HandleFunc("/analysis/", MetricsMiddleware(s.analysisHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
}

// submissionRequest mirrors the OpenAPI schema for POST /submissions.
type submissionRequest struct {
	SubmissionID       string  `json:"submission_id"`
	UserID             string  `json:"user_id"`
	ProblemID          string  `json:"problem_id"`
	Topic              string  `json:"topic"`
	Difficulty         string  `json:"difficulty"`
	Passed             bool    `json:"passed"`
	Attempts           int     `json:"attempts"`
	TimeTakenMinutes   float64 `json:"time_taken_minutes"`
	ReportedComplexity string  `json:"reported_complexity"`
	TS                 string  `json:"ts"`
}

func (s submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(s.ProblemID) == "":
		return errors.New("missing problem_id")
	case s.Attempts < 1:
		return errors.New("attempts must be at least 1")
	case s.TimeTakenMinutes < 0:
		return errors.New("time_taken_minutes must not be negative")
	}
	if s.TS != "" {
		if _, err := time.Parse(time.RFC3339, s.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// userIDFromPath extracts the path parameter after prefix, e.g. the
// user ID in /analysis/{user_id}.
func userIDFromPath(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
