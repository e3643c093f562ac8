// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/sensei/internal/domain/types"
)

// ProblemDependencies defines the interface for catalog listing.
type ProblemDependencies interface {
	Problems(ctx context.Context) []types.Problem
}

// ProblemsHandler handles catalog listing requests.
type ProblemsHandler struct {
	deps ProblemDependencies
}

// NewProblemsHandler creates a new problems handler.
func NewProblemsHandler(deps ProblemDependencies) *ProblemsHandler {
	return &ProblemsHandler{deps: deps}
}

// HandleGetProblems handles GET /problems?topic=T&difficulty=D requests.
// Both filters are optional and combine with AND.
func (h *ProblemsHandler) HandleGetProblems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	topic := r.URL.Query().Get("topic")
	difficulty := r.URL.Query().Get("difficulty")

	problems := h.deps.Problems(r.Context())
	if topic == "" && difficulty == "" {
		writeJSON(w, http.StatusOK, problems)
		return
	}

	filtered := make([]types.Problem, 0, len(problems))
	for _, p := range problems {
		if topic != "" && p.Topic != topic {
			continue
		}
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		filtered = append(filtered, p)
	}
	writeJSON(w, http.StatusOK, filtered)
}
