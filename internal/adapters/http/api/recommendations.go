// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/sensei/internal/domain/types"
)

// RecommendationDependencies defines the interface for recommendation operations.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, userID string, limit int) (types.RecommendationSet, error)
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps     RecommendationDependencies
	maxLimit int
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies, maxLimit int) *RecommendationsHandler {
	return &RecommendationsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRecommendations handles GET /recommendations/{user_id}?limit=N requests.
// limit is optional; omitted means the engine default.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := userIDFromPath(r.URL.Path, "/recommendations/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	set, err := h.deps.Recommend(r.Context(), userID, limit)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, set)
}
