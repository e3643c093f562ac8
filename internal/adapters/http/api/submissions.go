// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sensei/internal/domain/dedupe"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/pkg/metrics"
)

// SubmissionDependencies defines the interface for submission intake.
type SubmissionDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, sub model.Submission) bool
}

// SubmissionsHandler handles submission intake requests.
type SubmissionsHandler struct {
	deps SubmissionDependencies
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps SubmissionDependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

// HandlePostSubmission handles POST /submissions requests.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordSubmissionRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordSubmissionRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Clients may omit the submission ID; generate one so retries with
	// an explicit ID stay idempotent while fire-and-forget posts work.
	if req.SubmissionID == "" {
		req.SubmissionID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		metrics.RecordSubmissionDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{SubmissionID: req.SubmissionID, Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), toSubmission(req)); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SubmissionID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{SubmissionID: req.SubmissionID, Status: "accepted", Duplicate: false})
}

func toSubmission(req submissionRequest) model.Submission {
	submittedAt := time.Now().UTC()
	if req.TS != "" {
		if ts, err := time.Parse(time.RFC3339, req.TS); err == nil {
			submittedAt = ts
		}
	}
	return model.Submission{
		ID:                 req.SubmissionID,
		UserID:             req.UserID,
		ProblemID:          req.ProblemID,
		Topic:              req.Topic,
		Difficulty:         model.ParseDifficulty(req.Difficulty),
		Passed:             req.Passed,
		Attempts:           req.Attempts,
		TimeTakenMinutes:   req.TimeTakenMinutes,
		ReportedComplexity: req.ReportedComplexity,
		SubmittedAt:        submittedAt,
	}
}
