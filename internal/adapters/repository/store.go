// Package repository defines the submission store and problem catalog.
package repository

import (
	"context"

	"github.com/okian/sensei/internal/domain/model"
)

// SubmissionStore provides read/write access to per-user submission history.
type SubmissionStore interface {
	// Append adds a scored submission to the user's history.
	Append(ctx context.Context, sub model.Submission) error

	// ListByUser returns the user's submissions in arrival order.
	// Returns ErrNotFound if the user has no history.
	ListByUser(ctx context.Context, userID string) ([]model.Submission, error)

	// SolvedSet returns the distinct problem IDs the user has passed.
	SolvedSet(ctx context.Context, userID string) (map[string]bool, error)

	// Count returns the total number of stored submissions.
	Count(ctx context.Context) int

	// Users returns the number of distinct users with history.
	Users(ctx context.Context) int
}

// Catalog provides read access to the problem set.
type Catalog interface {
	// All returns every problem in declaration order.
	All() []model.ProblemMeta

	// GetByID returns the problem with the given ID.
	// Returns ErrNotFound if the ID is unknown.
	GetByID(id string) (model.ProblemMeta, error)

	// Topics returns the distinct topics in declaration order.
	Topics() []string

	// Size returns the number of problems.
	Size() int
}
