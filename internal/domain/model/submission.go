// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Difficulty is a closed set of problem difficulty levels.
// Malformed catalog or submission data maps to DifficultyUnknown
// instead of failing.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyUnknown Difficulty = "unknown"
)

// Difficulties lists the known levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps a raw string to a Difficulty, falling back to
// DifficultyUnknown for anything unrecognized.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyMedium:
		return DifficultyMedium
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyUnknown
	}
}

// Level returns the position of d in the easy<medium<hard ladder.
// Unknown sorts after hard.
func (d Difficulty) Level() int {
	for i, known := range Difficulties {
		if d == known {
			return i
		}
	}
	return len(Difficulties)
}

// Next returns the difficulty one level above d. The second return is
// false when d is hard or unknown.
func (d Difficulty) Next() (Difficulty, bool) {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium, true
	case DifficultyMedium:
		return DifficultyHard, true
	default:
		return DifficultyUnknown, false
	}
}

// String implements fmt.Stringer.
func (d Difficulty) String() string { return string(d) }

// Submission is one graded attempt at a problem. Immutable once created;
// owned by the submission store, the pipeline only reads it.
type Submission struct {
	ID                 string     // unique id for idempotency
	UserID             string     // learner identifier
	ProblemID          string     // catalog problem identifier
	Topic              string     // problem category, e.g. "arrays"
	Difficulty         Difficulty // easy/medium/hard
	Passed             bool       // whether all tests passed
	Attempts           int        // number of attempts, >= 1
	TimeTakenMinutes   float64    // wall time spent, >= 0
	ReportedComplexity string     // learner-reported big-O, e.g. "O(n)"
	SubmittedAt        time.Time  // grading timestamp
}

// ProblemMeta is an immutable catalog entry.
type ProblemMeta struct {
	ProblemID           string
	Title               string
	Topic               string
	Difficulty          Difficulty
	ExpectedComplexity  string
	ExpectedTimeMinutes float64
}
