// Package scoring converts one graded submission into a normalized score record.
package scoring

import (
	"math"
	"strings"

	"github.com/okian/sensei/internal/domain/complexity"
	"github.com/okian/sensei/internal/domain/model"
)

// Weights are the relative contributions of each score component.
type Weights struct {
	Correctness float64
	Efficiency  float64
	Speed       float64
	Attempts    float64
}

// DefaultWeights returns the standard component weights.
func DefaultWeights() Weights {
	return Weights{
		Correctness: 0.35,
		Efficiency:  0.30,
		Speed:       0.20,
		Attempts:    0.15,
	}
}

// Record is the derived score for a single submission. Components are
// in [0,1]; Total is in [0,100].
type Record struct {
	Correctness float64
	Efficiency  float64
	Speed       float64
	Attempts    float64
	Total       int
	BruteForce  bool
	Feedback    string
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides the component weights. Non-positive weights are
// ignored and the defaults kept.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Correctness > 0 && w.Efficiency > 0 && w.Speed > 0 && w.Attempts > 0 {
			s.weights = w
		}
	}
}

// Scorer computes score records. It is a pure function of its inputs and
// safe for concurrent use.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score converts a submission and its problem metadata into a Record.
// Every malformed input degrades to a safe default; there are no error
// conditions.
func (s *Scorer) Score(sub model.Submission, meta model.ProblemMeta) Record {
	correctness := correctnessScore(sub.Passed)
	efficiency := efficiencyScore(sub.Passed, sub.ReportedComplexity, meta.ExpectedComplexity)
	speed := speedScore(sub.TimeTakenMinutes, meta.ExpectedTimeMinutes)
	attempts := attemptsScore(sub.Attempts)

	weighted := s.weights.Correctness*correctness +
		s.weights.Efficiency*efficiency +
		s.weights.Speed*speed +
		s.weights.Attempts*attempts
	total := int(math.Round(100 * weighted))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	bruteForce := complexity.IsBruteForce(sub.ReportedComplexity, meta.ExpectedComplexity)

	return Record{
		Correctness: correctness,
		Efficiency:  efficiency,
		Speed:       speed,
		Attempts:    attempts,
		Total:       total,
		BruteForce:  bruteForce,
		Feedback:    feedback(sub.Passed, efficiency, speed, attempts, bruteForce),
	}
}

func correctnessScore(passed bool) float64 {
	if passed {
		return 1.0
	}
	return 0.0
}

// efficiencyScore maps levels-worse onto a score. An incorrect solution
// cannot claim efficiency credit.
func efficiencyScore(passed bool, actual, expected string) float64 {
	if !passed {
		return 0.0
	}
	switch complexity.LevelsWorse(actual, expected) {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	case 3:
		return 0.3
	default:
		return 0.1
	}
}

// speedScore scores the time taken relative to the expected time.
// Piecewise linear over ratio = taken/expected:
//
//	ratio <= 0.5        -> 1.0
//	0.5 < ratio <= 1.0  -> 1.0 down to 0.8
//	1.0 < ratio <= 2.0  -> 0.8 down to 0.5
//	ratio > 2.0         -> 1/ratio, clamped to [0.1, 0.5]
//
// The last branch is continuous at ratio=2 and strictly decreasing until
// the 0.1 floor. A missing (non-positive) time scores the floor; a
// missing expected time is treated as ratio 1.
func speedScore(taken, expected float64) float64 {
	if taken <= 0 {
		return 0.1
	}
	ratio := 1.0
	if expected > 0 {
		ratio = taken / expected
	}
	switch {
	case ratio <= 0.5:
		return 1.0
	case ratio <= 1.0:
		return 1.0 - (ratio-0.5)*0.4
	case ratio <= 2.0:
		return 0.8 - (ratio-1.0)*0.3
	default:
		score := 1.0 / ratio
		if score < 0.1 {
			return 0.1
		}
		return score
	}
}

func attemptsScore(attempts int) float64 {
	switch {
	case attempts <= 1: // missing attempts count as a single attempt
		return 1.0
	case attempts == 2:
		return 0.9
	case attempts == 3:
		return 0.7
	case attempts == 4:
		return 0.5
	default:
		return 0.3
	}
}

// feedback produces a short human-readable summary of the weak spots.
func feedback(passed bool, efficiency, speed, attempts float64, bruteForce bool) string {
	var parts []string
	if !passed {
		parts = append(parts, "Problem not solved.")
	}
	switch {
	case bruteForce:
		parts = append(parts, "Brute force approach detected. Consider optimizing your algorithm.")
	case passed && efficiency < 0.8:
		parts = append(parts, "Solution efficiency can be improved.")
	}
	if speed < 0.5 {
		parts = append(parts, "Try to improve your solving speed with more practice.")
	}
	if attempts < 0.6 {
		parts = append(parts, "High number of attempts. Review your approach before submitting.")
	}
	if len(parts) == 0 {
		return "Great job! Optimal solution achieved."
	}
	return strings.Join(parts, " ")
}
