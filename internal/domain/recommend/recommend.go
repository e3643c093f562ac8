// Package recommend ranks unsolved problems for a learner based on their
// skill profile.
//
// Three strategies run in fixed priority order until the budget is
// exhausted: weakness reinforcement, progression, exploration. The output
// is fully deterministic: identical inputs produce an identical ordered
// list.
package recommend

import (
	"math"

	"github.com/okian/sensei/internal/domain/analysis"
	"github.com/okian/sensei/internal/domain/model"
)

// Reason is a machine-checkable explanation for a recommendation.
type Reason string

const (
	ReasonWeakness    Reason = "weakness_reinforcement"
	ReasonProgression Reason = "progression"
	ReasonExploration Reason = "exploration"
)

// Recommendation is one ranked output entry.
type Recommendation struct {
	ProblemID  string
	Title      string
	Topic      string
	Difficulty model.Difficulty
	Reason     Reason
	Rank       int // 1-based position in the final list
}

// MasteryThreshold gates difficulty progression for a topic.
type MasteryThreshold struct {
	MinSolved      int
	MinAccuracy    float64
	MaxAvgAttempts float64
}

// DefaultMasteryThresholds returns the progression gates keyed by the
// topic's current highest attempted difficulty. The hard row has no next
// level to progress to but is kept for completeness.
func DefaultMasteryThresholds() map[model.Difficulty]MasteryThreshold {
	return map[model.Difficulty]MasteryThreshold{
		model.DifficultyEasy:   {MinSolved: 5, MinAccuracy: 0.80, MaxAvgAttempts: 2.0},
		model.DifficultyMedium: {MinSolved: 10, MinAccuracy: 0.70, MaxAvgAttempts: 3.0},
		model.DifficultyHard:   {MinSolved: 5, MinAccuracy: 0.60, MaxAvgAttempts: 4.0},
	}
}

// Default engine configuration constants.
const (
	DefaultMaxRecommendations = 5
	defaultWeaknessWeight     = 0.6
	defaultProgressionWeight  = 0.4
	weaknessPerTopicCap       = 2
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxRecommendations sets the default budget.
func WithMaxRecommendations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRecommendations = n
		}
	}
}

// WithWeaknessWeight sets the share of the budget reserved for weakness
// reinforcement.
func WithWeaknessWeight(w float64) Option {
	return func(e *Engine) {
		if w > 0 && w <= 1 {
			e.weaknessWeight = w
		}
	}
}

// WithProgressionWeight sets the share of the budget targeted at
// progression.
func WithProgressionWeight(w float64) Option {
	return func(e *Engine) {
		if w > 0 && w <= 1 {
			e.progressionWeight = w
		}
	}
}

// WithMasteryThresholds overrides the progression gates.
func WithMasteryThresholds(thresholds map[model.Difficulty]MasteryThreshold) Option {
	return func(e *Engine) {
		if len(thresholds) > 0 {
			e.thresholds = thresholds
		}
	}
}

// Engine produces ranked recommendations. Pure and safe for concurrent
// use; there is no randomness anywhere in this component.
type Engine struct {
	maxRecommendations int
	weaknessWeight     float64
	progressionWeight  float64
	thresholds         map[model.Difficulty]MasteryThreshold
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxRecommendations: DefaultMaxRecommendations,
		weaknessWeight:     defaultWeaknessWeight,
		progressionWeight:  defaultProgressionWeight,
		thresholds:         DefaultMasteryThresholds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend selects up to limit problems for the profile. A non-positive
// limit falls back to the engine default. Solved problems are never
// returned and no problem id repeats within one call. When the catalog
// cannot fill the budget the list is simply shorter.
func (e *Engine) Recommend(profile analysis.Profile, catalog []model.ProblemMeta, solved map[string]bool, limit int) []Recommendation {
	if limit <= 0 {
		limit = e.maxRecommendations
	}

	picked := make(map[string]bool, limit)
	recs := make([]Recommendation, 0, limit)

	recs = e.recommendForWeaknesses(profile, catalog, solved, picked, recs, limit)
	recs = e.recommendForProgression(profile, catalog, solved, picked, recs, limit)
	recs = e.recommendExploration(profile, catalog, solved, picked, recs, limit)

	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}

// recommendForWeaknesses fills the weakness share of the budget (rounded
// up) with problems at or below the user's comfortable difficulty in
// each weak topic, capped per topic.
func (e *Engine) recommendForWeaknesses(profile analysis.Profile, catalog []model.ProblemMeta, solved, picked map[string]bool, recs []Recommendation, limit int) []Recommendation {
	budget := int(math.Ceil(float64(limit) * e.weaknessWeight))
	if budget > limit {
		budget = limit
	}

	for _, topic := range profile.WeakTopics {
		if len(recs) >= budget {
			break
		}
		comfortable := profile.Topics[topic].ComfortableDifficulty()
		perTopic := 0
		for _, p := range catalog {
			if len(recs) >= budget || perTopic >= weaknessPerTopicCap {
				break
			}
			if p.Topic != topic || p.Difficulty.Level() > comfortable.Level() {
				continue
			}
			if solved[p.ProblemID] || picked[p.ProblemID] {
				continue
			}
			picked[p.ProblemID] = true
			perTopic++
			recs = append(recs, Recommendation{
				ProblemID:  p.ProblemID,
				Title:      p.Title,
				Topic:      p.Topic,
				Difficulty: p.Difficulty,
				Reason:     ReasonWeakness,
			})
		}
	}
	return recs
}

// recommendForProgression promotes strong topics that clear the mastery
// gate for their highest attempted difficulty, one problem per topic at
// the next level up.
func (e *Engine) recommendForProgression(profile analysis.Profile, catalog []model.ProblemMeta, solved, picked map[string]bool, recs []Recommendation, limit int) []Recommendation {
	for _, topic := range profile.StrongTopics {
		if len(recs) >= limit {
			break
		}
		tp := profile.Topics[topic]
		highest := tp.HighestDifficulty()
		gate, ok := e.thresholds[highest]
		if !ok {
			continue
		}
		if tp.Solved < gate.MinSolved || tp.Accuracy < gate.MinAccuracy || tp.AverageAttempts > gate.MaxAvgAttempts {
			continue
		}
		next, ok := highest.Next()
		if !ok {
			continue
		}
		for _, p := range catalog {
			if p.Topic != topic || p.Difficulty != next {
				continue
			}
			if solved[p.ProblemID] || picked[p.ProblemID] {
				continue
			}
			picked[p.ProblemID] = true
			recs = append(recs, Recommendation{
				ProblemID:  p.ProblemID,
				Title:      p.Title,
				Topic:      p.Topic,
				Difficulty: p.Difficulty,
				Reason:     ReasonProgression,
			})
			break
		}
	}
	return recs
}

// recommendExploration fills any remaining budget with one easy problem
// per untried topic, in catalog declaration order.
func (e *Engine) recommendExploration(profile analysis.Profile, catalog []model.ProblemMeta, solved, picked map[string]bool, recs []Recommendation, limit int) []Recommendation {
	for _, topic := range profile.UntriedTopics {
		if len(recs) >= limit {
			break
		}
		for _, p := range catalog {
			if p.Topic != topic || p.Difficulty != model.DifficultyEasy {
				continue
			}
			if solved[p.ProblemID] || picked[p.ProblemID] {
				continue
			}
			picked[p.ProblemID] = true
			recs = append(recs, Recommendation{
				ProblemID:  p.ProblemID,
				Title:      p.Title,
				Topic:      p.Topic,
				Difficulty: p.Difficulty,
				Reason:     ReasonExploration,
			})
			break
		}
	}
	return recs
}
