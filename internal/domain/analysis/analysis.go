// Package analysis folds a submission history into a per-topic skill profile.
package analysis

import (
	"sort"

	"github.com/okian/sensei/internal/domain/complexity"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/scoring"
)

// SkillLevel classifies the overall score.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// Skill level thresholds over the overall score.
const (
	intermediateThreshold = 40.0
	advancedThreshold     = 70.0
)

// Weak/strong topic cutoffs.
const (
	weakAccuracyCutoff   = 0.5
	weakScoreCutoff      = 40.0
	strongAccuracyCutoff = 0.7
	strongScoreCutoff    = 70.0
)

// Default expected solve times in minutes, used when a submission
// references a problem missing from the catalog.
var defaultExpectedMinutes = map[model.Difficulty]float64{
	model.DifficultyEasy:   15,
	model.DifficultyMedium: 30,
	model.DifficultyHard:   45,
}

// SkillLevelFor maps an overall score to a skill level.
func SkillLevelFor(score float64) SkillLevel {
	switch {
	case score >= advancedThreshold:
		return SkillAdvanced
	case score >= intermediateThreshold:
		return SkillIntermediate
	default:
		return SkillBeginner
	}
}

// TopicProfile aggregates a user's performance in one topic.
type TopicProfile struct {
	Topic             string
	Attempted         int
	Solved            int // distinct solved problems; a problem solved after N attempts counts once
	Accuracy          float64
	AverageScore      float64
	AverageEfficiency float64
	AverageAttempts   float64
	Difficulties      map[model.Difficulty]int
}

// Weak reports whether the topic falls below the weakness cutoffs.
func (p TopicProfile) Weak() bool {
	return p.Attempted >= 1 && (p.Accuracy < weakAccuracyCutoff || p.AverageScore < weakScoreCutoff)
}

// Strong reports whether the topic clears the progression cutoffs.
// A weak topic is never strong.
func (p TopicProfile) Strong() bool {
	return !p.Weak() && p.Accuracy >= strongAccuracyCutoff && p.AverageScore >= strongScoreCutoff
}

// ComfortableDifficulty is the easiest difficulty the user has attempted
// in this topic, or easy when nothing was attempted.
func (p TopicProfile) ComfortableDifficulty() model.Difficulty {
	for _, d := range model.Difficulties {
		if p.Difficulties[d] > 0 {
			return d
		}
	}
	return model.DifficultyEasy
}

// HighestDifficulty is the hardest difficulty the user has attempted in
// this topic, or easy when nothing was attempted.
func (p TopicProfile) HighestDifficulty() model.Difficulty {
	for i := len(model.Difficulties) - 1; i >= 0; i-- {
		if p.Difficulties[model.Difficulties[i]] > 0 {
			return model.Difficulties[i]
		}
	}
	return model.DifficultyEasy
}

// Statistics aggregates history-wide counters.
type Statistics struct {
	TotalAttempted    int
	TotalSolved       int
	BruteForceCount   int
	AverageAttempts   float64
	AverageEfficiency float64
	EfficiencyRating  string
}

// Profile is the result of one analysis call.
type Profile struct {
	Topics       map[string]TopicProfile
	OverallScore float64
	SkillLevel   SkillLevel

	// WeakTopics is ordered ascending by average score, then accuracy,
	// then topic name; StrongTopics descending by average score, then
	// topic name. These are the orders the recommendation engine
	// consumes.
	WeakTopics    []string
	StrongTopics  []string
	UntriedTopics []string // catalog topics never attempted, declaration order

	// TopicOrder lists the attempted topics in first-attempt order so
	// report rendering stays deterministic across calls.
	TopicOrder []string

	Stats Statistics
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithScorer sets a custom scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.scorer = s
		}
	}
}

// Analyzer computes skill profiles. Pure and safe for concurrent use.
type Analyzer struct {
	scorer *scoring.Scorer
}

// New creates an Analyzer with configuration options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{scorer: scoring.New()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// topicAccum is the per-topic fold state.
type topicAccum struct {
	attempted    int
	solved       map[string]bool
	scoreSum     float64
	efficiency   float64
	attemptsSum  int
	difficulties map[model.Difficulty]int
}

// Analyze folds an ordered submission history and the problem catalog
// into a Profile. An empty history is a valid terminal state, not an
// error: every catalog topic comes back untried and the skill level is
// beginner.
func (a *Analyzer) Analyze(submissions []model.Submission, catalog []model.ProblemMeta) Profile {
	metaByID := make(map[string]model.ProblemMeta, len(catalog))
	for _, m := range catalog {
		metaByID[m.ProblemID] = m
	}

	accums := make(map[string]*topicAccum)
	stats := Statistics{}
	var topicOrder []string
	var efficiencySum float64

	for _, sub := range submissions {
		meta, ok := metaByID[sub.ProblemID]
		if !ok {
			meta = syntheticMeta(sub)
		}
		rec := a.scorer.Score(sub, meta)

		acc := accums[sub.Topic]
		if acc == nil {
			acc = &topicAccum{
				solved:       make(map[string]bool),
				difficulties: make(map[model.Difficulty]int),
			}
			accums[sub.Topic] = acc
			topicOrder = append(topicOrder, sub.Topic)
		}
		acc.attempted++
		if sub.Passed {
			acc.solved[sub.ProblemID] = true
		}
		acc.scoreSum += float64(rec.Total)
		acc.efficiency += rec.Efficiency
		acc.attemptsSum += sub.Attempts
		acc.difficulties[sub.Difficulty]++

		stats.TotalAttempted++
		if rec.BruteForce {
			stats.BruteForceCount++
		}
		stats.AverageAttempts += float64(sub.Attempts)
		efficiencySum += rec.Efficiency
	}

	profile := Profile{
		Topics:     make(map[string]TopicProfile, len(accums)),
		SkillLevel: SkillBeginner,
		Stats:      stats,
		TopicOrder: topicOrder,
	}

	var weightedScore float64
	for topic, acc := range accums {
		tp := TopicProfile{
			Topic:             topic,
			Attempted:         acc.attempted,
			Solved:            len(acc.solved),
			Accuracy:          float64(len(acc.solved)) / float64(acc.attempted),
			AverageScore:      acc.scoreSum / float64(acc.attempted),
			AverageEfficiency: acc.efficiency / float64(acc.attempted),
			AverageAttempts:   float64(acc.attemptsSum) / float64(acc.attempted),
			Difficulties:      acc.difficulties,
		}
		profile.Topics[topic] = tp
		profile.Stats.TotalSolved += tp.Solved
		weightedScore += tp.AverageScore * float64(tp.Attempted)

		if tp.Weak() {
			profile.WeakTopics = append(profile.WeakTopics, topic)
		} else if tp.Strong() {
			profile.StrongTopics = append(profile.StrongTopics, topic)
		}
	}

	if stats.TotalAttempted > 0 {
		profile.OverallScore = weightedScore / float64(stats.TotalAttempted)
		profile.Stats.AverageAttempts = stats.AverageAttempts / float64(stats.TotalAttempted)
		profile.Stats.AverageEfficiency = efficiencySum / float64(stats.TotalAttempted)
		profile.Stats.EfficiencyRating = complexity.RateEfficiency(profile.Stats.AverageEfficiency)
	} else {
		profile.Stats.AverageAttempts = 0
		profile.Stats.EfficiencyRating = complexity.RatingSuboptimal
	}
	profile.SkillLevel = SkillLevelFor(profile.OverallScore)

	sortWeakTopics(profile.WeakTopics, profile.Topics)
	sortStrongTopics(profile.StrongTopics, profile.Topics)
	profile.UntriedTopics = untriedTopics(catalog, profile.Topics)

	return profile
}

// syntheticMeta stands in for a catalog entry the submission references
// but the catalog does not carry. The calling layer surfaces the
// integrity fault; analysis itself degrades gracefully.
func syntheticMeta(sub model.Submission) model.ProblemMeta {
	expected, ok := defaultExpectedMinutes[sub.Difficulty]
	if !ok {
		expected = defaultExpectedMinutes[model.DifficultyMedium]
	}
	return model.ProblemMeta{
		ProblemID:           sub.ProblemID,
		Topic:               sub.Topic,
		Difficulty:          sub.Difficulty,
		ExpectedTimeMinutes: expected,
	}
}

func sortWeakTopics(topics []string, profiles map[string]TopicProfile) {
	sort.Slice(topics, func(i, j int) bool {
		a, b := profiles[topics[i]], profiles[topics[j]]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore < b.AverageScore
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy < b.Accuracy
		}
		return topics[i] < topics[j]
	})
}

func sortStrongTopics(topics []string, profiles map[string]TopicProfile) {
	sort.Slice(topics, func(i, j int) bool {
		a, b := profiles[topics[i]], profiles[topics[j]]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return topics[i] < topics[j]
	})
}

// untriedTopics returns catalog topics with zero attempts, preserving
// catalog declaration order and deduplicating repeats.
func untriedTopics(catalog []model.ProblemMeta, attempted map[string]TopicProfile) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range catalog {
		if seen[m.Topic] {
			continue
		}
		seen[m.Topic] = true
		if _, ok := attempted[m.Topic]; !ok {
			out = append(out, m.Topic)
		}
	}
	return out
}
