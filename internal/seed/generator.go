package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sensei/internal/domain/types"
	"github.com/okian/sensei/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Persona shapes the submissions a synthetic user produces.
type Persona struct {
	Name          string
	PassRate      float64 // probability a submission passes
	MinAttempts   int
	MaxAttempts   int
	TimeFactorMin float64 // multiplier on the problem's expected time
	TimeFactorMax float64
	BruteRate     float64 // probability of reporting a worse complexity than expected
}

// Personas covers the skill spread the analyzer classifies.
var Personas = []Persona{
	{
		Name:          "struggler",
		PassRate:      0.30,
		MinAttempts:   3,
		MaxAttempts:   6,
		TimeFactorMin: 1.5,
		TimeFactorMax: 2.5,
		BruteRate:     0.8,
	},
	{
		Name:          "improver",
		PassRate:      0.60,
		MinAttempts:   2,
		MaxAttempts:   3,
		TimeFactorMin: 0.9,
		TimeFactorMax: 1.4,
		BruteRate:     0.4,
	},
	{
		Name:          "expert",
		PassRate:      0.95,
		MinAttempts:   1,
		MaxAttempts:   1,
		TimeFactorMin: 0.4,
		TimeFactorMax: 0.8,
		BruteRate:     0.05,
	},
}

// worseComplexity maps an expected complexity to a plausible brute-force
// annotation one or two rungs down the ladder.
var worseComplexity = map[string]string{
	"O(1)":         "O(n)",
	"O(log n)":     "O(n)",
	"O(n)":         "O(n^2)",
	"O(n log n)":   "O(n^2)",
	"O(n^2)":       "O(n^3)",
	"O(n^2 log n)": "O(n^3)",
	"O(n^3)":       "O(2^n)",
	"O(2^n)":       "O(n!)",
	"O(n!)":        "O(n!)",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [min, max].
func getRandomInt(minVal, maxVal int) int {
	if maxVal <= minVal {
		return minVal
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(maxVal-minVal+1)))
	return minVal + int(n.Int64())
}

// SeededUser pairs a generated user ID with its persona.
type SeededUser struct {
	UserID  string
	Persona Persona
}

// generateSubmissions creates persona-shaped submissions against the
// catalog problems the service actually serves. Users cycle through the
// personas so every run exercises the full skill spread.
func generateSubmissions(ctx context.Context, config *Config, problems []types.Problem) ([]SeededUser, []Submission, error) {
	if len(problems) == 0 {
		return nil, nil, fmt.Errorf("catalog is empty, nothing to seed against")
	}

	logger.Get().Info(ctx, "generating submissions",
		logger.Int("users", config.NumUsers),
		logger.Int("perUser", config.PerUser),
		logger.Int("catalogProblems", len(problems)))

	users := make([]SeededUser, config.NumUsers)
	submissions := make([]Submission, 0, config.NumUsers*config.PerUser)
	now := time.Now().UTC()

	for u := 0; u < config.NumUsers; u++ {
		persona := Personas[u%len(Personas)]
		users[u] = SeededUser{
			UserID:  fmt.Sprintf("%s-%s", persona.Name, uuid.New().String()[:8]),
			Persona: persona,
		}

		for i := 0; i < config.PerUser; i++ {
			// Walk the catalog from a per-user offset so users attempt
			// overlapping but distinct problem slices.
			problem := problems[(u*3+i)%len(problems)]
			submissions = append(submissions, buildSubmission(users[u], problem, now.Add(time.Duration(i)*time.Minute)))
		}
	}

	return users, submissions, nil
}

// buildSubmission rolls one submission for a user against a problem.
func buildSubmission(user SeededUser, problem types.Problem, ts time.Time) Submission {
	p := user.Persona

	passed := getRandomFloat() < p.PassRate
	attempts := getRandomInt(p.MinAttempts, p.MaxAttempts)
	timeFactor := p.TimeFactorMin + getRandomFloat()*(p.TimeFactorMax-p.TimeFactorMin)

	reported := problem.ExpectedComplexity
	if getRandomFloat() < p.BruteRate {
		if worse, ok := worseComplexity[problem.ExpectedComplexity]; ok {
			reported = worse
		}
	}

	return Submission{
		SubmissionID:       uuid.New().String(),
		UserID:             user.UserID,
		ProblemID:          problem.ProblemID,
		Topic:              problem.Topic,
		Difficulty:         problem.Difficulty,
		Passed:             passed,
		Attempts:           attempts,
		TimeTakenMinutes:   problem.ExpectedTimeMinutes * timeFactor,
		ReportedComplexity: reported,
		TS:                 ts.Format(time.RFC3339),
	}
}
