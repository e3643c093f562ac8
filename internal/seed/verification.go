package seed

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"github.com/okian/sensei/internal/domain/types"
)

// reasonPriority encodes the strategy ordering the engine guarantees.
var reasonPriority = map[string]int{
	"weakness_reinforcement": 0,
	"progression":            1,
	"exploration":            2,
}

// verifyUsers pulls analysis and recommendations for every seeded user
// and checks the engine's output guarantees hold over real traffic.
func verifyUsers(ctx context.Context, config *Config, users []SeededUser, stats *Stats) error {
	log.Printf("🔍 Verifying analysis and recommendations for %d users...", len(users))

	client := newHTTPClient(config.Timeout)

	for _, user := range users {
		var report types.AnalysisReport
		if err := getJSON(ctx, client, config.BaseURL+"/analysis/"+user.UserID, &report); err != nil {
			return fmt.Errorf("analysis for %s: %w", user.UserID, err)
		}
		stats.UsersAnalyzed++

		if config.Verbose {
			log.Printf("   %s (%s): score %.1f, level %s, solved %d/%d",
				user.UserID, user.Persona.Name,
				report.OverallScore, report.SkillLevel,
				report.Statistics.TotalSolved, report.Statistics.TotalAttempted)
		}

		first, err := fetchRecommendations(ctx, client, config.BaseURL, user.UserID)
		if err != nil {
			return fmt.Errorf("recommendations for %s: %w", user.UserID, err)
		}

		// Same user, same history: the second fetch must be identical.
		second, err := fetchRecommendations(ctx, client, config.BaseURL, user.UserID)
		if err != nil {
			return fmt.Errorf("recommendations for %s: %w", user.UserID, err)
		}
		if !reflect.DeepEqual(first.RecommendedProblems, second.RecommendedProblems) {
			return fmt.Errorf("recommendations for %s are not deterministic", user.UserID)
		}

		if err := verifyRecommendationSet(user.UserID, first); err != nil {
			return err
		}
		stats.UsersRecommended++
	}

	log.Println("✅ Verification completed")
	return nil
}

// fetchRecommendations retrieves one recommendation set.
func fetchRecommendations(ctx context.Context, client *HTTPClient, baseURL, userID string) (types.RecommendationSet, error) {
	var set types.RecommendationSet
	err := getJSON(ctx, client, baseURL+"/recommendations/"+userID, &set)
	return set, err
}

// verifyRecommendationSet checks structural guarantees on one set:
// no duplicate problems and strategies appearing in priority order.
func verifyRecommendationSet(userID string, set types.RecommendationSet) error {
	seen := make(map[string]struct{}, len(set.RecommendedProblems))
	lastPriority := -1

	for i, rec := range set.RecommendedProblems {
		if _, dup := seen[rec.ProblemID]; dup {
			return fmt.Errorf("user %s: problem %s recommended twice", userID, rec.ProblemID)
		}
		seen[rec.ProblemID] = struct{}{}

		priority, known := reasonPriority[rec.Reason]
		if !known {
			return fmt.Errorf("user %s: unknown reason %q at position %d", userID, rec.Reason, i)
		}
		if priority < lastPriority {
			return fmt.Errorf("user %s: reason %q at position %d out of strategy order", userID, rec.Reason, i)
		}
		lastPriority = priority
	}

	return nil
}
