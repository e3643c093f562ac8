package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/okian/sensei/internal/domain/types"
	"github.com/okian/sensei/pkg/logger"
)

// Drain polling constants.
const (
	drainPollInterval = 250 * time.Millisecond
	drainTimeout      = 2 * time.Minute
)

// Run executes the complete seeding run: generate persona-shaped
// submissions, post them, wait for the pipeline to drain, then pull
// and verify every user's analysis and recommendations.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("perUser", config.PerUser),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the catalog so submissions target real problems
	problems, err := fetchCatalog(ctx, config)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}

	// Step 3: Generate submissions
	users, submissions, err := generateSubmissions(ctx, config, problems)
	if err != nil {
		return fmt.Errorf("submission generation failed: %w", err)
	}
	stats.SubmissionsGenerated = len(submissions)

	// Step 4: Submit concurrently
	if err := submitSubmissions(ctx, config, submissions, stats); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	// Step 5: Wait for the async pipeline to drain
	if err := waitForDrain(ctx, config, stats.SubmissionsAccepted); err != nil {
		return fmt.Errorf("pipeline drain failed: %w", err)
	}

	// Step 6: Verify analysis and recommendations per user
	if err := verifyUsers(ctx, config, users, stats); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != 200 {
		return fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchCatalog retrieves the problem catalog from the service.
func fetchCatalog(ctx context.Context, config *Config) ([]types.Problem, error) {
	client := newHTTPClient(config.Timeout)

	var problems []types.Problem
	if err := getJSON(ctx, client, config.BaseURL+"/problems", &problems); err != nil {
		return nil, err
	}

	logger.Get().Info(ctx, "fetched catalog", logger.Int("problems", len(problems)))
	return problems, nil
}

// waitForDrain polls /stats until the store has absorbed the accepted
// submissions or the drain timeout elapses.
func waitForDrain(ctx context.Context, config *Config, accepted int) error {
	log.Printf("⏳ Waiting for %d submissions to drain through the pipeline...", accepted)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/stats"
	deadline := time.Now().Add(drainTimeout)

	for {
		var serviceStats map[string]interface{}
		if err := getJSON(ctx, client, url, &serviceStats); err != nil {
			return err
		}

		stored, _ := serviceStats["total_submissions"].(float64)
		queued, _ := serviceStats["queue_length"].(float64)
		if int(stored) >= accepted && queued == 0 {
			log.Printf("✅ Pipeline drained: %d submissions stored", int(stored))
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for drain: %d/%d stored, %d queued",
				int(stored), accepted, int(queued))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPollInterval):
		}
	}
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	log.Println("📈 Seed run summary:")
	log.Printf("   Submissions generated: %d", stats.SubmissionsGenerated)
	log.Printf("   Submissions submitted: %d", stats.SubmissionsSubmitted)
	log.Printf("   Accepted: %d, Duplicate: %d, Failed: %d",
		stats.SubmissionsAccepted, stats.SubmissionsDuplicate, stats.SubmissionsFailed)
	log.Printf("   Users analyzed: %d", stats.UsersAnalyzed)
	log.Printf("   Users with recommendations: %d", stats.UsersRecommended)
	log.Printf("   Duration: %s", stats.Duration)
}
