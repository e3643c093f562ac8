package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = 1 * time.Second
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON performs a GET request and decodes the JSON response into out.
func getJSON(ctx context.Context, client *HTTPClient, url string, out interface{}) error {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// submitSubmissions posts submissions concurrently using a worker pool.
func submitSubmissions(ctx context.Context, config *Config, submissions []Submission, stats *Stats) error {
	log.Printf("📤 Submitting %d submissions with %d workers...", len(submissions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/submissions"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	var lastReport time.Time

	subChan := make(chan Submission, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)

				ack, err := submitSingle(ctx, client, url, sub)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("⚠️  Failed to submit %s: %v", sub.SubmissionID, err)
					}
				case ack.Duplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&accepted, 1)
				}

				if time.Since(lastReport) >= progressInterval {
					lastReport = time.Now()
					log.Printf("📊 Submission progress: %d/%d (accepted: %d, duplicate: %d, failed: %d)",
						atomic.LoadInt64(&submitted), len(submissions),
						atomic.LoadInt64(&accepted), atomic.LoadInt64(&duplicate), atomic.LoadInt64(&failed))
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range submissions {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SubmissionsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SubmissionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SubmissionsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("✅ Submission complete: %d accepted, %d duplicate, %d failed",
		stats.SubmissionsAccepted, stats.SubmissionsDuplicate, stats.SubmissionsFailed)

	if stats.SubmissionsFailed > 0 && stats.SubmissionsAccepted == 0 {
		return fmt.Errorf("all %d submissions failed", stats.SubmissionsFailed)
	}
	return nil
}

// submitSingle posts one submission and decodes the ack.
func submitSingle(ctx context.Context, client *HTTPClient, url string, sub Submission) (AckResponse, error) {
	var ack AckResponse

	resp, err := client.Post(ctx, url, sub)
	if err != nil {
		return ack, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ack, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return ack, fmt.Errorf("failed to decode ack: %w", err)
	}
	return ack, nil
}
