// Package narrator adapts a local LLM chat endpoint into a
// recommendation narrator. Narration is strictly decorative: the
// model writes one line of encouragement per recommendation and the
// caller discards the whole batch if the selection does not match.
package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/sensei/internal/domain/recommend"
	"github.com/okian/sensei/pkg/logger"
	"github.com/okian/sensei/pkg/metrics"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2"
	defaultTimeout = 10 * time.Second
)

// Client talks to an Ollama-compatible chat API.
type Client struct {
	baseURL string
	model   string
	httpc   *http.Client
	logger  logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the chat endpoint base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel sets the model name sent with each request.
func WithModel(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.model = m
		}
	}
}

// WithTimeout bounds each narration round-trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpc.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

// New creates a narration client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  logger.Get().Named("narrator"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Narrate implements recommend.Narrator. One chat round-trip covers
// the whole batch; the model answers with one line per problem.
func (c *Client) Narrate(ctx context.Context, recs []recommend.Recommendation) ([]recommend.Narrated, error) {
	if len(recs) == 0 {
		return []recommend.Narrated{}, nil
	}

	start := time.Now()
	lines, err := c.chat(ctx, prompt(recs))
	metrics.RecordNarrationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordNarrationError()
		metrics.RecordErrorByComponent("narrator", "chat_error")
		return nil, err
	}

	out := make([]recommend.Narrated, len(recs))
	for i, r := range recs {
		out[i] = recommend.Narrated{Recommendation: r}
		if i < len(lines) {
			out[i].Commentary = lines[i]
		}
	}
	return out, nil
}

func (c *Client) chat(ctx context.Context, userPrompt string) ([]string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read path

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat endpoint returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}

	var lines []string
	for _, l := range strings.Split(parsed.Message.Content, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

const systemPrompt = "You are a concise coding mentor. For each practice problem " +
	"listed, write exactly one short encouraging sentence explaining why it is " +
	"worth attempting next. Answer with one line per problem, in the given order, " +
	"and nothing else."

func prompt(recs []recommend.Recommendation) string {
	var b strings.Builder
	for i, r := range recs {
		fmt.Fprintf(&b, "%d. %s (%s, %s) - reason: %s\n", i+1, r.Title, r.Topic, r.Difficulty, r.Reason)
	}
	return b.String()
}
