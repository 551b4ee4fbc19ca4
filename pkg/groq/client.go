// Package groq is a small client for the OpenAI-compatible chat completions
// endpoint served by Groq.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/sony/gobreaker/v2"
)

const (
	DefaultBaseURL           = "https://api.groq.com/openai/v1"
	DefaultModel             = "llama-3.3-70b-versatile"
	completionsPath          = "chat/completions"
	errorBodyReadLimit int64 = 64 << 10
)

var errAPIKeyRequired = errors.New("groq api key is required")

// Message is one chat turn.
type Message struct {
	Role    enums.ChatRole `json:"role"`
	Content string         `json:"content"`
}

// CompletionRequest is the payload posted to the completions endpoint.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Completion is the normalized reply. Content is empty when the upstream
// returned no choices.
type Completion struct {
	Content string
	Model   string
}

// BreakerSettings tunes the circuit breaker around the completions call.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerSettings mirrors the defaults exposed through config.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Client calls the completions API through a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logg       *logger.Logger
	settings   BreakerSettings
	onState    func(state int)
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger attaches a logger for breaker transitions.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithBreaker overrides the breaker settings.
func WithBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		c.settings = settings
	}
}

// WithStateListener is called with 0 (closed), 1 (half-open) or 2 (open)
// whenever the breaker changes state.
func WithStateListener(fn func(state int)) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

// NewClient builds the completions client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		settings:   DefaultBreakerSettings(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.logg == nil {
		client.logg = logger.Nop()
	}
	client.breaker = gobreaker.NewCircuitBreaker[*http.Response](client.breakerSettings())
	return client, nil
}

func (c *Client) breakerSettings() gobreaker.Settings {
	cfg := c.settings
	return gobreaker.Settings{
		Name:        "groq-completions",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// caller mistakes (4xx) should not open the breaker
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUpstream {
				return typed.HTTPStatus() < http.StatusInternalServerError
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := c.logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			c.logg.Warn(ctx, "circuit breaker state change")
			if c.onState != nil {
				c.onState(StateValue(to))
			}
		},
	}
}

// StateValue maps a breaker state to the gauge encoding.
func StateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// State reports the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Complete posts the conversation and returns the first choice.
//
// Non-2xx replies become CODE UPSTREAM_ERROR errors pinned to the upstream
// status with the decoded upstream body as details. An open breaker yields
// DEPENDENCY_ERROR without touching the network.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "API key not configured")
	}
	if len(req.Messages) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one message is required")
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal completion request")
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.do(ctx, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "chat completions temporarily unavailable")
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var apiResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode completion response")
	}

	out := &Completion{Model: apiResp.Model}
	if len(apiResp.Choices) > 0 {
		out.Content = apiResp.Choices[0].Message.Content
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, payload []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(completionsPath), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "execute completion request")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeUpstream,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			"Failed to get response from AI",
		).WithHTTPStatus(resp.StatusCode).WithDetails(decodeDetails(body))
	}
	return resp, nil
}

// decodeDetails keeps JSON error bodies structured and falls back to raw text.
func decodeDetails(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(trimmed, &parsed); err == nil {
		return parsed
	}
	return string(trimmed)
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
