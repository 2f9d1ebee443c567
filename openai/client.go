package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Interface compliance check.
var _ relay.Provider = (*Client)(nil)

// Client implements [relay.Provider] for an OpenAI-compatible chat
// completions endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	streamUsage bool
	limiter     *rate.Limiter
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL, e.g. "https://api.openai.com/v1".
// Useful for compatible servers and for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client. Its timeouts are the only
// deadlines the client applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for skipped frames and failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithStreamUsage asks the endpoint to append a usage chunk before the
// sentinel. Not every compatible server accepts stream_options.
func WithStreamUsage(enabled bool) Option {
	return func(c *Client) { c.streamUsage = enabled }
}

// WithRateLimit spaces requests at most perMinute per minute, allowing a
// burst of one. Stream waits for a slot before sending. Zero disables the
// limit.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// New creates a new [Client] with the given bearer credential and options.
// An empty apiKey sends no Authorization header.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a streaming chat completion request and returns a
// [relay.Stream] that emits decoded events.
func (c *Client) Stream(ctx context.Context, req relay.Request) (relay.Stream, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return nil, &relay.RequestBuildError{Err: fmt.Errorf("openai: %w", err)}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &relay.TransportError{Err: fmt.Errorf("openai: rate limit: %w", err)}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionPath, bytes.NewReader(body))
	if err != nil {
		return nil, &relay.RequestBuildError{Err: fmt.Errorf("openai: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &relay.TransportError{Err: fmt.Errorf("openai: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(resp.Body, c.logger), nil
}

func (c *Client) buildRequestBody(req relay.Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	apiReq := apiRequest{
		Model:       model,
		Messages:    convertTurns(req.Turns),
		Stream:      true,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if c.streamUsage {
		apiReq.StreamOptions = &apiStreamOptions{IncludeUsage: true}
	}

	return json.Marshal(apiReq)
}

func convertTurns(turns []relay.Turn) []apiMessage {
	result := make([]apiMessage, len(turns))
	for i, t := range turns {
		result[i] = apiMessage{Role: string(t.Role), Content: t.Content}
	}
	return result
}

// parseHTTPError keeps at most maxErrorBody bytes of the body so a large
// error page is never buffered whole.
func parseHTTPError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && len(data) == 0 {
		return &relay.APIError{StatusCode: resp.StatusCode}
	}
	return &relay.APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}
