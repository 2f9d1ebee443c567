// Package openai implements [relay.Provider] for OpenAI-compatible chat
// completion endpoints.
//
// The response body is read as newline-delimited event-stream lines. Lines
// starting with "data: " carry either the terminal sentinel "[DONE]" or a
// JSON chunk; every other line is ignored. Chunks that fail to decode are
// skipped rather than failing the stream.
package openai

import "errors"

// ErrFrameTooLong is carried by the [relay.EventSkip] reported for a data
// line longer than the frame size limit.
var ErrFrameTooLong = errors.New("openai: frame exceeds size limit")

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	completionPath = "/chat/completions"

	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	// maxErrorBody bounds how much of a non-2xx body is kept for diagnostics.
	maxErrorBody = 4 << 10
	// maxFrameSize bounds a single event-stream line. Longer data lines are
	// skipped.
	maxFrameSize = 1 << 20
)

// apiRequest is the JSON body sent to the chat completions endpoint.
type apiRequest struct {
	Model         string            `json:"model"`
	Messages      []apiMessage      `json:"messages"`
	Stream        bool              `json:"stream"`
	Temperature   *float64          `json:"temperature,omitempty"`
	MaxTokens     int               `json:"max_tokens,omitempty"`
	StreamOptions *apiStreamOptions `json:"stream_options,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiStreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// Stream response types.

// apiChunk is the payload of one "data: " frame.
type apiChunk struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiChoice struct {
	Index        int      `json:"index"`
	Delta        apiDelta `json:"delta"`
	FinishReason *string  `json:"finish_reason"`
}

// apiDelta fields are nullable; a nil Content carries no fragment.
type apiDelta struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
