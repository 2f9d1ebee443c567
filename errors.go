package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or turn failed validation.
	ErrValidation = errors.New("validation error")

	// ErrEmptyInput indicates a send with blank text. It is rejected before
	// any network activity and leaves the history unchanged.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy indicates a send was attempted while a cycle is in flight.
	ErrBusy = errors.New("a reply is already streaming")

	// ErrCancelled is returned by a send that was cancelled. It is never
	// recorded as the session error.
	ErrCancelled = errors.New("cancelled")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// RequestBuildError indicates the outbound request could not be built or
// encoded. It is not retryable.
type RequestBuildError struct {
	Err error
}

func (e *RequestBuildError) Error() string {
	return "build request: " + e.Err.Error()
}

func (e *RequestBuildError) Unwrap() error { return e.Err }

// TransportError indicates the connection could not be established or was
// interrupted mid-stream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError indicates the endpoint answered with a non-success status.
// Body holds a bounded prefix of the response body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether re-sending may succeed: rate limiting,
// server-side failures and transport errors. No retry is ever automatic.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var te *TransportError
	return errors.As(err, &te)
}
