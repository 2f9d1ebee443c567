package relay

import "context"

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream() or through Close().
//
// Next blocks until the next event is decoded. It returns io.EOF once the
// terminal sentinel has been read; no further reads are attempted after
// that. Any other error is a transport failure.
//
// Close aborts an in-flight Next and releases the underlying connection.
// It is safe to call concurrently with Next and more than once.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// Provider opens a streaming chat completion for a request.
//
// Stream returns *RequestBuildError when the request cannot be encoded,
// *TransportError when the connection cannot be established and *APIError
// when the endpoint answers with a non-2xx status.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// CompletionHook is notified with the final reply text once per
// successful cycle. Implementations must not assume they run on the
// controller's goroutine; errors are logged and otherwise ignored.
type CompletionHook interface {
	OnFinalized(ctx context.Context, text string) error
}

// CompletionHookFunc adapts a function to CompletionHook.
type CompletionHookFunc func(ctx context.Context, text string) error

// OnFinalized calls f.
func (f CompletionHookFunc) OnFinalized(ctx context.Context, text string) error {
	return f(ctx, text)
}
