package mock

import (
	"io"
	"sync"

	"github.com/fwojciec/relay"
)

// Interface compliance check.
var _ relay.Stream = (*Stream)(nil)

// Stream is a test double for relay.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// because callers commonly defer Close.
type Stream struct {
	NextFn  func() (relay.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (relay.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Script returns a Stream that yields events in order and then io.EOF.
// Once closed, Next returns relay.ErrStreamClosed.
func Script(events ...relay.Event) *Stream {
	var (
		mu     sync.Mutex
		i      int
		closed bool
	)
	return &Stream{
		NextFn: func() (relay.Event, error) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return nil, relay.ErrStreamClosed
			}
			if i >= len(events) {
				return nil, io.EOF
			}
			evt := events[i]
			i++
			return evt, nil
		},
		CloseFn: func() error {
			mu.Lock()
			defer mu.Unlock()
			closed = true
			return nil
		},
	}
}
