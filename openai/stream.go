package openai

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/relay"
	"go.uber.org/zap"
)

// stream implements [relay.Stream] by reading event-stream lines from an
// HTTP response body.
type stream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	line   []byte
	logger *zap.Logger

	pending []relay.Event // decoded from the current frame, not yet returned
	done    bool          // sentinel or clean end of body seen
	err     error         // terminal error, if any

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Interface compliance check.
var _ relay.Stream = (*stream)(nil)

func newStream(body io.ReadCloser, logger *zap.Logger) *stream {
	return &stream{
		body:   body,
		reader: bufio.NewReaderSize(body, 64<<10),
		logger: logger,
	}
}

// Next returns the next decoded event. It returns io.EOF after the
// sentinel frame, or when the body ends cleanly without one.
func (s *stream) Next() (relay.Event, error) {
	if len(s.pending) > 0 {
		evt := s.pending[0]
		s.pending = s.pending[1:]
		return evt, nil
	}
	if s.done {
		return nil, io.EOF
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.closed.Load() {
		return nil, relay.ErrStreamClosed
	}

	for {
		payload, tooLong, err := s.readFrame()
		if err == io.EOF {
			s.done = true
			return nil, io.EOF
		}
		if err != nil {
			s.err = err
			return nil, s.err
		}

		if tooLong {
			s.logger.Debug("skipping oversized frame", zap.Int("limit", maxFrameSize))
			return relay.EventSkip{Err: ErrFrameTooLong}, nil
		}

		if payload == doneSentinel {
			// Anything still buffered after the sentinel is discarded.
			s.done = true
			_ = s.Close()
			return nil, io.EOF
		}

		events := s.decodePayload(payload)
		if len(events) == 0 {
			continue
		}
		s.pending = events[1:]
		return events[0], nil
	}
}

// Close closes the underlying body, unblocking a concurrent Next.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

// readFrame returns the payload of the next "data: " line. Lines without
// the prefix (blank separators, ":" keep-alives, "event:" fields) are
// skipped. A data line longer than maxFrameSize is read to its end and
// reported with tooLong set instead of a payload.
func (s *stream) readFrame() (payload string, tooLong bool, err error) {
	for {
		line, tooLong, err := s.readLine()
		if err != nil {
			if s.closed.Load() {
				return "", false, relay.ErrStreamClosed
			}
			if err == io.EOF {
				return "", false, io.EOF
			}
			return "", false, &relay.TransportError{Err: fmt.Errorf("openai: %w", err)}
		}
		rest, ok := bytes.CutPrefix(line, []byte(dataPrefix))
		if !ok {
			continue
		}
		if tooLong {
			return "", true, nil
		}
		return string(rest), false, nil
	}
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// Bytes past maxFrameSize are discarded up to the next newline; the
// returned prefix is still enough to tell data lines apart. A final line
// without a terminator is returned before io.EOF.
func (s *stream) readLine() ([]byte, bool, error) {
	s.line = s.line[:0]
	tooLong := false
	for {
		chunk, err := s.reader.ReadSlice('\n')
		if !tooLong {
			if len(s.line)+len(chunk) > maxFrameSize+2 {
				tooLong = true
			} else {
				s.line = append(s.line, chunk...)
			}
		}
		switch {
		case err == nil:
			return trimEOL(s.line), tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == io.EOF && (len(s.line) > 0 || tooLong):
			return trimEOL(s.line), tooLong, nil
		default:
			return nil, false, err
		}
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// decodePayload maps one frame payload to semantic events. Only the first
// choice is considered. A payload that does not decode yields a single
// EventSkip.
func (s *stream) decodePayload(payload string) []relay.Event {
	var chunk apiChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		s.logger.Debug("skipping undecodable frame",
			zap.Int("bytes", len(payload)),
			zap.Error(err),
		)
		return []relay.Event{relay.EventSkip{Payload: payload, Err: err}}
	}

	var events []relay.Event
	if len(chunk.Choices) > 0 {
		choice := chunk.Choices[0]
		if choice.Delta.Content != nil && *choice.Delta.Content != "" {
			events = append(events, relay.EventTextDelta{Delta: *choice.Delta.Content})
		}
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			events = append(events, relay.EventFinish{
				Reason:    relay.ParseFinishReason(*choice.FinishReason),
				RawReason: *choice.FinishReason,
			})
		}
	}
	if chunk.Usage != nil {
		events = append(events, relay.EventUsage{Usage: relay.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}})
	}
	return events
}
