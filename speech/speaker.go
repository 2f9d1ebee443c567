// Package speech reads finalized replies aloud through an external
// text-to-speech command.
package speech

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fwojciec/relay"
	"go.uber.org/zap"
)

var _ relay.CompletionHook = (*Speaker)(nil)

const (
	defaultTimeout = 2 * time.Minute
	maxStderr      = 4 << 10
)

// ErrClosed is returned by OnFinalized after Close.
var ErrClosed = errors.New("speech: speaker closed")

// Speaker is a relay.CompletionHook that pipes the plain text of each reply
// to a command such as `say` or `espeak --stdin`. Utterances are serialized:
// a reply finalized while another is being spoken waits its turn.
type Speaker struct {
	argv    []string
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex // held for the duration of one utterance
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Speaker.
type Option func(*Speaker)

// WithTimeout bounds a single utterance. Defaults to two minutes.
func WithTimeout(d time.Duration) Option {
	return func(s *Speaker) { s.timeout = d }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Speaker) { s.logger = l }
}

// New creates a Speaker that runs argv with the text on stdin.
func New(argv []string, opts ...Option) (*Speaker, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("speech: empty command")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Speaker{
		argv:    append([]string(nil), argv...),
		timeout: defaultTimeout,
		logger:  zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OnFinalized speaks the plain-text rendition of reply. Replies with no
// speakable text are ignored.
func (s *Speaker) OnFinalized(ctx context.Context, reply string) error {
	plain := PlainText(reply)
	if plain == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	cmd := osexec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.Stdin = strings.NewReader(plain)
	var stderr tailBuffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if s.ctx.Err() != nil {
			return ErrClosed
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("speech: %s: %w: %s", s.argv[0], err, msg)
		}
		return fmt.Errorf("speech: %s: %w", s.argv[0], err)
	}
	s.logger.Debug("utterance finished",
		zap.Int("chars", len(plain)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Close stops the current utterance, if any, and makes later calls to
// OnFinalized fail with ErrClosed.
func (s *Speaker) Close() error {
	s.cancel()
	return nil
}

// tailBuffer keeps the last maxStderr bytes written to it.
type tailBuffer struct {
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - maxStderr; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }
