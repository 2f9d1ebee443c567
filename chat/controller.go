// Package chat drives send cycles against a relay.Provider: it appends the
// user turn, streams the reply, publishes progress snapshots and commits the
// assistant turn once the stream terminates.
package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/fwojciec/relay"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller runs at most one send cycle at a time for a single session.
// All methods are safe for concurrent use.
type Controller struct {
	provider relay.Provider
	session  *relay.Session
	hook     relay.CompletionHook
	logger   *zap.Logger
	metrics  *Metrics

	model        string
	temperature  *float64
	maxTokens    int
	cycleTimeout time.Duration

	// mu guards the fields below and orders every publish, so snapshots of
	// one cycle can never interleave with those of the next.
	mu     sync.Mutex
	state  relay.State
	cancel context.CancelFunc
	result relay.Result

	progress broadcaster
	hooks    sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithModel sets the model id sent with every request. Empty means the
// provider default.
func WithModel(model string) Option {
	return func(c *Controller) { c.model = model }
}

// WithTemperature sets the sampling temperature sent with every request.
func WithTemperature(t float64) Option {
	return func(c *Controller) { c.temperature = &t }
}

// WithMaxTokens caps the reply length. Zero leaves it to the endpoint.
func WithMaxTokens(n int) Option {
	return func(c *Controller) { c.maxTokens = n }
}

// WithCompletionHook registers a hook fired with the text of every
// successfully finalized reply.
func WithCompletionHook(h relay.CompletionHook) Option {
	return func(c *Controller) { c.hook = h }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMetrics records cycle metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithCycleTimeout bounds a whole cycle, from request to sentinel. Expiry
// fails the cycle with a *relay.TransportError. Zero disables the bound.
func WithCycleTimeout(d time.Duration) Option {
	return func(c *Controller) { c.cycleTimeout = d }
}

// New creates a Controller for session that streams replies from provider.
func New(provider relay.Provider, session *relay.Session, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		session:  session,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the controller appends to.
func (c *Controller) Session() *relay.Session { return c.session }

// State returns the current cycle state.
func (c *Controller) State() relay.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the most recently published snapshot.
func (c *Controller) Progress() relay.Progress {
	return c.progress.snapshot()
}

// LastResult returns the result of the last successful cycle.
func (c *Controller) LastResult() relay.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Subscribe returns a channel that yields the current snapshot and then
// every newer one. A reader that falls behind only sees the latest
// snapshot; the terminal snapshot of a cycle is never dropped in favor of
// an older one. The returned function unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan relay.Progress, func()) {
	return c.progress.subscribe()
}

// Send runs one cycle for text on the calling goroutine and returns once
// the reply is committed, the cycle failed or it was cancelled.
//
// Send returns relay.ErrBusy while another cycle is in flight,
// relay.ErrEmptyInput for blank text and relay.ErrCancelled when the cycle
// was cancelled through Cancel or ctx. Failures are returned as
// *relay.RequestBuildError, *relay.TransportError or *relay.APIError and
// are also published on the terminal snapshot.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state != relay.StateIdle {
		c.mu.Unlock()
		return relay.ErrBusy
	}
	if err := c.session.AppendUser(text); err != nil {
		c.mu.Unlock()
		return err
	}
	var cycleCtx context.Context
	var cancel context.CancelFunc
	if c.cycleTimeout > 0 {
		cycleCtx, cancel = context.WithTimeout(ctx, c.cycleTimeout)
	} else {
		cycleCtx, cancel = context.WithCancel(ctx)
	}
	c.cancel = cancel
	c.setLocked(relay.StateSending, "", nil)
	c.mu.Unlock()
	defer cancel()

	logger := c.logger.With(
		zap.String("cycle", uuid.NewString()),
		zap.String("session", c.session.ID),
	)
	start := time.Now()
	logger.Info("cycle started",
		zap.String("model", c.model),
		zap.Int("turns", c.session.Len()),
	)

	res, fragments, err := c.run(cycleCtx, logger)
	c.metrics.observeReply(fragments, res.Skipped)
	switch {
	case err == nil:
		c.finalize(ctx, logger, res)
		c.metrics.observeCycle(outcomeSuccess, time.Since(start))
		logger.Info("cycle finished",
			zap.Int("bytes", len(res.Text)),
			zap.String("finish_reason", string(res.FinishReason)),
			zap.Int("skipped", res.Skipped),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil
	case errors.Is(cycleCtx.Err(), context.Canceled):
		c.finish(relay.StateIdle, nil)
		c.metrics.observeCycle(outcomeCancelled, time.Since(start))
		logger.Info("cycle cancelled", zap.Duration("elapsed", time.Since(start)))
		return relay.ErrCancelled
	default:
		err = classify(cycleCtx, err)
		c.finish(relay.StateFailed, err)
		c.metrics.observeCycle(outcomeFailure, time.Since(start))
		logger.Error("cycle failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return err
	}
}

// run opens the stream and folds its events until the sentinel. The
// returned error is nil only when the stream terminated cleanly; the result
// and fragment count describe whatever was received either way.
func (c *Controller) run(ctx context.Context, logger *zap.Logger) (relay.Result, int, error) {
	req := relay.Request{
		Model:       c.model,
		Turns:       c.session.Turns(),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	stream, err := c.provider.Stream(ctx, req)
	if err != nil {
		return relay.Result{}, 0, err
	}
	defer stream.Close()
	stop := context.AfterFunc(ctx, func() { _ = stream.Close() })
	defer stop()

	c.set(relay.StateConnected, "")

	// A fresh accumulator per cycle; the reply never outlives it.
	var acc Accumulator
	for {
		evt, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return acc.Result(), acc.Fragments(), nil
		}
		if err != nil {
			return acc.Result(), acc.Fragments(), err
		}
		if skip, ok := evt.(relay.EventSkip); ok {
			logger.Debug("frame skipped", zap.String("payload", skip.Payload), zap.Error(skip.Err))
		}
		if acc.Apply(evt) {
			c.set(relay.StateStreaming, acc.Text())
		}
	}
}

func (c *Controller) finalize(ctx context.Context, logger *zap.Logger, res relay.Result) {
	c.set(relay.StateFinalizing, res.Text)

	c.mu.Lock()
	c.session.AppendAssistant(res.Text)
	c.result = res
	c.cancel = nil
	c.setLocked(relay.StateIdle, "", nil)
	c.mu.Unlock()

	if c.hook == nil {
		return
	}
	hookCtx := context.WithoutCancel(ctx)
	c.hooks.Add(1)
	go func() {
		defer c.hooks.Done()
		if err := c.hook.OnFinalized(hookCtx, res.Text); err != nil {
			logger.Warn("completion hook failed", zap.Error(err))
		}
	}()
}

// finish ends a cycle without committing a reply. terminal is the state
// carried by the published snapshot; the controller itself returns to Idle.
func (c *Controller) finish(terminal relay.State, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = nil
	c.progress.publish(relay.Progress{State: terminal, Err: err})
	c.state = relay.StateIdle
}

// Cancel aborts the in-flight cycle, if any. The pending Send returns
// relay.ErrCancelled and no assistant turn is appended.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Reset restores the session to its system prompt and clears the published
// error and partial reply. It returns relay.ErrBusy while a cycle is in
// flight.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != relay.StateIdle {
		return relay.ErrBusy
	}
	c.session.Reset()
	c.result = relay.Result{}
	c.setLocked(relay.StateIdle, "", nil)
	return nil
}

// Wait blocks until every completion hook started so far has returned.
func (c *Controller) Wait() {
	c.hooks.Wait()
}

func (c *Controller) set(state relay.State, partial string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(state, partial, nil)
}

func (c *Controller) setLocked(state relay.State, partial string, err error) {
	c.state = state
	busy := state != relay.StateIdle && state != relay.StateFailed
	if !busy {
		partial = ""
	}
	c.progress.publish(relay.Progress{
		State:   state,
		Busy:    busy,
		Partial: partial,
		Err:     err,
	})
}

// classify maps a cycle failure onto the error taxonomy. Deadline expiry
// and untyped stream errors are transport failures.
func classify(ctx context.Context, err error) error {
	var (
		buildErr     *relay.RequestBuildError
		transportErr *relay.TransportError
		apiErr       *relay.APIError
	)
	switch {
	case errors.As(err, &buildErr), errors.As(err, &apiErr):
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &relay.TransportError{Err: ctx.Err()}
	case errors.As(err, &transportErr):
		return err
	default:
		return &relay.TransportError{Err: err}
	}
}
