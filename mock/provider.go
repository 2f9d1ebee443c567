// Package mock provides test doubles for relay interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/relay"
)

// Interface compliance checks.
var (
	_ relay.Provider       = (*Provider)(nil)
	_ relay.CompletionHook = (*CompletionHook)(nil)
)

// Provider is a test double for relay.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req relay.Request) (relay.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req relay.Request) (relay.Stream, error) {
	return p.StreamFn(ctx, req)
}

// CompletionHook is a test double for relay.CompletionHook.
// Set OnFinalizedFn before use.
type CompletionHook struct {
	OnFinalizedFn func(ctx context.Context, text string) error
}

// OnFinalized delegates to OnFinalizedFn.
func (h *CompletionHook) OnFinalized(ctx context.Context, text string) error {
	return h.OnFinalizedFn(ctx, text)
}
