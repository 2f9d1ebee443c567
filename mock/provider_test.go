package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Stream(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StreamFn", func(t *testing.T) {
		t.Parallel()
		var s mock.Stream
		p := mock.Provider{
			StreamFn: func(ctx context.Context, req relay.Request) (relay.Stream, error) {
				assert.Equal(t, "m", req.Model)
				return &s, nil
			},
		}
		got, err := p.Stream(context.Background(), relay.Request{Model: "m"})
		require.NoError(t, err)
		assert.Equal(t, &s, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := &relay.APIError{StatusCode: 500, Body: "boom"}
		p := mock.Provider{
			StreamFn: func(ctx context.Context, req relay.Request) (relay.Stream, error) {
				return nil, wantErr
			},
		}
		_, err := p.Stream(context.Background(), relay.Request{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when StreamFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Stream(context.Background(), relay.Request{})
		})
	})
}

func TestCompletionHook_OnFinalized(t *testing.T) {
	t.Parallel()
	t.Run("delegates to OnFinalizedFn", func(t *testing.T) {
		t.Parallel()
		var got string
		h := mock.CompletionHook{
			OnFinalizedFn: func(ctx context.Context, text string) error {
				got = text
				return nil
			},
		}
		require.NoError(t, h.OnFinalized(context.Background(), "hello"))
		assert.Equal(t, "hello", got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("speaker busy")
		h := mock.CompletionHook{
			OnFinalizedFn: func(ctx context.Context, text string) error {
				return wantErr
			},
		}
		assert.ErrorIs(t, h.OnFinalized(context.Background(), "x"), wantErr)
	})
}
