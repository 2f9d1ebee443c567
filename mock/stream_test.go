package mock_test

import (
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_Next(t *testing.T) {
	t.Parallel()
	t.Run("delegates to NextFn", func(t *testing.T) {
		t.Parallel()
		want := relay.EventTextDelta{Delta: "hello"}
		s := mock.Stream{
			NextFn: func() (relay.Event, error) {
				return want, nil
			},
		}
		got, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns EOF", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{
			NextFn: func() (relay.Event, error) {
				return nil, io.EOF
			},
		}
		_, err := s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("panics when NextFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Panics(t, func() {
			_, _ = s.Next()
		})
	})
}

func TestStream_Close(t *testing.T) {
	t.Parallel()
	t.Run("delegates to CloseFn", func(t *testing.T) {
		t.Parallel()
		called := false
		s := mock.Stream{
			CloseFn: func() error {
				called = true
				return nil
			},
		}
		require.NoError(t, s.Close())
		assert.True(t, called)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("close error")
		s := mock.Stream{
			CloseFn: func() error {
				return wantErr
			},
		}
		assert.ErrorIs(t, s.Close(), wantErr)
	})

	t.Run("returns nil when CloseFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.NoError(t, s.Close())
	})
}

func TestScript(t *testing.T) {
	t.Parallel()
	t.Run("yields events then EOF", func(t *testing.T) {
		t.Parallel()
		s := mock.Script(
			relay.EventTextDelta{Delta: "a"},
			relay.EventFinish{Reason: relay.FinishStop, RawReason: "stop"},
		)
		evt, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, relay.EventTextDelta{Delta: "a"}, evt)
		evt, err = s.Next()
		require.NoError(t, err)
		assert.Equal(t, relay.EventFinish{Reason: relay.FinishStop, RawReason: "stop"}, evt)
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("closed stream fails", func(t *testing.T) {
		t.Parallel()
		s := mock.Script(relay.EventTextDelta{Delta: "a"})
		require.NoError(t, s.Close())
		_, err := s.Next()
		assert.ErrorIs(t, err, relay.ErrStreamClosed)
	})
}
