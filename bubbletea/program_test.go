package bubbletea_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
	"github.com/fwojciec/relay/chat"
	"github.com/fwojciec/relay/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram_StreamsReply(t *testing.T) {
	t.Parallel()

	p := &mock.Provider{
		StreamFn: func(ctx context.Context, req relay.Request) (relay.Stream, error) {
			return mock.Script(
				relay.EventTextDelta{Delta: "Hel"},
				relay.EventTextDelta{Delta: "lo!"},
				relay.EventFinish{Reason: relay.FinishStop, RawReason: "stop"},
			), nil
		},
	}
	session := relay.NewSession("system")
	c := chat.New(p, session)
	m := bt.New(c, relay.DefaultTheme())

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Type("hi")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Hello!"))
	}, teatest.WithDuration(5*time.Second))
	require.Eventually(t, func() bool { return session.Len() == 3 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, tm.Quit())
	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	final, ok := fm.(bt.Model)
	require.True(t, ok)
	assert.NoError(t, final.Err())

	turns := session.Turns()
	assert.Equal(t, "hi", turns[1].Content)
	assert.Equal(t, "Hello!", turns[2].Content)
}

func TestProgram_ShowsFailure(t *testing.T) {
	t.Parallel()

	p := &mock.Provider{
		StreamFn: func(ctx context.Context, req relay.Request) (relay.Stream, error) {
			return nil, &relay.APIError{StatusCode: 401, Body: "invalid api key"}
		},
	}
	session := relay.NewSession("system")
	m := bt.New(chat.New(p, session), relay.DefaultTheme())

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Type("hi")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("invalid api key"))
	}, teatest.WithDuration(5*time.Second))

	require.NoError(t, tm.Quit())
	tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	assert.Equal(t, 2, session.Len())
}
