// Package bubbletea provides a Bubble Tea front end for a chat controller.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
)

// Chat is the controller surface the TUI drives. *chat.Controller
// implements it.
type Chat interface {
	Send(ctx context.Context, text string) error
	Cancel()
	Reset() error
	Subscribe() (<-chan relay.Progress, func())
	Session() *relay.Session
}

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ProgressMsg delivers a controller snapshot to the model.
type ProgressMsg struct {
	Progress relay.Progress
}

// SendDoneMsg signals that a Send call has returned.
type SendDoneMsg struct {
	Err error
}
