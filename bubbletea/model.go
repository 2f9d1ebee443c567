package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the relay TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the status line while a reply streams.
	Spinner spinner.Model

	chat        Chat
	styles      Styles
	updates     <-chan relay.Progress
	unsubscribe func()

	progress relay.Progress
	sending  bool // Send issued and not yet returned
	err      error
	notice   string
	ready    bool
}

// New creates a Model that drives c and subscribes to its progress.
func New(c Chat, theme relay.Theme) Model {
	styles := NewStyles(theme)

	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent))

	updates, unsubscribe := c.Subscribe()
	return Model{
		Input:       ti,
		Spinner:     sp,
		chat:        c,
		styles:      styles,
		updates:     updates,
		unsubscribe: unsubscribe,
	}
}

// Busy reports whether a cycle is in flight.
func (m Model) Busy() bool { return m.sending || m.progress.Busy }

// Err returns the error shown in the status line, if any.
func (m Model) Err() error {
	if m.progress.Err != nil {
		return m.progress.Err
	}
	return m.err
}

// Notice returns the informational message shown in the status line.
func (m Model) Notice() string { return m.notice }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick, listenForProgress(m.updates))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProgressMsg:
		m.progress = msg.Progress
		m = m.refresh()
		cmds = append(cmds, listenForProgress(m.updates))
		if !m.Busy() {
			cmds = append(cmds, m.Input.Focus())
		}
		return m, tea.Batch(cmds...)

	case SendDoneMsg:
		m.sending = false
		switch {
		case msg.Err == nil:
		case errors.Is(msg.Err, relay.ErrCancelled):
			m.notice = "Cancelled"
		default:
			m.err = msg.Err
		}
		m = m.refresh()
		return m, m.Input.Focus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.Busy() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.Busy() {
			m.chat.Cancel()
			return m, nil
		}
		m.unsubscribe()
		return m, tea.Quit

	case tea.KeyEnter:
		if m.Busy() {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyCtrlR:
		if m.Busy() {
			return m, nil
		}
		m.err = nil
		m.notice = ""
		if err := m.chat.Reset(); err != nil {
			m.err = err
		} else {
			m.progress = relay.Progress{}
			m.notice = "Conversation reset"
		}
		return m.refresh(), nil
	}

	// When idle, pass keys to both the input (for typing) and viewport
	// (for scrolling). Character keys only go to the input.
	if !m.Busy() {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.notice = ""
	m.sending = true
	return m, sendText(m.chat, text)
}

// refresh re-renders the transcript from the session history plus the
// reply currently streaming.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	var blocks []MessageBlock
	for _, turn := range m.chat.Session().Turns() {
		switch turn.Role {
		case relay.RoleUser:
			blocks = append(blocks, NewUserBlock(turn.Content, m.styles))
		case relay.RoleAssistant:
			blocks = append(blocks, NewAssistantBlock(turn.Content, m.styles))
		}
	}
	if m.progress.Busy && m.progress.Partial != "" {
		blocks = append(blocks, NewPartialBlock(m.progress.Partial, m.styles))
	}
	m.Viewport.SetContent(renderBlocks(blocks, m.Viewport.Width))
	m.Viewport.GotoBottom()
	return m
}

func renderBlocks(blocks []MessageBlock, width int) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if err := m.Err(); err != nil {
		// Response bodies can be long and multi-line; keep the status to
		// one row.
		msg := strings.Join(strings.Fields(fmt.Sprintf("Error: %v", err)), " ")
		if w := m.Viewport.Width; w > 0 {
			msg = runewidth.Truncate(msg, w, "…")
		}
		return m.styles.Error.Render(msg)
	}
	if m.Busy() {
		label := "Waiting for reply..."
		if m.progress.State == relay.StateStreaming {
			label = "Streaming..."
		}
		return m.Spinner.View() + " " + m.styles.Muted.Render(label+" Ctrl+C to cancel")
	}
	if m.notice != "" {
		return m.styles.Muted.Render(m.notice)
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+R to reset, Ctrl+C to quit")
}

// sendText runs one cycle on the Bubble Tea command goroutine. Progress
// arrives separately through the subscription.
func sendText(c Chat, text string) tea.Cmd {
	return func() tea.Msg {
		return SendDoneMsg{Err: c.Send(context.Background(), text)}
	}
}

// listenForProgress waits for the next snapshot. It returns nil once the
// subscription is closed.
func listenForProgress(ch <-chan relay.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Progress: p}
	}
}
