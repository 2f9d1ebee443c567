package bubbletea

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageBlock is a renderable element in the transcript. View takes a
// width so the root model controls layout and blocks are testable in
// isolation.
type MessageBlock interface {
	View(width int) string
}

var (
	_ MessageBlock = (*UserBlock)(nil)
	_ MessageBlock = (*AssistantBlock)(nil)
)

// UserBlock renders a user turn with a "> " prefix.
type UserBlock struct {
	text   string
	styles Styles
}

// NewUserBlock creates a UserBlock.
func NewUserBlock(text string, styles Styles) *UserBlock {
	return &UserBlock{text: text, styles: styles}
}

func (b *UserBlock) View(width int) string {
	content := b.styles.User.Render("> ") + b.text
	return lipgloss.NewStyle().Width(width).Render(content)
}

// AssistantBlock renders an assistant reply. A partial reply is dimmed and
// ends with a cursor.
type AssistantBlock struct {
	text    string
	partial bool
	styles  Styles
}

// NewAssistantBlock creates an AssistantBlock for a finalized reply.
func NewAssistantBlock(text string, styles Styles) *AssistantBlock {
	return &AssistantBlock{text: text, styles: styles}
}

// NewPartialBlock creates an AssistantBlock for a reply still streaming.
func NewPartialBlock(text string, styles Styles) *AssistantBlock {
	return &AssistantBlock{text: text, partial: true, styles: styles}
}

func (b *AssistantBlock) View(width int) string {
	prefix := b.styles.Assistant.Render("• ")
	if b.partial {
		return lipgloss.NewStyle().Width(width).Render(prefix + b.styles.Partial.Render(b.text+"▍"))
	}
	return lipgloss.NewStyle().Width(width).Render(prefix + b.text)
}
