package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(relay.DefaultTheme())

	assert.Equal(t, lipgloss.Color("4"), styles.User.GetForeground())
	assert.True(t, styles.User.GetBold())
	assert.Equal(t, lipgloss.Color("2"), styles.Assistant.GetForeground())
	assert.Equal(t, lipgloss.Color("8"), styles.Partial.GetForeground())
	assert.Equal(t, lipgloss.Color("1"), styles.Error.GetForeground())
	assert.Equal(t, lipgloss.Color("8"), styles.Muted.GetForeground())
	assert.True(t, styles.Muted.GetFaint())
	assert.Equal(t, lipgloss.Color("5"), styles.Accent.GetForeground())
	assert.True(t, styles.Accent.GetBold())
}

func TestNewStylesNegativeIndexYieldsNoColor(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(relay.Theme{User: -1})

	assert.Equal(t, lipgloss.NoColor{}, styles.User.GetForeground())
}
