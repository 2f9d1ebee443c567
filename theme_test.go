package relay_test

import (
	"testing"

	"github.com/fwojciec/relay"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := relay.DefaultTheme()

	assert.Equal(t, 4, theme.User)
	assert.Equal(t, 2, theme.Assistant)
	assert.Equal(t, 8, theme.Partial)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 5, theme.Accent)
}
