package bubbletea

// RenderedTranscript returns the content currently set on the viewport.
func RenderedTranscript(m Model) string {
	return m.Viewport.View()
}
