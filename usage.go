package relay

// Usage tracks token consumption reported by the endpoint.
// All fields are zero when the endpoint does not report usage.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
