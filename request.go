package relay

// Request carries the model selection, conversation and generation
// parameters of one send. Streaming is always enabled on the wire.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model       string // model ID; empty = provider default
	Turns       []Turn
	MaxTokens   int      // 0 = provider default
	Temperature *float64 // nil = provider default
}
