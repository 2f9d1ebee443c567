package relay

// State is the position of a controller within a send cycle.
type State int

const (
	StateIdle       State = iota // No cycle in flight; sends are accepted.
	StateSending                 // User turn appended, request being built.
	StateConnected               // Endpoint answered with a 2xx status.
	StateStreaming               // Reading frames.
	StateFinalizing              // Sentinel seen, committing the reply.
	StateFailed                  // Cycle aborted by an error.
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateConnected:
		return "connected"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is a snapshot of a controller's observable state.
//
// Invariant: Partial is non-empty only while Busy is true. Err is set only
// on the snapshot that ends a failed cycle and on snapshots published after
// it, until the next cycle starts.
type Progress struct {
	State   State
	Busy    bool
	Partial string
	Err     error
}

// Result describes the last successfully finalized reply.
type Result struct {
	Text         string
	FinishReason FinishReason
	Usage        Usage
	Skipped      int // frames dropped because their payload failed to decode
}
