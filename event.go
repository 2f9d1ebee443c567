package relay

// Event is a sealed interface representing a decoded streaming event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta carries one incremental text fragment of the reply.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventFinish carries the finish reason reported by the endpoint.
type EventFinish struct {
	Reason    FinishReason
	RawReason string
}

func (EventFinish) event() {}

// EventUsage carries token usage, typically sent in the last frame before
// the sentinel.
type EventUsage struct {
	Usage Usage
}

func (EventUsage) event() {}

// EventSkip reports a frame whose payload could not be decoded. The frame
// is dropped and streaming continues; the event exists for diagnostics.
type EventSkip struct {
	Payload string
	Err     error
}

func (EventSkip) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventFinish{}
	_ Event = EventUsage{}
	_ Event = EventSkip{}
)
