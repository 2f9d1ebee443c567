package relay

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishNone          FinishReason = ""
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishUnknown       FinishReason = "unknown"
)

// ParseFinishReason maps a raw finish_reason string to a FinishReason.
// Unrecognized non-empty values map to FinishUnknown.
func ParseFinishReason(raw string) FinishReason {
	switch FinishReason(raw) {
	case FinishNone, FinishStop, FinishLength, FinishContentFilter, FinishToolCalls:
		return FinishReason(raw)
	default:
		return FinishUnknown
	}
}
