package chat

import (
	"strings"

	"github.com/fwojciec/relay"
)

// Accumulator folds decoded events into the running reply of one cycle.
// The zero value is ready to use. It is not safe for concurrent use.
type Accumulator struct {
	text      strings.Builder
	finish    relay.FinishReason
	usage     relay.Usage
	fragments int
	skipped   int
}

// Apply folds evt into the accumulator and reports whether the reply text
// changed.
func (a *Accumulator) Apply(evt relay.Event) bool {
	switch e := evt.(type) {
	case relay.EventTextDelta:
		if e.Delta == "" {
			return false
		}
		a.text.WriteString(e.Delta)
		a.fragments++
		return true
	case relay.EventFinish:
		a.finish = e.Reason
	case relay.EventUsage:
		a.usage = e.Usage
	case relay.EventSkip:
		a.skipped++
	}
	return false
}

// Text returns the reply accumulated so far.
func (a *Accumulator) Text() string { return a.text.String() }

// Fragments returns the number of text fragments folded in.
func (a *Accumulator) Fragments() int { return a.fragments }

// Result returns the accumulated reply and its metadata.
func (a *Accumulator) Result() relay.Result {
	return relay.Result{
		Text:         a.text.String(),
		FinishReason: a.finish,
		Usage:        a.usage,
		Skipped:      a.skipped,
	}
}
