// Command relay streams chat completions from an OpenAI-compatible endpoint.
//
// Usage:
//
//	OPENAI_API_KEY=sk-... relay [flags]
//	relay -p "Summarize RFC 6455 in one line"
//
// Settings come from relay.yaml, RELAY_* environment variables and flags;
// see relay --help.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}
