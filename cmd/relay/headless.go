package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/relay/chat"
	"golang.org/x/sync/errgroup"
)

// runHeadless sends prompt once and writes the reply to w as it streams.
// It waits for completion hooks so a spoken reply is not cut off.
func runHeadless(ctx context.Context, c *chat.Controller, prompt string, w io.Writer) error {
	updates, unsubscribe := c.Subscribe()

	var (
		g errgroup.Group
		n int
	)
	g.Go(func() error {
		for p := range updates {
			// Snapshots arrive in order and each partial extends the
			// previous one.
			if p.Busy && len(p.Partial) > n {
				if _, err := io.WriteString(w, p.Partial[n:]); err != nil {
					return err
				}
				n = len(p.Partial)
			}
		}
		return nil
	})

	err := c.Send(ctx, prompt)
	unsubscribe()
	if werr := g.Wait(); werr != nil && err == nil {
		err = fmt.Errorf("writing reply: %w", werr)
	}
	if err != nil {
		if n > 0 {
			fmt.Fprintln(w)
		}
		return err
	}

	text := c.LastResult().Text
	if n < len(text) {
		_, _ = io.WriteString(w, text[n:])
	}
	fmt.Fprintln(w)
	c.Wait()
	return nil
}
