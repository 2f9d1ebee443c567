package chat

import (
	"sync"

	"github.com/fwojciec/relay"
)

// broadcaster fans Progress snapshots out to subscribers. Each subscriber
// owns a one-slot channel that always holds the most recent unconsumed
// snapshot, so a slow reader never blocks the publisher and never sees
// snapshots out of order.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan relay.Progress
	next int
	last relay.Progress
}

func (b *broadcaster) subscribe() (<-chan relay.Progress, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]chan relay.Progress)
	}
	id := b.next
	b.next++
	ch := make(chan relay.Progress, 1)
	ch <- b.last
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *broadcaster) publish(p relay.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = p
	for _, ch := range b.subs {
		// Drop the stale snapshot, if any, then deliver. Only this
		// goroutine sends while the lock is held, so the second send
		// always finds the slot empty.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- p:
		default:
		}
	}
}

func (b *broadcaster) snapshot() relay.Progress {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
