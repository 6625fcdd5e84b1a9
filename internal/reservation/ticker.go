package reservation

import (
	"context"
	"sync"
	"time"
)

// Ticker calls a function periodically until it is stopped or its context ends.
type Ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartTicker calls fn right away and then every interval with the current time.
func StartTicker(ctx context.Context, interval time.Duration, fn func(now time.Time)) *Ticker {
	ctx, cancel := context.WithCancel(ctx)
	t := &Ticker{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		fn(time.Now())

		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-tick.C:
				fn(now)
			}
		}
	}()
	return t
}

// Stop cancels the ticker and waits for the running call, if any, to return.
func (t *Ticker) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the ticker has stopped.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}
