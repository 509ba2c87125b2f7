// Package poller provides a cancellable fixed-interval polling loop. Every
// consumer that polls an external status endpoint goes through Start so that
// cancellation is explicit and no timer outlives its view.
package poller

import (
	"context"
	"sync"
	"time"
)

// Start invokes fn every interval until the returned stop function is called
// or ctx is cancelled. Stop is idempotent and safe to call from any
// goroutine; it never blocks on a running fn.
func Start(ctx context.Context, interval time.Duration, fn func(context.Context)) (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() { close(done) })
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn(ctx)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return stop
}
