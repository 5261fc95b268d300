package browser

import (
	"context"
	"sync"

	"github.com/f4ah6o/devshot/internal/capture"
)

// NetworkAlmostIdle is Chrome's lifecycle event for "at most two network
// connections for 500ms", the same signal puppeteer's networkidle2 uses.
const NetworkAlmostIdle = "networkAlmostIdle"

// LifecycleWaiter records page lifecycle events per loader so a caller can
// wait for one that may already have fired.
type LifecycleWaiter struct {
	mu      sync.Mutex
	seen    map[string]map[string]struct{}
	changed chan struct{}
}

// NewLifecycleWaiter returns an empty waiter.
func NewLifecycleWaiter() *LifecycleWaiter {
	return &LifecycleWaiter{
		seen:    make(map[string]map[string]struct{}),
		changed: make(chan struct{}),
	}
}

// Observe records that name fired for loaderID.
func (w *LifecycleWaiter) Observe(loaderID, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	names, ok := w.seen[loaderID]
	if !ok {
		names = make(map[string]struct{})
		w.seen[loaderID] = names
	}
	names[name] = struct{}{}
	close(w.changed)
	w.changed = make(chan struct{})
}

// Wait blocks until name has been observed for loaderID, or ctx is done.
func (w *LifecycleWaiter) Wait(ctx context.Context, loaderID, name string) error {
	for {
		w.mu.Lock()
		_, ok := w.seen[loaderID][name]
		changed := w.changed
		w.mu.Unlock()
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// usesLifecycle reports whether req asks for exactly the thresholds Chrome's
// networkAlmostIdle event implements. Other thresholds fall back to IdleTracker.
func usesLifecycle(req capture.Request) bool {
	return req.MaxInflight == capture.DefaultMaxInflight && req.Quiet == capture.DefaultQuiet
}
