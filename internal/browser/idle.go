package browser

import (
	"context"
	"sync"
	"time"
)

// IdleTracker follows in-flight network requests and reports when the page has
// had at most maxInflight outstanding requests for a quiet period.
type IdleTracker struct {
	maxInflight int

	mu        sync.Mutex
	inflight  map[string]struct{}
	idleSince time.Time
	changed   chan struct{}
	now       func() time.Time
}

// NewIdleTracker creates a tracker that treats maxInflight or fewer requests as idle.
func NewIdleTracker(maxInflight int) *IdleTracker {
	return &IdleTracker{
		maxInflight: maxInflight,
		inflight:    make(map[string]struct{}),
		changed:     make(chan struct{}),
		now:         time.Now,
	}
}

// Started records a request. Duplicate ids are ignored.
func (t *IdleTracker) Started(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inflight[id]; ok {
		return
	}
	t.inflight[id] = struct{}{}
	t.update()
}

// Finished records completion or failure of a request.
func (t *IdleTracker) Finished(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inflight[id]; !ok {
		return
	}
	delete(t.inflight, id)
	t.update()
}

// Inflight returns the number of outstanding requests.
func (t *IdleTracker) Inflight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// update must be called with mu held.
func (t *IdleTracker) update() {
	idle := len(t.inflight) <= t.maxInflight
	switch {
	case idle && t.idleSince.IsZero():
		t.idleSince = t.now()
	case !idle:
		t.idleSince = time.Time{}
	}
	close(t.changed)
	t.changed = make(chan struct{})
}

// Wait blocks until the tracker has been idle for quiet, or ctx is done.
func (t *IdleTracker) Wait(ctx context.Context, quiet time.Duration) error {
	for {
		t.mu.Lock()
		if len(t.inflight) <= t.maxInflight && t.idleSince.IsZero() {
			t.idleSince = t.now()
		}
		var remaining time.Duration = -1
		if !t.idleSince.IsZero() {
			remaining = quiet - t.now().Sub(t.idleSince)
			if remaining <= 0 {
				t.mu.Unlock()
				return nil
			}
		}
		changed := t.changed
		t.mu.Unlock()

		var (
			tm    *time.Timer
			timer <-chan time.Time
		)
		if remaining > 0 {
			tm = time.NewTimer(remaining)
			timer = tm.C
		}

		select {
		case <-ctx.Done():
			if tm != nil {
				tm.Stop()
			}
			return ctx.Err()
		case <-changed:
		case <-timer:
		}
		if tm != nil {
			tm.Stop()
		}
	}
}
