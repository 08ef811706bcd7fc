// Package results runs results-view searches and keeps only the newest one per view.
//
// A results view that reissues its search while one is in flight must never see the older
// response overwrite the newer one. Every fetch registers with the Coordinator under its
// view key; registering cancels the previous fetch for that key and bumps its epoch.
// A fetch whose epoch is no longer current when it completes is discarded.
//
// Keys name one rendered results view, not a browser: two tabs of the same browser hold
// different keys and never supersede each other.
package results

import (
	"context"
	"sync"
	"sync/atomic"
)

// Coordinator tracks the in-flight fetch of each view.
type Coordinator struct {
	mu      sync.Mutex
	current map[string]*Ticket
	epoch   atomic.Uint64
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{current: make(map[string]*Ticket)}
}

// Ticket identifies one registered fetch.
type Ticket struct {
	coord  *Coordinator
	key    string
	epoch  uint64
	cancel context.CancelFunc
}

// Begin registers a new fetch for key and returns a context that is canceled
// when a newer fetch for the same key begins, when parent is done, or on Finish.
func (c *Coordinator) Begin(parent context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(parent)
	t := &Ticket{
		coord:  c,
		key:    key,
		epoch:  c.epoch.Add(1),
		cancel: cancel,
	}

	c.mu.Lock()
	prev := c.current[key]
	c.current[key] = t
	c.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	return ctx, t
}

// Epoch returns the ticket's epoch. Epochs increase across all keys.
func (t *Ticket) Epoch() uint64 {
	return t.epoch
}

// Finish releases the ticket and reports whether its result may be applied.
// The key's entry is removed only when this ticket is still the current one.
func (t *Ticket) Finish() bool {
	defer t.cancel()

	t.coord.mu.Lock()
	defer t.coord.mu.Unlock()

	if t.coord.current[t.key] != t {
		return false
	}
	delete(t.coord.current, t.key)
	return true
}

// InFlight returns the number of views with a registered fetch.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.current)
}
