package bridge

import (
	"context"
	"sync"
)

// Ticket identifies one request started through a Tracker.
type Ticket uint64

// Tracker enforces latest-request-wins: starting a request cancels the one
// before it, and only the newest ticket may apply its result.
type Tracker struct {
	mu     sync.Mutex
	seq    Ticket
	cancel context.CancelFunc
}

// Begin cancels any in-flight request and returns the context and ticket for a new one.
func (t *Tracker) Begin(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	t.cancel = cancel
	return ctx, t.seq
}

// Current reports whether ticket still belongs to the newest request.
func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket == t.seq
}

// Finish releases the context of ticket if it is still the newest request.
func (t *Tracker) Finish(ticket Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket == t.seq && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Stop cancels the in-flight request, if any, and invalidates every issued ticket.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}
