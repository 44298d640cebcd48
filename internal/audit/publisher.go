package audit

import (
	"context"
	"time"
)

// Publisher hands audit events to the background worker. Emit never blocks
// the moderation path: when the inbox is full the event is dropped and the
// drop is reported through the returned count, not an error to the caller.
type Publisher struct {
	inbox chan Event
}

// NewPublisher creates a publisher with a buffered inbox. The returned
// channel feeds a Worker.
func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Publisher{inbox: make(chan Event, buffer)}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Emit enqueues an event, stamping the time if unset. Returns false when the
// inbox is full and the event was dropped.
func (p *Publisher) Emit(_ context.Context, event Event) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return true
	default:
		return false
	}
}
