package audit

import (
	"time"

	"github.com/google/uuid"
)

// Publisher hands events to the worker without blocking request handlers.
// When the buffer is full the event is dropped; auditing must never stall
// the serving path.
type Publisher struct {
	ch chan Event
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{ch: make(chan Event, buffer)}
}

// Emit enqueues an event, filling in ID and timestamp. It reports whether the
// event was accepted.
func (p *Publisher) Emit(e Event) bool {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	select {
	case p.ch <- e:
		return true
	default:
		return false
	}
}

// Events exposes the queue to the worker.
func (p *Publisher) Events() <-chan Event {
	return p.ch
}

// Close stops accepting events. The worker drains what is already queued.
func (p *Publisher) Close() {
	close(p.ch)
}
