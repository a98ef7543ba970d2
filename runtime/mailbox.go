package runtime

import (
	"chat-relay/domain/event"
	"sync"
	"time"
)

type entry struct {
	event event.Event
	// barrier entries never share a batch with what was queued before them
	barrier bool
}

// mailbox holds one user's delivery state. All fields are guarded by mu.
type mailbox struct {
	mu          sync.Mutex
	backlog     []entry
	pending     []event.Event
	deliveredAt time.Time
	closed      bool
	ready       chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// append returns false when the mailbox was closed in the meantime.
func (m *mailbox) append(e entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.backlog = append(m.backlog, e)
	select {
	case m.ready <- struct{}{}:
	default:
	}
	return true
}

type delivery struct {
	events     []event.Event
	redelivery bool
}

func (m *mailbox) next(now time.Time, ackTimeout time.Duration, limit *int) delivery {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil {
		if now.Sub(m.deliveredAt) < ackTimeout {
			return delivery{}
		}
		m.deliveredAt = now
		return delivery{events: clone(m.pending), redelivery: true}
	}

	n := len(m.backlog)
	if limit != nil && *limit < n {
		n = *limit
	}
	for i := 1; i < n; i++ {
		if m.backlog[i].barrier {
			n = i
			break
		}
	}
	if n == 0 {
		return delivery{}
	}

	batch := make([]event.Event, n)
	for i := range n {
		batch[i] = m.backlog[i].event
	}
	// drop references so delivered events can be collected once acknowledged
	clear(m.backlog[:n])
	m.backlog = m.backlog[n:]
	m.pending = batch
	m.deliveredAt = now
	return delivery{events: clone(batch)}
}

func (m *mailbox) ack() []event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	acked := m.pending
	m.pending = nil
	m.deliveredAt = time.Time{}
	if acked == nil {
		return []event.Event{}
	}
	return acked
}

func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.backlog = nil
	m.pending = nil
}

func (m *mailbox) sizes() (backlog, pending int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.backlog), len(m.pending)
}

func clone(events []event.Event) []event.Event {
	out := make([]event.Event, len(events))
	copy(out, events)
	return out
}
