package runtime

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/observability"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultAckTimeout = 3 * time.Second

// EventBroker delivers events posted on channels to the mailboxes of subscribed users.
// Delivery is at-least-once: a handed-out batch stays pending until acknowledged and is
// handed out again, unchanged, once the ack timeout has elapsed.
type EventBroker struct {
	log        *slog.Logger
	ackTimeout time.Duration
	now        func() time.Time
	metrics    *observability.Metrics

	mu       sync.RWMutex
	sessions map[domain.UserID]*Session
	registry *Registry
}

type BrokerOption func(*EventBroker)

func WithAckTimeout(d time.Duration) BrokerOption {
	return func(b *EventBroker) {
		if d > 0 {
			b.ackTimeout = d
		}
	}
}

func WithClock(now func() time.Time) BrokerOption {
	return func(b *EventBroker) {
		if now != nil {
			b.now = now
		}
	}
}

func WithMetrics(m *observability.Metrics) BrokerOption {
	return func(b *EventBroker) { b.metrics = m }
}

func NewEventBroker(log *slog.Logger, opts ...BrokerOption) *EventBroker {
	b := &EventBroker{
		log:        log,
		ackTimeout: DefaultAckTimeout,
		now:        time.Now,
		sessions:   make(map[domain.UserID]*Session),
		registry:   NewRegistry(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Session is the window during which a user is reachable. Close releases it.
type Session struct {
	userID domain.UserID
	broker *EventBroker
	mb     *mailbox
	once   sync.Once
}

func (s *Session) UserID() domain.UserID { return s.userID }

// Ready is signalled whenever an event lands in the backlog.
// Signals coalesce, so a receiver must drain with GetEvents rather than count wake-ups.
func (s *Session) Ready() <-chan struct{} { return s.mb.ready }

// Close drops the user's subscriptions and mailbox without draining them. It is idempotent.
func (s *Session) Close() {
	s.once.Do(func() { s.broker.closeSession(s) })
}

func (b *EventBroker) OpenSession(userID domain.UserID) (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[userID]; ok {
		return nil, brokerErr(errors.ErrAlreadySubscribed, "user %s", userID)
	}
	s := &Session{userID: userID, broker: b, mb: newMailbox()}
	b.sessions[userID] = s
	b.metrics.SessionOpened()
	b.log.Debug("broker.session.open", "user_id", userID)
	return s, nil
}

func (b *EventBroker) closeSession(s *Session) {
	b.mu.Lock()
	if current, ok := b.sessions[s.userID]; ok && current == s {
		delete(b.sessions, s.userID)
	}
	left := b.registry.Unsubscribe(s.userID, s.mb)
	b.mu.Unlock()

	s.mb.close()
	b.metrics.SessionClosed()
	b.log.Debug("broker.session.close", "user_id", s.userID, "channels", len(left))
}

func (b *EventBroker) HasSession(userID domain.UserID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.sessions[userID]
	return ok
}

func (b *EventBroker) Subscribe(channel domain.Channel, userID domain.UserID) error {
	return b.SubscribeMany([]domain.Channel{channel}, userID)
}

// SubscribeMany requires an open session. The session lock is held in read mode so that a
// concurrent Close cannot interleave with the registration.
func (b *EventBroker) SubscribeMany(channels []domain.Channel, userID domain.UserID) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.sessions[userID]
	if !ok {
		return brokerErr(errors.ErrUsage, "subscribe without an open session for user %s", userID)
	}
	if len(channels) == 0 {
		return nil
	}
	b.registry.Subscribe(userID, s.mb, channels...)
	b.log.Debug("broker.channel.subscribe", "user_id", userID, "channels", len(channels))
	return nil
}

func (b *EventBroker) PostEvent(channel domain.Channel, e event.Event) error {
	return b.post(channel, e, false)
}

// PostEventAfterAck queues e so that it is only handed out after everything queued
// before it has been acknowledged.
func (b *EventBroker) PostEventAfterAck(channel domain.Channel, e event.Event) error {
	return b.post(channel, e, true)
}

func (b *EventBroker) post(channel domain.Channel, e event.Event, barrier bool) error {
	if e == nil {
		return brokerErr(errors.ErrUsage, "nil event posted to %s", channel)
	}
	receivers := 0
	for _, mb := range b.registry.Subscribers(channel) {
		if mb.append(entry{event: e, barrier: barrier}) {
			receivers++
		}
	}
	b.metrics.EventPosted(string(e.Kind()), receivers)
	b.log.Debug("broker.event.post",
		"channel", channel, "kind", e.Kind(), "event_id", e.EventID(), "receivers", receivers, "after_ack", barrier)
	return nil
}

// GetEvents hands out the next batch for the user. It returns an empty slice while a batch
// is pending and its ack timeout has not elapsed, and the same batch again once it has.
// A nil limit delivers the whole backlog.
func (b *EventBroker) GetEvents(userID domain.UserID, limit *int) ([]event.Event, error) {
	if limit != nil && *limit < 0 {
		return nil, brokerErr(errors.ErrUsage, "negative limit %d", *limit)
	}
	mb, err := b.mailboxOf(userID)
	if err != nil {
		return nil, err
	}
	d := mb.next(b.now(), b.ackTimeout, limit)
	if d.redelivery {
		b.log.Debug("broker.events.redeliver", "user_id", userID, "count", len(d.events))
	}
	b.metrics.EventsDelivered(len(d.events), d.redelivery)
	if d.events == nil {
		return []event.Event{}, nil
	}
	return d.events, nil
}

// AcknowledgeEvents clears the pending batch and returns it. The backlog is left untouched.
func (b *EventBroker) AcknowledgeEvents(userID domain.UserID) ([]event.Event, error) {
	mb, err := b.mailboxOf(userID)
	if err != nil {
		return nil, err
	}
	acked := mb.ack()
	b.metrics.EventsAcked(len(acked))
	return acked, nil
}

func (b *EventBroker) mailboxOf(userID domain.UserID) (*mailbox, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sessions[userID]
	if !ok {
		return nil, brokerErr(errors.ErrNotSubscribed, "no open session for user %s", userID)
	}
	return s.mb, nil
}

type BrokerStats struct {
	Sessions int
	Backlog  int
	Pending  int
}

func (b *EventBroker) Stats() BrokerStats {
	b.mu.RLock()
	mailboxes := make([]*mailbox, 0, len(b.sessions))
	for _, s := range b.sessions {
		mailboxes = append(mailboxes, s.mb)
	}
	b.mu.RUnlock()

	stats := BrokerStats{Sessions: len(mailboxes)}
	for _, mb := range mailboxes {
		backlog, pending := mb.sizes()
		stats.Backlog += backlog
		stats.Pending += pending
	}
	return stats
}

func brokerErr(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", errors.ErrBroker, kind, fmt.Sprintf(format, args...))
}
