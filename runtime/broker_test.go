package runtime

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand so the ack timeout can be crossed deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBroker(clock *fakeClock) *EventBroker {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewEventBroker(log, WithClock(clock.Now), WithAckTimeout(3*time.Second))
}

func textEvent(text string) event.ChatMessageEvent {
	return event.NewChatMessageEvent(domain.Message{
		ID:       domain.MessageID(1),
		ChatID:   uuid.New(),
		SenderID: uuid.New(),
		Text:     text,
		SentAt:   time.Now(),
	})
}

func texts(events []event.Event) []string {
	return lo.Map(events, func(e event.Event, _ int) string {
		switch ev := e.(type) {
		case event.ChatMessageEvent:
			return ev.Text
		default:
			return string(e.Kind())
		}
	})
}

func TestEventBroker_OpenSession_Twice(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()

	// Given a user with an open session
	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()

	// When a second session is opened for the same user
	_, err = broker.OpenSession(userID)

	// Then it is refused
	req.ErrorIs(err, errors.ErrAlreadySubscribed)
	req.ErrorIs(err, errors.ErrBroker)
	req.True(broker.HasSession(userID))
}

func TestEventBroker_Session_Close_Then_Reopen(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	req.NoError(broker.Subscribe(channel, userID))
	req.NoError(broker.PostEvent(channel, textEvent("lost")))

	// When the session is closed, twice
	session.Close()
	session.Close()

	// Then the user is gone
	req.False(broker.HasSession(userID))
	_, err = broker.GetEvents(userID, nil)
	req.ErrorIs(err, errors.ErrNotSubscribed)

	// And a new session starts empty, without the old subscriptions
	session, err = broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.PostEvent(channel, textEvent("unseen")))
	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Empty(events)
}

func TestEventBroker_Subscribe_Without_Session(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())

	err := broker.Subscribe(domain.ChatChannel(uuid.New()), uuid.New())

	req.ErrorIs(err, errors.ErrUsage)
	req.ErrorIs(err, errors.ErrBroker)
}

func TestEventBroker_Ack_Without_Session(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())

	_, err := broker.AcknowledgeEvents(uuid.New())

	req.ErrorIs(err, errors.ErrNotSubscribed)
	req.ErrorIs(err, errors.ErrBroker)
}

func TestEventBroker_Post_Without_Subscribers(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())

	req.NoError(broker.PostEvent(domain.ChatChannel(uuid.New()), textEvent("nobody")))
}

// Events posted before the session opens are never seen, even on the same channel.
func TestEventBroker_Post_Before_Subscribe_Yields_Nothing(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	other := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	// Given someone else listens on the channel
	otherSession, err := broker.OpenSession(other)
	req.NoError(err)
	defer otherSession.Close()
	req.NoError(broker.Subscribe(channel, other))

	// When an event is posted before the user subscribes
	req.NoError(broker.PostEvent(channel, textEvent("before")))
	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.Subscribe(channel, userID))

	// Then the user sees nothing
	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Empty(events)
}

// Scenario: a subscribed user gets a message once, then nothing on an immediate retry.
func TestEventBroker_Subscribe_Post_Get(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.Subscribe(channel, userID))

	req.NoError(broker.PostEvent(channel, textEvent("hi")))

	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Equal([]string{"hi"}, texts(events))

	events, err = broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Empty(events)
}

func TestEventBroker_FIFO_Across_Channels(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	chat1 := domain.ChatChannel(uuid.New())
	chat2 := domain.ChatChannel(uuid.New())
	own := domain.UserChannel(userID)

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.SubscribeMany([]domain.Channel{chat1, chat2, own}, userID))
	// Subscribing twice changes nothing
	req.NoError(broker.Subscribe(chat1, userID))

	channels := []domain.Channel{chat2, chat1, own, chat1, chat2, own, chat1}
	var expected []string
	for i, ch := range channels {
		text := string(rune('a' + i))
		expected = append(expected, text)
		req.NoError(broker.PostEvent(ch, textEvent(text)))
	}

	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Equal(expected, texts(events))
}

func TestEventBroker_Redelivery_After_Ack_Timeout(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	broker := newTestBroker(clock)
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.Subscribe(channel, userID))
	sent := textEvent("hi")
	req.NoError(broker.PostEvent(channel, sent))

	// Given one event was delivered and not acknowledged
	first, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Len(first, 1)

	// When the ack timeout has not elapsed yet
	clock.Advance(2999 * time.Millisecond)
	// Then nothing is delivered, not even newer backlog
	req.NoError(broker.PostEvent(channel, textEvent("later")))
	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Empty(events)

	// When it elapses, the same batch comes back, repeatedly
	for range 3 {
		clock.Advance(1 * time.Millisecond)
		events, err = broker.GetEvents(userID, nil)
		req.NoError(err)
		req.Equal([]event.Event{sent}, events)

		events, err = broker.GetEvents(userID, nil)
		req.NoError(err)
		req.Empty(events)
		clock.Advance(2999 * time.Millisecond)
	}
}

func TestEventBroker_Ack_Unblocks_Backlog(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.Subscribe(channel, userID))
	req.NoError(broker.PostEvent(channel, textEvent("one")))

	delivered, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.NoError(broker.PostEvent(channel, textEvent("two")))

	// When the pending batch is acknowledged
	acked, err := broker.AcknowledgeEvents(userID)
	req.NoError(err)
	req.Equal(delivered, acked)

	// Then the next call reads from the backlog
	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Equal([]string{"two"}, texts(events))

	// And acknowledging twice returns nothing the second time
	_, err = broker.AcknowledgeEvents(userID)
	req.NoError(err)
	acked, err = broker.AcknowledgeEvents(userID)
	req.NoError(err)
	req.Empty(acked)
}

func TestEventBroker_GetEvents_Limit(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.Subscribe(channel, userID))
	for _, text := range []string{"a", "b", "c"} {
		req.NoError(broker.PostEvent(channel, textEvent(text)))
	}

	events, err := broker.GetEvents(userID, lo.ToPtr(2))
	req.NoError(err)
	req.Equal([]string{"a", "b"}, texts(events))
	_, err = broker.AcknowledgeEvents(userID)
	req.NoError(err)

	events, err = broker.GetEvents(userID, lo.ToPtr(2))
	req.NoError(err)
	req.Equal([]string{"c"}, texts(events))

	_, err = broker.GetEvents(userID, lo.ToPtr(-1))
	req.ErrorIs(err, errors.ErrUsage)
}

func TestEventBroker_PostEventAfterAck_Waits_For_Previous_Batch(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	chat := domain.ChatChannel(uuid.New())
	own := domain.UserChannel(userID)

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.SubscribeMany([]domain.Channel{chat, own}, userID))

	// Given a regular event followed by one that must wait for an ack
	req.NoError(broker.PostEvent(chat, textEvent("joined")))
	req.NoError(broker.PostEventAfterAck(own, textEvent("chat list")))
	req.NoError(broker.PostEvent(chat, textEvent("after")))

	// Then the first batch stops before it
	events, err := broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Equal([]string{"joined"}, texts(events))

	// And it leads the next batch once the first is acknowledged
	_, err = broker.AcknowledgeEvents(userID)
	req.NoError(err)
	events, err = broker.GetEvents(userID, nil)
	req.NoError(err)
	req.Equal([]string{"chat list", "after"}, texts(events))
}

func TestEventBroker_Instances_Are_Isolated(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	broker1 := newTestBroker(clock)
	broker2 := newTestBroker(clock)
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session1, err := broker1.OpenSession(userID)
	req.NoError(err)
	defer session1.Close()
	session2, err := broker2.OpenSession(userID)
	req.NoError(err)
	defer session2.Close()
	req.NoError(broker1.Subscribe(channel, userID))

	req.NoError(broker2.PostEvent(channel, textEvent("elsewhere")))

	events, err := broker1.GetEvents(userID, nil)
	req.NoError(err)
	req.Empty(events)
}

func TestEventBroker_Ready_Signal(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	userID := uuid.New()
	channel := domain.ChatChannel(uuid.New())

	session, err := broker.OpenSession(userID)
	req.NoError(err)
	defer session.Close()
	req.NoError(broker.Subscribe(channel, userID))

	req.NoError(broker.PostEvent(channel, textEvent("a")))
	req.NoError(broker.PostEvent(channel, textEvent("b")))

	select {
	case <-session.Ready():
	default:
		req.Fail("expected a ready signal")
	}
	// Signals coalesce
	select {
	case <-session.Ready():
		req.Fail("expected a single coalesced signal")
	default:
	}
}

func TestEventBroker_Concurrent_Posts(t *testing.T) {
	req := require.New(t)
	broker := newTestBroker(newFakeClock())
	channel := domain.ChatChannel(uuid.New())
	users := make([]domain.UserID, 20)
	for i := range users {
		users[i] = uuid.New()
		session, err := broker.OpenSession(users[i])
		req.NoError(err)
		defer session.Close()
		req.NoError(broker.Subscribe(channel, users[i]))
	}

	const publishers, perPublisher = 8, 50
	var wg sync.WaitGroup
	for range publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perPublisher {
				_ = broker.PostEvent(channel, textEvent("x"))
			}
		}()
	}
	wg.Wait()

	for _, userID := range users {
		events, err := broker.GetEvents(userID, nil)
		req.NoError(err)
		req.Len(events, publishers*perPublisher)
	}
	stats := broker.Stats()
	req.Equal(len(users), stats.Sessions)
	req.Equal(0, stats.Backlog)
	req.Equal(len(users)*publishers*perPublisher, stats.Pending)
}
