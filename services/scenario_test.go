package services

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	t           *testing.T
	store       *repositories.ChatStore
	broker      *runtime.EventBroker
	coordinator *ChatCoordinator
	clock       *testClock
}

func newHarness(t *testing.T, opts ...CoordinatorOption) *harness {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	store, err := repositories.NewChatStore(db, log)
	req.NoError(err)
	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close()
	})

	clock := &testClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	broker := runtime.NewEventBroker(log, runtime.WithClock(clock.Now), runtime.WithAckTimeout(3*time.Second))
	return &harness{
		t:           t,
		store:       store,
		broker:      broker,
		coordinator: NewChatCoordinator(log, store, broker, opts...),
		clock:       clock,
	}
}

func (h *harness) addUser(name string) domain.User {
	h.t.Helper()
	ctx := context.Background()
	uow, err := h.store.Begin(ctx)
	require.NoError(h.t, err)
	defer func() { _ = uow.Rollback(ctx) }()
	user, err := uow.Chats().AddUser(ctx, name)
	require.NoError(h.t, err)
	require.NoError(h.t, uow.Commit(ctx))
	return user
}

// connect opens a session and subscribes the user the way the gateway does.
func (h *harness) connect(userID domain.UserID) *runtime.Session {
	h.t.Helper()
	session, err := h.broker.OpenSession(userID)
	require.NoError(h.t, err)
	h.t.Cleanup(session.Close)
	require.NoError(h.t, h.coordinator.SubscribeForUpdates(context.Background(), userID))
	return session
}

func kinds(events []event.Event) []event.Kind {
	return lo.Map(events, func(e event.Event, _ int) event.Kind { return e.Kind() })
}

func ids(users []domain.UserSummary) []domain.UserID {
	return lo.Map(users, func(u domain.UserSummary, _ int) domain.UserID { return u.ID })
}

// Scenario: the chat-list update only arrives after the join notification is acknowledged.
func TestScenario_Join_Notification_Then_Chat_List_Update(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	owner, user := h.addUser("owner"), h.addUser("user")
	h.connect(owner.ID)
	h.connect(user.ID)

	// Given the owner creates a chat then adds the user
	chat, err := h.coordinator.CreateChat(ctx, owner.ID, domain.NewChat{Title: "C", OwnerID: owner.ID})
	req.NoError(err)
	req.NoError(h.coordinator.AddUserToChat(ctx, owner.ID, user.ID, chat.ID))

	// When the user reads events, the join notification comes first
	events, err := h.coordinator.GetEvents(ctx, user.ID, nil)
	req.NoError(err)
	req.Equal([]event.Kind{event.KindUserAddedToChat, event.KindFirstCircleUserListUpdate}, kinds(events))
	joined := events[0].(event.UserAddedToChatNotification)
	req.Equal(chat.ID, joined.ChatID)
	req.Equal(user.ID, joined.UserID)
	req.Equal(owner.ID, joined.AddedBy)

	// And nothing else until acknowledged
	events, err = h.coordinator.GetEvents(ctx, user.ID, nil)
	req.NoError(err)
	req.Empty(events)

	acked, err := h.coordinator.AcknowledgeEvents(ctx, user.ID)
	req.NoError(err)
	req.Len(acked, 2)

	// Then the chat-list update shows both members
	events, err = h.coordinator.GetEvents(ctx, user.ID, nil)
	req.NoError(err)
	req.Len(events, 1)
	update, ok := events[0].(event.ChatListUpdate)
	req.True(ok)
	req.Equal(chat.ID, update.Chat.ID)
	req.Equal(2, update.Chat.MembersCount)
}

func TestScenario_Creator_Sees_Own_Join_And_Circle(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	owner := h.addUser("solo")
	h.connect(owner.ID)

	_, err := h.coordinator.CreateChat(ctx, owner.ID, domain.NewChat{Title: "alone", OwnerID: owner.ID})
	req.NoError(err)

	events, err := h.coordinator.GetEvents(ctx, owner.ID, nil)
	req.NoError(err)
	req.Equal([]event.Kind{event.KindUserAddedToChat, event.KindFirstCircleUserListUpdate}, kinds(events))
	// Joining a first chat alone reports just oneself
	circle := events[1].(event.FirstCircleUserListUpdate)
	req.False(circle.IsFull)
	req.Equal([]domain.UserID{owner.ID}, ids(circle.Users))
}

// Scenario: first-circle deltas report each entrant once.
func TestScenario_First_Circle_Delta(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	u1, u2, u3 := h.addUser("u1"), h.addUser("u2"), h.addUser("u3")

	// Given u1 and u2 share a single chat, with nobody connected
	chat, err := h.coordinator.CreateChat(ctx, u1.ID, domain.NewChat{Title: "C1", OwnerID: u1.ID})
	req.NoError(err)
	req.NoError(h.coordinator.AddUserToChat(ctx, u1.ID, u2.ID, chat.ID))

	// CreateChat already reported u1 to itself
	delta, err := h.coordinator.GetFirstCircleUserList(ctx, u1.ID, false)
	req.NoError(err)
	req.Equal([]domain.UserID{u2.ID}, ids(delta))

	// A full query reports everybody
	delta, err = h.coordinator.GetFirstCircleUserList(ctx, u1.ID, true)
	req.NoError(err)
	req.ElementsMatch([]domain.UserID{u1.ID, u2.ID}, ids(delta))

	// Nothing changed, nothing reported
	delta, err = h.coordinator.GetFirstCircleUserList(ctx, u1.ID, false)
	req.NoError(err)
	req.Empty(delta)

	// When u3 joins, only u3 is new
	req.NoError(h.coordinator.AddUserToChat(ctx, u1.ID, u3.ID, chat.ID))
	delta, err = h.coordinator.GetFirstCircleUserList(ctx, u1.ID, false)
	req.NoError(err)
	req.Equal([]domain.UserID{u3.ID}, ids(delta))
}

// drain reads and acknowledges batches until the user's mailbox is empty.
func (h *harness) drain(userID domain.UserID) []event.Event {
	h.t.Helper()
	ctx := context.Background()
	var all []event.Event
	for {
		events, err := h.coordinator.GetEvents(ctx, userID, nil)
		require.NoError(h.t, err)
		if len(events) == 0 {
			return all
		}
		all = append(all, events...)
		_, err = h.coordinator.AcknowledgeEvents(ctx, userID)
		require.NoError(h.t, err)
	}
}

func TestScenario_First_Circle_Concurrent_Queries(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	u1, u2 := h.addUser("u1"), h.addUser("u2")
	h.connect(u1.ID)
	chat, err := h.coordinator.CreateChat(ctx, u1.ID, domain.NewChat{Title: "C1", OwnerID: u1.ID})
	req.NoError(err)
	h.drain(u1.ID)

	// Given u2 joins u1's chat
	req.NoError(h.coordinator.AddUserToChat(ctx, u1.ID, u2.ID, chat.ID))

	// When u1's circle is queried from many goroutines at once
	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		deltas [][]domain.UserSummary
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			delta, err := h.coordinator.GetFirstCircleUserList(ctx, u1.ID, false)
			if err != nil {
				t.Errorf("first circle: %v", err)
				return
			}
			mu.Lock()
			deltas = append(deltas, delta)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Then u2 is reported by exactly one call
	req.Len(deltas, callers)
	reported := lo.CountBy(deltas, func(d []domain.UserSummary) bool {
		return lo.Contains(ids(d), u2.ID)
	})
	req.Equal(1, reported)

	// And published in exactly one update
	updates := lo.CountBy(h.drain(u1.ID), func(e event.Event) bool {
		update, ok := e.(event.FirstCircleUserListUpdate)
		return ok && lo.Contains(ids(update.Users), u2.ID)
	})
	req.Equal(1, updates)
}

func TestScenario_First_Circle_Fresh_Coordinator(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	u1, u2 := h.addUser("u1"), h.addUser("u2")
	chat, err := h.coordinator.CreateChat(ctx, u1.ID, domain.NewChat{Title: "C1", OwnerID: u1.ID})
	req.NoError(err)
	req.NoError(h.coordinator.AddUserToChat(ctx, u1.ID, u2.ID, chat.ID))

	// A coordinator that never saw u1 reports both members, then nothing
	fresh := NewChatCoordinator(logs.GetLoggerFromLevel(slog.LevelDebug), h.store, h.broker)
	h.connect(u1.ID)
	delta, err := fresh.GetFirstCircleUserList(ctx, u1.ID, false)
	req.NoError(err)
	req.ElementsMatch([]domain.UserID{u1.ID, u2.ID}, ids(delta))

	events, err := fresh.GetEvents(ctx, u1.ID, nil)
	req.NoError(err)
	req.Len(events, 1)
	req.Equal(event.KindFirstCircleUserListUpdate, events[0].Kind())

	delta, err = fresh.GetFirstCircleUserList(ctx, u1.ID, false)
	req.NoError(err)
	req.Empty(delta)
}

func TestScenario_Message_Send_Edit_Redelivery(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	alice, bob := h.addUser("alice"), h.addUser("bob")
	chat, err := h.coordinator.CreateChat(ctx, alice.ID, domain.NewChat{Title: "C", OwnerID: alice.ID})
	req.NoError(err)
	req.NoError(h.coordinator.AddUserToChat(ctx, alice.ID, bob.ID, chat.ID))

	// Both connect after the membership changes
	h.connect(alice.ID)
	h.connect(bob.ID)

	msg, err := h.coordinator.SendMessage(ctx, alice.ID, domain.NewMessage{ChatID: chat.ID, SenderID: alice.ID, Text: "hi"})
	req.NoError(err)

	events, err := h.coordinator.GetEvents(ctx, bob.ID, nil)
	req.NoError(err)
	req.Len(events, 1)
	req.Equal("hi", events[0].(event.ChatMessageEvent).Text)

	// Unacknowledged, the batch comes back after the timeout
	h.clock.Advance(3 * time.Second)
	again, err := h.coordinator.GetEvents(ctx, bob.ID, nil)
	req.NoError(err)
	req.Equal(events, again)
	_, err = h.coordinator.AcknowledgeEvents(ctx, bob.ID)
	req.NoError(err)

	// Bob cannot edit Alice's message
	_, err = h.coordinator.EditMessage(ctx, bob.ID, msg.ID, "hacked")
	req.ErrorIs(err, errors.ErrUnauthorizedAction)

	// Alice can, and the edit reaches her too
	edited, err := h.coordinator.EditMessage(ctx, alice.ID, msg.ID, "hi all")
	req.NoError(err)
	req.NotNil(edited.EditedAt)
	for _, userID := range []domain.UserID{alice.ID, bob.ID} {
		events, err := h.coordinator.GetEvents(ctx, userID, nil)
		req.NoError(err)
		edit, ok := events[len(events)-1].(event.ChatMessageEdited)
		req.True(ok)
		req.Equal("hi all", edit.Text)
	}

	// The timeline holds the edit, newest first, and the chat list its last message
	timeline, err := h.coordinator.GetMessageList(ctx, chat.ID, nil, nil, nil)
	req.NoError(err)
	req.Equal("hi all", timeline[0].Text)
	chats, err := h.coordinator.GetJoinedChatList(ctx, bob.ID)
	req.NoError(err)
	req.Len(chats, 1)
	req.Equal(lo.ToPtr("hi all"), chats[0].LastMessageText)
}

func TestScenario_No_Persisted_Change_On_Unauthorized(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	owner, intruder, victim := h.addUser("owner"), h.addUser("intruder"), h.addUser("victim")
	chat, err := h.coordinator.CreateChat(ctx, owner.ID, domain.NewChat{Title: "C", OwnerID: owner.ID})
	req.NoError(err)

	err = h.coordinator.AddUserToChat(ctx, intruder.ID, victim.ID, chat.ID)
	req.ErrorIs(err, errors.ErrUnauthorizedAction)
	_, err = h.coordinator.SendMessage(ctx, intruder.ID, domain.NewMessage{ChatID: chat.ID, SenderID: owner.ID, Text: "spoof"})
	req.ErrorIs(err, errors.ErrUnauthorizedAction)

	chats, err := h.coordinator.GetJoinedChatList(ctx, victim.ID)
	req.NoError(err)
	req.Empty(chats)
	timeline, err := h.coordinator.GetMessageList(ctx, chat.ID, nil, nil, nil)
	req.NoError(err)
	// Only the owner's own join notification
	req.Len(timeline, 1)
	req.True(timeline[0].IsNotification)
}

func TestScenario_Moderated_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	mod, err := moderation.NewModerator([]string{"badger"}, '*', logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	h := newHarness(t, WithModerator(mod))
	alice := h.addUser("alice")
	chat, err := h.coordinator.CreateChat(ctx, alice.ID, domain.NewChat{Title: "C", OwnerID: alice.ID})
	req.NoError(err)

	msg, err := h.coordinator.SendMessage(ctx, alice.ID, domain.NewMessage{ChatID: chat.ID, SenderID: alice.ID, Text: "a badger"})
	req.NoError(err)
	req.Equal("a ******", msg.Text)
}

func TestScenario_User_List(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	for _, name := range []string{"zoe", "Yann", "yasmine"} {
		h.addUser(name)
	}

	users, err := h.coordinator.GetUserList(ctx, "ya", nil, nil)
	req.NoError(err)
	req.Equal([]string{"Yann", "yasmine"}, lo.Map(users, func(u domain.UserSummary, _ int) string { return u.Name }))
}
